package model

import "time"

// Tenant is a vendor on the platform. All data is scoped by tenant id and
// the commission percent is read at calculation time, never cached for the
// lifetime of the process.
type Tenant struct {
	ID                string
	Name              string
	Slug              string
	CommissionPercent float64
	Currency          string
	Active            bool
	CreatedAt         time.Time
}

// Package is a bookable offering published by a tenant.
type Package struct {
	ID        string
	TenantID  string
	Title     string
	Slug      string
	BasePrice int64 // minor currency units
	Currency  string
	Active    bool
	CreatedAt time.Time
}

// AddOn is an optional extra attached to a package.
type AddOn struct {
	ID        string
	PackageID string
	Title     string
	Price     int64 // minor currency units
}
