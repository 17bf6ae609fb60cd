package model

import "time"

// Customer is identified by (tenant, email) and upserted inside the booking
// transaction so a failed booking never leaves a stray customer row.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
