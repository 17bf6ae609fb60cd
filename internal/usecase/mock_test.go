//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/adapter"
	"vendor-booking-platform/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Transaction manager ---

// MockTxManager runs the callback synchronously with an opaque handle and
// invokes finishers afterwards so lock-holding mocks can release.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
	Finishers  []func(tx repository.Tx)
	txSeq      int64
}

// mockTxHandle carries an id so zero-size pointer folding cannot alias two
// concurrent transactions.
type mockTxHandle struct{ id int64 }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	tx := &mockTxHandle{id: atomic.AddInt64(&m.txSeq, 1)}
	err := fn(ctx, tx)
	for _, f := range m.Finishers {
		f(tx)
	}
	return err
}

// --- Booking repository ---

// MockBookingRepo defaults to an empty ledger with real try-lock semantics
// keyed by (tenant, date); every method is swappable per test.
type MockBookingRepo struct {
	mu       sync.Mutex
	locks    map[string]repository.Tx
	bookings map[string]*model.Booking // id -> booking

	AcquireDateLockFunc  func(ctx context.Context, tx repository.Tx, tenantID string, date time.Time) error
	FindActiveByDateFunc func(ctx context.Context, tx repository.Tx, tenantID string, date time.Time) (*model.Booking, error)
	InsertFunc           func(ctx context.Context, tx repository.Tx, b *model.Booking, pay *model.PaymentRecord) error
}

func NewMockBookingRepo() *MockBookingRepo {
	return &MockBookingRepo{
		locks:    make(map[string]repository.Tx),
		bookings: make(map[string]*model.Booking),
	}
}

func lockKey(tenantID string, date time.Time) string {
	return tenantID + "|" + model.DateOnly(date).Format("2006-01-02")
}

func (m *MockBookingRepo) AcquireDateLock(ctx context.Context, tx repository.Tx, tenantID string, date time.Time) error {
	if m.AcquireDateLockFunc != nil {
		return m.AcquireDateLockFunc(ctx, tx, tenantID, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := lockKey(tenantID, date)
	if holder, held := m.locks[key]; held && holder != tx {
		return domain.ErrBookingLockTimeout
	}
	m.locks[key] = tx
	return nil
}

// ReleaseTx mirrors commit/rollback releasing transaction-scoped locks.
func (m *MockBookingRepo) ReleaseTx(tx repository.Tx) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, holder := range m.locks {
		if holder == tx {
			delete(m.locks, key)
		}
	}
}

func (m *MockBookingRepo) FindActiveByDate(ctx context.Context, tx repository.Tx, tenantID string, date time.Time) (*model.Booking, error) {
	if m.FindActiveByDateFunc != nil {
		return m.FindActiveByDateFunc(ctx, tx, tenantID, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.TenantID == tenantID && b.EventDate.Equal(model.DateOnly(date)) && b.Status.Active() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockBookingRepo) Insert(ctx context.Context, tx repository.Tx, b *model.Booking, pay *model.PaymentRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, b, pay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.TenantID == b.TenantID && existing.EventDate.Equal(b.EventDate) && existing.Status.Active() {
			return domain.ErrBookingConflict
		}
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *MockBookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBookingRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.Reference == reference {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockBookingRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string, offset, limit int) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.TenantID == tenantID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

// Count returns the number of active bookings held for a tenant date.
func (m *MockBookingRepo) Count(tenantID string, date time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.TenantID == tenantID && b.EventDate.Equal(model.DateOnly(date)) && b.Status.Active() {
			n++
		}
	}
	return n
}

// --- Webhook repository ---

// MockWebhookRepo is a semantic in-memory ledger mirroring the SQL
// implementation's single-statement observe behavior.
type MockWebhookRepo struct {
	mu   sync.Mutex
	rows map[string]*model.WebhookEvent

	RecordFunc  func(ctx context.Context, tx repository.Tx, ev *model.WebhookEvent) (bool, error)
	ObserveFunc func(ctx context.Context, tx repository.Tx, tenantID, eventID string) (bool, model.WebhookStatus, error)
}

func NewMockWebhookRepo() *MockWebhookRepo {
	return &MockWebhookRepo{rows: make(map[string]*model.WebhookEvent)}
}

func eventKey(tenantID, eventID string) string { return tenantID + "|" + eventID }

func (m *MockWebhookRepo) Record(ctx context.Context, tx repository.Tx, ev *model.WebhookEvent) (bool, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, tx, ev)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := eventKey(ev.TenantID, ev.EventID)
	if _, exists := m.rows[key]; exists {
		return false, nil
	}
	cp := *ev
	m.rows[key] = &cp
	return true, nil
}

func (m *MockWebhookRepo) Observe(ctx context.Context, tx repository.Tx, tenantID, eventID string) (bool, model.WebhookStatus, error) {
	if m.ObserveFunc != nil {
		return m.ObserveFunc(ctx, tx, tenantID, eventID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, exists := m.rows[eventKey(tenantID, eventID)]
	if !exists {
		return false, "", nil
	}
	prev := row.Status
	row.Attempts++
	if row.Status != model.WebhookStatusProcessed {
		row.Status = model.WebhookStatusDuplicate
	}
	return true, prev, nil
}

func (m *MockWebhookRepo) MarkProcessed(ctx context.Context, tx repository.Tx, tenantID, eventID, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, exists := m.rows[eventKey(tenantID, eventID)]
	if !exists {
		return domain.ErrNotFound
	}
	now := time.Now()
	row.Status = model.WebhookStatusProcessed
	row.BookingID = &bookingID
	row.LastError = ""
	row.ProcessedAt = &now
	return nil
}

func (m *MockWebhookRepo) MarkFailed(ctx context.Context, tx repository.Tx, tenantID, eventID, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, exists := m.rows[eventKey(tenantID, eventID)]
	if !exists {
		return domain.ErrNotFound
	}
	if row.Status == model.WebhookStatusProcessed {
		return nil
	}
	row.Status = model.WebhookStatusFailed
	row.LastError = lastError
	row.Attempts++
	return nil
}

func (m *MockWebhookRepo) FindByEventID(ctx context.Context, tx repository.Tx, tenantID, eventID string) (*model.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, exists := m.rows[eventKey(tenantID, eventID)]
	if !exists {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *MockWebhookRepo) RowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// --- Customer repository ---

type MockCustomerRepo struct {
	mu        sync.Mutex
	seq       int
	customers map[string]*model.Customer // (tenant|email) -> customer

	UpsertByEmailFunc func(ctx context.Context, tx repository.Tx, c *model.Customer) (string, error)
}

func NewMockCustomerRepo() *MockCustomerRepo {
	return &MockCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (m *MockCustomerRepo) UpsertByEmail(ctx context.Context, tx repository.Tx, c *model.Customer) (string, error) {
	if m.UpsertByEmailFunc != nil {
		return m.UpsertByEmailFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := c.TenantID + "|" + c.Email
	if existing, ok := m.customers[key]; ok {
		existing.Name = c.Name
		existing.Phone = c.Phone
		return existing.ID, nil
	}
	m.seq++
	cp := *c
	cp.ID = fmt.Sprintf("cust-%d", m.seq)
	m.customers[key] = &cp
	return cp.ID, nil
}

func (m *MockCustomerRepo) FindByEmail(ctx context.Context, tx repository.Tx, tenantID, email string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[tenantID+"|"+email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// --- Catalog repository ---

type MockCatalogRepo struct {
	mu       sync.Mutex
	tenants  map[string]*model.Tenant
	packages map[string]*model.Package
	addOns   map[string]*model.AddOn

	FindPackageByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Package, error)
	FindTenantByIDFunc  func(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error)
}

func NewMockCatalogRepo() *MockCatalogRepo {
	return &MockCatalogRepo{
		tenants:  make(map[string]*model.Tenant),
		packages: make(map[string]*model.Package),
		addOns:   make(map[string]*model.AddOn),
	}
}

func (m *MockCatalogRepo) AddTenant(t *model.Tenant)  { m.mu.Lock(); m.tenants[t.ID] = t; m.mu.Unlock() }
func (m *MockCatalogRepo) AddPackage(p *model.Package) {
	m.mu.Lock()
	m.packages[p.ID] = p
	m.mu.Unlock()
}
func (m *MockCatalogRepo) AddAddOn(a *model.AddOn) { m.mu.Lock(); m.addOns[a.ID] = a; m.mu.Unlock() }

func (m *MockCatalogRepo) FindTenantByID(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error) {
	if m.FindTenantByIDFunc != nil {
		return m.FindTenantByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockCatalogRepo) FindPackageByID(ctx context.Context, tx repository.Tx, id string) (*model.Package, error) {
	if m.FindPackageByIDFunc != nil {
		return m.FindPackageByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockCatalogRepo) FindPackageBySlug(ctx context.Context, tx repository.Tx, tenantID, slug string) (*model.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.packages {
		if p.TenantID == tenantID && p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCatalogRepo) ListAddOns(ctx context.Context, tx repository.Tx, packageID string) ([]*model.AddOn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.AddOn
	for _, a := range m.addOns {
		if a.PackageID == packageID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockCatalogRepo) FindAddOns(ctx context.Context, tx repository.Tx, packageID string, ids []string) ([]*model.AddOn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.AddOn, 0, len(ids))
	for _, id := range ids {
		a, ok := m.addOns[id]
		if !ok || a.PackageID != packageID {
			return nil, domain.ErrNotFound
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// --- Idempotency store ---

type MockIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]*model.CheckoutSession
	reserved  map[string]bool

	GetResponseFunc   func(ctx context.Context, key string) (*model.CheckoutSession, error)
	ReserveFunc       func(ctx context.Context, key string, ttl time.Duration) (bool, error)
	StoreResponseFunc func(ctx context.Context, key string, s *model.CheckoutSession, ttl time.Duration) error
	ReleaseFunc       func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		responses: make(map[string]*model.CheckoutSession),
		reserved:  make(map[string]bool),
	}
}

func (m *MockIdempotencyStore) GetResponse(ctx context.Context, key string) (*model.CheckoutSession, error) {
	if m.GetResponseFunc != nil {
		return m.GetResponseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.responses[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserved[key] {
		return false, nil
	}
	m.reserved[key] = true
	return true, nil
}

func (m *MockIdempotencyStore) StoreResponse(ctx context.Context, key string, s *model.CheckoutSession, ttl time.Duration) error {
	if m.StoreResponseFunc != nil {
		return m.StoreResponseFunc(ctx, key, s, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.responses[key] = &cp
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reserved, key)
	return nil
}

func (m *MockIdempotencyStore) Reserved(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserved[key]
}

// --- Payment provider ---

type MockPaymentProvider struct {
	mu  sync.Mutex
	seq int

	CreateCheckoutSessionFunc func(ctx context.Context, req adapter.CheckoutRequest) (*model.CheckoutSession, error)
	Calls                     []adapter.CheckoutRequest
}

func (m *MockPaymentProvider) Name() string { return "mock" }

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutRequest) (*model.CheckoutSession, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return &model.CheckoutSession{
		SessionID:      fmt.Sprintf("sess-%d", m.seq),
		URL:            fmt.Sprintf("https://pay.example.test/sess-%d", m.seq),
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}, nil
}

func (m *MockPaymentProvider) VerifyWebhook(rawBody []byte, signature string) (*adapter.VerifiedEvent, error) {
	return nil, fmt.Errorf("not implemented in mock")
}

func (m *MockPaymentProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Notification emitter ---

type MockEmitter struct {
	mu     sync.Mutex
	Err    error
	Events []adapter.BookingConfirmedEvent
}

func (m *MockEmitter) BookingConfirmed(ctx context.Context, ev adapter.BookingConfirmedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, ev)
	return nil
}

func (m *MockEmitter) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
