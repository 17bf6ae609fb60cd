package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is the opaque transaction handle passed through repository calls.
// The concrete type is infra-defined (pgx.Tx for Postgres); repositories
// MUST gracefully accept nil for the non-transactional path.
type Tx interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying handle via tx. Keeping the handle opaque in the
// ports layer stops transaction types leaking into use-case interfaces
// while still letting repositories run locking statements when a real
// transaction is present.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
