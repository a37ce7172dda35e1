package sqldb

import (
	"context"
	"database/sql"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// Dialect isolates the SQL that differs per backend: schema migration and
// the insert statements that must hand back a generated key.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	InsertStock(ctx context.Context, db *sql.DB, s *domain.Stock) error
	InsertBroker(ctx context.Context, db *sql.DB, b *domain.Broker) error
	InsertTransaction(ctx context.Context, db *sql.DB, t *domain.Transaction) error
}
