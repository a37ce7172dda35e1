package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmanzanog/stock-exchange/internal/domain"
	"github.com/jmanzanog/stock-exchange/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) InsertStock(ctx context.Context, db *sql.DB, s *domain.Stock) error {
	query := `
		INSERT INTO stocks (ticker_symbol, current_price)
		VALUES ($1, $2)
		RETURNING id
	`
	return db.QueryRowContext(ctx, query, s.TickerSymbol, s.CurrentPrice).Scan(&s.ID)
}

func (d *PostgresDialect) InsertBroker(ctx context.Context, db *sql.DB, b *domain.Broker) error {
	query := `
		INSERT INTO brokers (name)
		VALUES ($1)
		RETURNING id
	`
	return db.QueryRowContext(ctx, query, b.Name).Scan(&b.ID)
}

func (d *PostgresDialect) InsertTransaction(ctx context.Context, db *sql.DB, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (stock_id, broker_id, price, shares, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return db.QueryRowContext(ctx, query, t.StockID, t.BrokerID, t.Price, t.Shares, t.Timestamp).Scan(&t.ID)
}
