package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmanzanog/stock-exchange/internal/domain"
	"github.com/jmanzanog/stock-exchange/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// Goose does not support Oracle natively in a way that is easy to
	// cross-compile with go-ora. We read the SQL file and execute it.
	content, err := migrations.OracleFS.ReadFile("oracle/20240101000000_init.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	// Split statements by '/' which is standard in Oracle scripts
	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

func (d *OracleDialect) InsertStock(ctx context.Context, db *sql.DB, s *domain.Stock) error {
	query := `INSERT INTO stocks (ticker_symbol, current_price)
	          VALUES (:ticker, :price)
	          RETURNING id INTO :id`

	_, err := db.ExecContext(ctx, query,
		sql.Named("ticker", s.TickerSymbol),
		sql.Named("price", s.CurrentPrice),
		sql.Named("id", sql.Out{Dest: &s.ID}),
	)
	return err
}

func (d *OracleDialect) InsertBroker(ctx context.Context, db *sql.DB, b *domain.Broker) error {
	query := `INSERT INTO brokers (name)
	          VALUES (:name)
	          RETURNING id INTO :id`

	_, err := db.ExecContext(ctx, query,
		sql.Named("name", b.Name),
		sql.Named("id", sql.Out{Dest: &b.ID}),
	)
	return err
}

func (d *OracleDialect) InsertTransaction(ctx context.Context, db *sql.DB, t *domain.Transaction) error {
	query := `INSERT INTO transactions (stock_id, broker_id, price, shares, created_at)
	          VALUES (:stock_id, :broker_id, :price, :shares, :created_at)
	          RETURNING id INTO :id`

	_, err := db.ExecContext(ctx, query,
		sql.Named("stock_id", t.StockID),
		sql.Named("broker_id", t.BrokerID),
		sql.Named("price", t.Price),
		sql.Named("shares", t.Shares),
		sql.Named("created_at", t.Timestamp),
		sql.Named("id", sql.Out{Dest: &t.ID}),
	)
	return err
}
