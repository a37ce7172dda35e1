package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository over
// database/sql.
type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Add persists the transaction. The timestamp is assigned here, in UTC,
// overriding anything the caller put on the struct.
func (r *TransactionRepository) Add(ctx context.Context, transaction *domain.Transaction) error {
	transaction.Timestamp = time.Now().UTC()

	if err := r.db.Dialect.InsertTransaction(ctx, r.db.DB, transaction); err != nil {
		slog.Error("Failed to insert transaction", "stock_id", transaction.StockID, "broker_id", transaction.BrokerID, "error", err)
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetAllByBrokerID(ctx context.Context, brokerID int64) ([]domain.Transaction, error) {
	query := r.db.rebind(`
		SELECT id, stock_id, broker_id, price, shares, created_at
		FROM transactions
		WHERE broker_id = $1
	`)

	rows, err := r.db.QueryContext(ctx, query, brokerID)
	if err != nil {
		slog.Error("Failed to query transactions", "broker_id", brokerID, "error", err)
		return nil, fmt.Errorf("querying transactions for broker %d: %w", brokerID, err)
	}
	defer closeRows(rows)

	return scanTransactions(rows)
}

func (r *TransactionRepository) GetAllByStockID(ctx context.Context, stockID int64) ([]domain.Transaction, error) {
	query := r.db.rebind(`
		SELECT id, stock_id, broker_id, price, shares, created_at
		FROM transactions
		WHERE stock_id = $1
	`)

	rows, err := r.db.QueryContext(ctx, query, stockID)
	if err != nil {
		slog.Error("Failed to query transactions", "stock_id", stockID, "error", err)
		return nil, fmt.Errorf("querying transactions for stock %d: %w", stockID, err)
	}
	defer closeRows(rows)

	return scanTransactions(rows)
}

func (r *TransactionRepository) GetRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	// FETCH FIRST works on both postgres and oracle; id breaks timestamp
	// ties deterministically.
	query := r.db.rebind(`
		SELECT id, stock_id, broker_id, price, shares, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC
		FETCH FIRST $1 ROWS ONLY
	`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Error("Failed to query recent transactions", "limit", limit, "error", err)
		return nil, fmt.Errorf("querying recent transactions: %w", err)
	}
	defer closeRows(rows)

	return scanTransactions(rows)
}

func (r *TransactionRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	query := r.db.rebind(`
		SELECT id, stock_id, broker_id, price, shares, created_at
		FROM transactions
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at
	`)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		slog.Error("Failed to query transactions by date range", "error", err)
		return nil, fmt.Errorf("querying transactions by date range: %w", err)
	}
	defer closeRows(rows)

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.StockID, &t.BrokerID, &t.Price, &t.Shares, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}
