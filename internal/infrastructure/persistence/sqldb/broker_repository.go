package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// BrokerRepository implements domain.BrokerRepository over database/sql.
type BrokerRepository struct {
	db *DB
}

func NewBrokerRepository(db *DB) *BrokerRepository {
	return &BrokerRepository{db: db}
}

func (r *BrokerRepository) GetAll(ctx context.Context) ([]domain.Broker, error) {
	query := `SELECT id, name FROM brokers ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Error("Failed to query brokers", "error", err)
		return nil, fmt.Errorf("querying brokers: %w", err)
	}
	defer closeRows(rows)

	brokers := []domain.Broker{}
	for rows.Next() {
		var b domain.Broker
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scanning broker row: %w", err)
		}
		brokers = append(brokers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return brokers, nil
}

func (r *BrokerRepository) GetByID(ctx context.Context, brokerID int64) (*domain.Broker, error) {
	query := r.db.rebind(`SELECT id, name FROM brokers WHERE id = $1`)

	var b domain.Broker
	err := r.db.QueryRowContext(ctx, query, brokerID).Scan(&b.ID, &b.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.Error("Failed to query broker", "broker_id", brokerID, "error", err)
		return nil, fmt.Errorf("querying broker %d: %w", brokerID, err)
	}
	return &b, nil
}

func (r *BrokerRepository) Add(ctx context.Context, broker *domain.Broker) error {
	if err := r.db.Dialect.InsertBroker(ctx, r.db.DB, broker); err != nil {
		slog.Error("Failed to insert broker", "name", broker.Name, "error", err)
		return fmt.Errorf("inserting broker: %w", err)
	}
	return nil
}

func (r *BrokerRepository) Update(ctx context.Context, broker *domain.Broker) error {
	query := r.db.rebind(`UPDATE brokers SET name = $1 WHERE id = $2`)

	res, err := r.db.ExecContext(ctx, query, broker.Name, broker.ID)
	if err != nil {
		slog.Error("Failed to update broker", "broker_id", broker.ID, "error", err)
		return fmt.Errorf("updating broker %d: %w", broker.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating broker %d: %w", broker.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("broker not found: %d", broker.ID)
	}
	return nil
}

// Delete removes the broker and its transactions atomically. The schema's
// FK cascade would cover the transactions too; deleting them explicitly
// keeps both statements in the same transaction and the row count exact.
func (r *BrokerRepository) Delete(ctx context.Context, brokerID int64) (bool, error) {
	removed := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM transactions WHERE broker_id = $1`), brokerID); err != nil {
			return fmt.Errorf("deleting transactions for broker %d: %w", brokerID, err)
		}

		res, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM brokers WHERE id = $1`), brokerID)
		if err != nil {
			return fmt.Errorf("deleting broker %d: %w", brokerID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting broker %d: %w", brokerID, err)
		}
		removed = affected > 0
		return nil
	})
	if err != nil {
		slog.Error("Failed to delete broker", "broker_id", brokerID, "error", err)
		return false, err
	}
	return removed, nil
}
