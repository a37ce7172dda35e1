package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// StockRepository implements domain.StockRepository over database/sql.
type StockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) GetAll(ctx context.Context) ([]domain.Stock, error) {
	// ORDER BY for stable output; callers do not rely on it.
	query := `SELECT id, ticker_symbol, current_price FROM stocks ORDER BY ticker_symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Error("Failed to query stocks", "error", err)
		return nil, fmt.Errorf("querying stocks: %w", err)
	}
	defer closeRows(rows)

	return scanStocks(rows)
}

func (r *StockRepository) GetByTickerSymbol(ctx context.Context, tickerSymbol string) (*domain.Stock, error) {
	query := r.db.rebind(`SELECT id, ticker_symbol, current_price FROM stocks WHERE ticker_symbol = $1`)

	var s domain.Stock
	err := r.db.QueryRowContext(ctx, query, tickerSymbol).Scan(&s.ID, &s.TickerSymbol, &s.CurrentPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.Error("Failed to query stock", "ticker", tickerSymbol, "error", err)
		return nil, fmt.Errorf("querying stock %s: %w", tickerSymbol, err)
	}
	return &s, nil
}

func (r *StockRepository) GetByID(ctx context.Context, stockID int64) (*domain.Stock, error) {
	query := r.db.rebind(`SELECT id, ticker_symbol, current_price FROM stocks WHERE id = $1`)

	var s domain.Stock
	err := r.db.QueryRowContext(ctx, query, stockID).Scan(&s.ID, &s.TickerSymbol, &s.CurrentPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.Error("Failed to query stock", "stock_id", stockID, "error", err)
		return nil, fmt.Errorf("querying stock %d: %w", stockID, err)
	}
	return &s, nil
}

func (r *StockRepository) GetByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]domain.Stock, error) {
	if len(tickerSymbols) == 0 {
		return []domain.Stock{}, nil
	}

	placeholders := make([]string, len(tickerSymbols))
	args := make([]interface{}, len(tickerSymbols))
	for i, ticker := range tickerSymbols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = ticker
	}

	query := r.db.rebind(fmt.Sprintf(
		`SELECT id, ticker_symbol, current_price FROM stocks WHERE ticker_symbol IN (%s)`,
		strings.Join(placeholders, ", "),
	))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("Failed to query stocks by tickers", "error", err)
		return nil, fmt.Errorf("querying stocks by tickers: %w", err)
	}
	defer closeRows(rows)

	return scanStocks(rows)
}

func (r *StockRepository) Update(ctx context.Context, stock *domain.Stock) error {
	query := r.db.rebind(`UPDATE stocks SET ticker_symbol = $1, current_price = $2 WHERE id = $3`)

	res, err := r.db.ExecContext(ctx, query, stock.TickerSymbol, stock.CurrentPrice, stock.ID)
	if err != nil {
		slog.Error("Failed to update stock", "stock_id", stock.ID, "error", err)
		return fmt.Errorf("updating stock %d: %w", stock.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating stock %d: %w", stock.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("stock not found: %d", stock.ID)
	}
	return nil
}

func scanStocks(rows *sql.Rows) ([]domain.Stock, error) {
	stocks := []domain.Stock{}
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.ID, &s.TickerSymbol, &s.CurrentPrice); err != nil {
			return nil, fmt.Errorf("scanning stock row: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stocks, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("Failed to close rows", "error", err)
	}
}
