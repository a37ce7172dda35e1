package sqldb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// Seed loads development fixtures: three brokers, three listed stocks and a
// few historical transactions. Each table is populated only when empty, so
// repeated startups are harmless.
func Seed(ctx context.Context, db *DB) error {
	brokersEmpty, err := tableEmpty(ctx, db, "brokers")
	if err != nil {
		return err
	}
	brokers := []domain.Broker{
		{Name: "Broker A"},
		{Name: "Broker B"},
		{Name: "Broker C"},
	}
	if brokersEmpty {
		for i := range brokers {
			if err := db.Dialect.InsertBroker(ctx, db.DB, &brokers[i]); err != nil {
				return fmt.Errorf("seeding broker %s: %w", brokers[i].Name, err)
			}
		}
	}

	stocksEmpty, err := tableEmpty(ctx, db, "stocks")
	if err != nil {
		return err
	}
	stocks := []domain.Stock{
		{TickerSymbol: "AAPL", CurrentPrice: domain.MustDecimal("150.00")},
		{TickerSymbol: "MSFT", CurrentPrice: domain.MustDecimal("250.00")},
		{TickerSymbol: "GOOGL", CurrentPrice: domain.MustDecimal("350.00")},
	}
	if stocksEmpty {
		for i := range stocks {
			if err := db.Dialect.InsertStock(ctx, db.DB, &stocks[i]); err != nil {
				return fmt.Errorf("seeding stock %s: %w", stocks[i].TickerSymbol, err)
			}
		}
	}

	transactionsEmpty, err := tableEmpty(ctx, db, "transactions")
	if err != nil {
		return err
	}
	if transactionsEmpty && brokersEmpty && stocksEmpty {
		now := time.Now().UTC()
		seedTransactions := []domain.Transaction{
			{StockID: stocks[0].ID, BrokerID: brokers[0].ID, Price: domain.MustDecimal("150.00"), Shares: domain.NewDecimalFromInt(10), Timestamp: now},
			{StockID: stocks[1].ID, BrokerID: brokers[1].ID, Price: domain.MustDecimal("250.00"), Shares: domain.NewDecimalFromInt(5), Timestamp: now.Add(-10 * time.Minute)},
			{StockID: stocks[2].ID, BrokerID: brokers[2].ID, Price: domain.MustDecimal("350.00"), Shares: domain.NewDecimalFromInt(2), Timestamp: now.Add(-20 * time.Minute)},
		}
		for i := range seedTransactions {
			if err := db.Dialect.InsertTransaction(ctx, db.DB, &seedTransactions[i]); err != nil {
				return fmt.Errorf("seeding transaction: %w", err)
			}
		}
	}

	slog.Info("Database seeding complete")
	return nil
}

func tableEmpty(ctx context.Context, db *DB, table string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return false, fmt.Errorf("counting %s: %w", table, err)
	}
	return count == 0, nil
}
