package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// Seed loads the same development fixtures the database seeders use. The
// store starts empty, so there is no emptiness check here.
func (s *Store) Seed(ctx context.Context) error {
	brokers := s.Brokers()
	seedBrokers := []domain.Broker{
		{Name: "Broker A"},
		{Name: "Broker B"},
		{Name: "Broker C"},
	}
	for i := range seedBrokers {
		if err := brokers.Add(ctx, &seedBrokers[i]); err != nil {
			return fmt.Errorf("seeding broker %s: %w", seedBrokers[i].Name, err)
		}
	}

	stocks := []domain.Stock{
		s.AddStock(domain.Stock{TickerSymbol: "AAPL", CurrentPrice: domain.MustDecimal("150.00")}),
		s.AddStock(domain.Stock{TickerSymbol: "MSFT", CurrentPrice: domain.MustDecimal("250.00")}),
		s.AddStock(domain.Stock{TickerSymbol: "GOOGL", CurrentPrice: domain.MustDecimal("350.00")}),
	}

	now := time.Now().UTC()
	seedTransactions := []domain.Transaction{
		{StockID: stocks[0].ID, BrokerID: seedBrokers[0].ID, Price: domain.MustDecimal("150.00"), Shares: domain.NewDecimalFromInt(10), Timestamp: now},
		{StockID: stocks[1].ID, BrokerID: seedBrokers[1].ID, Price: domain.MustDecimal("250.00"), Shares: domain.NewDecimalFromInt(5), Timestamp: now.Add(-10 * time.Minute)},
		{StockID: stocks[2].ID, BrokerID: seedBrokers[2].ID, Price: domain.MustDecimal("350.00"), Shares: domain.NewDecimalFromInt(2), Timestamp: now.Add(-20 * time.Minute)},
	}
	for _, t := range seedTransactions {
		s.AddTransactionAt(t)
	}

	return nil
}
