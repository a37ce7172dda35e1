package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
	"gorm.io/gorm"
)

// Seed loads development fixtures: three brokers, three listed stocks and a
// few historical transactions. Each table is populated only when empty, so
// repeated startups are harmless.
func Seed(db *gorm.DB) error {
	brokersEmpty, err := tableEmpty(db, &domain.Broker{})
	if err != nil {
		return err
	}
	brokers := []domain.Broker{
		{Name: "Broker A"},
		{Name: "Broker B"},
		{Name: "Broker C"},
	}
	if brokersEmpty {
		if err := db.Create(&brokers).Error; err != nil {
			return fmt.Errorf("seeding brokers: %w", err)
		}
	}

	stocksEmpty, err := tableEmpty(db, &domain.Stock{})
	if err != nil {
		return err
	}
	stocks := []domain.Stock{
		{TickerSymbol: "AAPL", CurrentPrice: domain.MustDecimal("150.00")},
		{TickerSymbol: "MSFT", CurrentPrice: domain.MustDecimal("250.00")},
		{TickerSymbol: "GOOGL", CurrentPrice: domain.MustDecimal("350.00")},
	}
	if stocksEmpty {
		if err := db.Create(&stocks).Error; err != nil {
			return fmt.Errorf("seeding stocks: %w", err)
		}
	}

	transactionsEmpty, err := tableEmpty(db, &domain.Transaction{})
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
		if err := db.Create(&seedTransactions).Error; err != nil {
			return fmt.Errorf("seeding transactions: %w", err)
		}
	}

	slog.Info("Database seeding complete")
	return nil
}

func tableEmpty(db *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return false, fmt.Errorf("counting rows: %w", err)
	}
	return count == 0, nil
}
