package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
	"gorm.io/gorm"
)

// GORM-backed implementations of the domain repositories. The domain structs
// carry the gorm tags, so the schema is derived directly from them.

// AutoMigrate applies schema changes for all exchange entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Stock{}, &domain.Broker{}, &domain.Transaction{})
}

// StockRepository implements domain.StockRepository using GORM.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) GetAll(ctx context.Context) ([]domain.Stock, error) {
	var stocks []domain.Stock
	if err := r.db.WithContext(ctx).Order("ticker_symbol").Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	return stocks, nil
}

func (r *StockRepository) GetByTickerSymbol(ctx context.Context, tickerSymbol string) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.WithContext(ctx).First(&stock, "ticker_symbol = ?", tickerSymbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.Error("Failed to find stock", "ticker", tickerSymbol, "error", err)
		return nil, fmt.Errorf("failed to load stock %s: %w", tickerSymbol, err)
	}
	return &stock, nil
}

func (r *StockRepository) GetByID(ctx context.Context, stockID int64) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.WithContext(ctx).First(&stock, "id = ?", stockID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %d: %w", stockID, err)
	}
	return &stock, nil
}

func (r *StockRepository) GetByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]domain.Stock, error) {
	if len(tickerSymbols) == 0 {
		return []domain.Stock{}, nil
	}

	var stocks []domain.Stock
	if err := r.db.WithContext(ctx).Where("ticker_symbol IN ?", tickerSymbols).Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	return stocks, nil
}

func (r *StockRepository) Update(ctx context.Context, stock *domain.Stock) error {
	res := r.db.WithContext(ctx).Model(&domain.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]interface{}{
			"ticker_symbol": stock.TickerSymbol,
			"current_price": stock.CurrentPrice,
		})
	if res.Error != nil {
		slog.Error("Failed to update stock", "stock_id", stock.ID, "error", res.Error)
		return fmt.Errorf("failed to update stock %d: %w", stock.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock not found: %d", stock.ID)
	}
	return nil
}

// TransactionRepository implements domain.TransactionRepository using GORM.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Add(ctx context.Context, transaction *domain.Transaction) error {
	transaction.Timestamp = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		slog.Error("Failed to create transaction", "stock_id", transaction.StockID, "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetAllByBrokerID(ctx context.Context, brokerID int64) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	if err := r.db.WithContext(ctx).Where("broker_id = ?", brokerID).Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions for broker %d: %w", brokerID, err)
	}
	return transactions, nil
}

func (r *TransactionRepository) GetAllByStockID(ctx context.Context, stockID int64) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	if err := r.db.WithContext(ctx).Where("stock_id = ?", stockID).Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions for stock %d: %w", stockID, err)
	}
	return transactions, nil
}

func (r *TransactionRepository) GetRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions by date range: %w", err)
	}
	return transactions, nil
}

// BrokerRepository implements domain.BrokerRepository using GORM.
type BrokerRepository struct {
	db *gorm.DB
}

func NewBrokerRepository(db *gorm.DB) *BrokerRepository {
	return &BrokerRepository{db: db}
}

func (r *BrokerRepository) GetAll(ctx context.Context) ([]domain.Broker, error) {
	var brokers []domain.Broker
	if err := r.db.WithContext(ctx).Order("id").Find(&brokers).Error; err != nil {
		return nil, fmt.Errorf("failed to load brokers: %w", err)
	}
	return brokers, nil
}

func (r *BrokerRepository) GetByID(ctx context.Context, brokerID int64) (*domain.Broker, error) {
	var broker domain.Broker
	err := r.db.WithContext(ctx).First(&broker, "id = ?", brokerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load broker %d: %w", brokerID, err)
	}
	return &broker, nil
}

func (r *BrokerRepository) Add(ctx context.Context, broker *domain.Broker) error {
	if err := r.db.WithContext(ctx).Create(broker).Error; err != nil {
		slog.Error("Failed to create broker", "name", broker.Name, "error", err)
		return fmt.Errorf("failed to create broker: %w", err)
	}
	return nil
}

func (r *BrokerRepository) Update(ctx context.Context, broker *domain.Broker) error {
	res := r.db.WithContext(ctx).Model(&domain.Broker{}).
		Where("id = ?", broker.ID).
		Update("name", broker.Name)
	if res.Error != nil {
		return fmt.Errorf("failed to update broker %d: %w", broker.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("broker not found: %d", broker.ID)
	}
	return nil
}

// Delete removes the broker and its transactions in one transaction,
// mirroring the FK cascade for backends where AutoMigrate did not create it.
func (r *BrokerRepository) Delete(ctx context.Context, brokerID int64) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("broker_id = ?", brokerID).Delete(&domain.Transaction{}).Error; err != nil {
			return fmt.Errorf("failed to delete transactions: %w", err)
		}

		res := tx.Delete(&domain.Broker{}, "id = ?", brokerID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete broker: %w", res.Error)
		}
		removed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
