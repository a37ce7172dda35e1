package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// Store is an in-memory implementation of all three repositories, sharing
// one lock so cross-entity invariants (the FK cascade) stay consistent. It
// exists for tests and for running the API without a database.
type Store struct {
	mu           sync.RWMutex
	stocks       map[int64]*domain.Stock
	brokers      map[int64]*domain.Broker
	transactions map[int64]*domain.Transaction

	nextStockID       int64
	nextBrokerID      int64
	nextTransactionID int64
}

func NewStore() *Store {
	return &Store{
		stocks:       make(map[int64]*domain.Stock),
		brokers:      make(map[int64]*domain.Broker),
		transactions: make(map[int64]*domain.Transaction),
	}
}

// AddStock registers a listing. Stocks have no repository-level create
// operation; this is the in-memory counterpart of seed provisioning.
func (s *Store) AddStock(stock domain.Stock) domain.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextStockID++
	stock.ID = s.nextStockID
	s.stocks[stock.ID] = &stock
	return stock
}

// AddTransactionAt inserts a transaction keeping its Timestamp as given,
// unlike the repository Add which stamps the current time. Used for seeding
// back-dated history.
func (s *Store) AddTransactionAt(transaction domain.Transaction) domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTransactionID++
	transaction.ID = s.nextTransactionID
	clone := transaction
	s.transactions[transaction.ID] = &clone
	return transaction
}

// StockRepository exposes the store as a domain.StockRepository.
type StockRepository struct {
	store *Store
}

func (s *Store) Stocks() *StockRepository { return &StockRepository{store: s} }

func (r *StockRepository) GetAll(ctx context.Context) ([]domain.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stocks := make([]domain.Stock, 0, len(r.store.stocks))
	for _, stock := range r.store.stocks {
		stocks = append(stocks, *stock)
	}
	return stocks, nil
}

func (r *StockRepository) GetByTickerSymbol(ctx context.Context, tickerSymbol string) (*domain.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, stock := range r.store.stocks {
		if stock.TickerSymbol == tickerSymbol {
			clone := *stock
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *StockRepository) GetByID(ctx context.Context, stockID int64) (*domain.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stock, exists := r.store.stocks[stockID]
	if !exists {
		return nil, nil
	}
	clone := *stock
	return &clone, nil
}

func (r *StockRepository) GetByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]domain.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]bool, len(tickerSymbols))
	for _, ticker := range tickerSymbols {
		wanted[ticker] = true
	}

	stocks := []domain.Stock{}
	for _, stock := range r.store.stocks {
		if wanted[stock.TickerSymbol] {
			stocks = append(stocks, *stock)
		}
	}
	return stocks, nil
}

func (r *StockRepository) Update(ctx context.Context, stock *domain.Stock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.stocks[stock.ID]; !exists {
		return fmt.Errorf("stock not found: %d", stock.ID)
	}
	clone := *stock
	r.store.stocks[stock.ID] = &clone
	return nil
}

// TransactionRepository exposes the store as a domain.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{store: s} }

func (r *TransactionRepository) Add(ctx context.Context, transaction *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.stocks[transaction.StockID]; !exists {
		return fmt.Errorf("stock not found: %d", transaction.StockID)
	}
	if _, exists := r.store.brokers[transaction.BrokerID]; !exists {
		return fmt.Errorf("broker not found: %d", transaction.BrokerID)
	}

	r.store.nextTransactionID++
	transaction.ID = r.store.nextTransactionID
	transaction.Timestamp = time.Now().UTC()

	clone := *transaction
	r.store.transactions[transaction.ID] = &clone
	return nil
}

func (r *TransactionRepository) GetAllByBrokerID(ctx context.Context, brokerID int64) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	transactions := []domain.Transaction{}
	for _, t := range r.store.transactions {
		if t.BrokerID == brokerID {
			transactions = append(transactions, *t)
		}
	}
	return transactions, nil
}

func (r *TransactionRepository) GetAllByStockID(ctx context.Context, stockID int64) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	transactions := []domain.Transaction{}
	for _, t := range r.store.transactions {
		if t.StockID == stockID {
			transactions = append(transactions, *t)
		}
	}
	return transactions, nil
}

func (r *TransactionRepository) GetRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	transactions := make([]domain.Transaction, 0, len(r.store.transactions))
	for _, t := range r.store.transactions {
		transactions = append(transactions, *t)
	}
	r.store.mu.RUnlock()

	sortNewestFirst(transactions)
	if limit >= 0 && limit < len(transactions) {
		transactions = transactions[:limit]
	}
	return transactions, nil
}

func (r *TransactionRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	transactions := []domain.Transaction{}
	for _, t := range r.store.transactions {
		if !t.Timestamp.Before(from) && !t.Timestamp.After(to) {
			transactions = append(transactions, *t)
		}
	}
	return transactions, nil
}

// BrokerRepository exposes the store as a domain.BrokerRepository.
type BrokerRepository struct {
	store *Store
}

func (s *Store) Brokers() *BrokerRepository { return &BrokerRepository{store: s} }

func (r *BrokerRepository) GetAll(ctx context.Context) ([]domain.Broker, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	brokers := make([]domain.Broker, 0, len(r.store.brokers))
	for _, broker := range r.store.brokers {
		brokers = append(brokers, *broker)
	}
	return brokers, nil
}

func (r *BrokerRepository) GetByID(ctx context.Context, brokerID int64) (*domain.Broker, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	broker, exists := r.store.brokers[brokerID]
	if !exists {
		return nil, nil
	}
	clone := *broker
	return &clone, nil
}

func (r *BrokerRepository) Add(ctx context.Context, broker *domain.Broker) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextBrokerID++
	broker.ID = r.store.nextBrokerID

	clone := *broker
	r.store.brokers[broker.ID] = &clone
	return nil
}

func (r *BrokerRepository) Update(ctx context.Context, broker *domain.Broker) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.brokers[broker.ID]; !exists {
		return fmt.Errorf("broker not found: %d", broker.ID)
	}
	clone := *broker
	r.store.brokers[broker.ID] = &clone
	return nil
}

// Delete removes the broker and, mirroring the FK cascade, its
// transactions.
func (r *BrokerRepository) Delete(ctx context.Context, brokerID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.brokers[brokerID]; !exists {
		return false, nil
	}
	delete(r.store.brokers, brokerID)

	for id, t := range r.store.transactions {
		if t.BrokerID == brokerID {
			delete(r.store.transactions, id)
		}
	}
	return true, nil
}

func sortNewestFirst(transactions []domain.Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Timestamp.Equal(transactions[j].Timestamp) {
			return transactions[i].Timestamp.After(transactions[j].Timestamp)
		}
		return transactions[i].ID > transactions[j].ID
	})
}
