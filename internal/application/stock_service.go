package application

import (
	"context"
	"fmt"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// StockService exposes read and price-update operations over listed stocks,
// translating between entities and wire DTOs.
type StockService struct {
	stocks domain.StockRepository
}

func NewStockService(stocks domain.StockRepository) *StockService {
	return &StockService{stocks: stocks}
}

func (s *StockService) GetAllStocks(ctx context.Context) ([]StockDTO, error) {
	stocks, err := s.stocks.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	return StocksToDTOs(stocks), nil
}

// GetStockByTickerSymbol returns nil when no stock is listed under the
// symbol; a missing stock is never an error.
func (s *StockService) GetStockByTickerSymbol(ctx context.Context, tickerSymbol string) (*StockDTO, error) {
	stock, err := s.stocks.GetByTickerSymbol(ctx, tickerSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %s: %w", tickerSymbol, err)
	}
	return StockToDTO(stock), nil
}

// GetStocksByTickerSymbols returns the subset of symbols that are listed;
// unknown symbols are silently omitted.
func (s *StockService) GetStocksByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]StockDTO, error) {
	stocks, err := s.stocks.GetByTickerSymbols(ctx, tickerSymbols)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	return StocksToDTOs(stocks), nil
}

// UpdateStockPrice sets the stock's current price and persists it, returning
// the updated DTO, or nil when the symbol is not listed. The price itself is
// not validated here; the DTO layer rejects non-positive prices before they
// reach the service.
func (s *StockService) UpdateStockPrice(ctx context.Context, tickerSymbol string, newPrice domain.Decimal) (*StockDTO, error) {
	stock, err := s.stocks.GetByTickerSymbol(ctx, tickerSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %s: %w", tickerSymbol, err)
	}
	if stock == nil {
		return nil, nil
	}

	stock.CurrentPrice = newPrice
	if err := s.stocks.Update(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to update stock %s: %w", tickerSymbol, err)
	}
	return StockToDTO(stock), nil
}
