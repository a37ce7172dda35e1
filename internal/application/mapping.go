package application

import "github.com/jmanzanog/stock-exchange/internal/domain"

// Explicit entity/DTO conversions. Each function is pure and total: every
// field is copied, nothing is computed or dropped.

// StockToDTO maps a stock entity to its wire representation.
func StockToDTO(s *domain.Stock) *StockDTO {
	if s == nil {
		return nil
	}
	return &StockDTO{
		TickerSymbol: s.TickerSymbol,
		CurrentPrice: s.CurrentPrice,
	}
}

// StocksToDTOs maps a slice of stocks, preserving order.
func StocksToDTOs(stocks []domain.Stock) []StockDTO {
	dtos := make([]StockDTO, 0, len(stocks))
	for i := range stocks {
		dtos = append(dtos, *StockToDTO(&stocks[i]))
	}
	return dtos
}

// StockFromDTO maps a wire stock back to an entity. The surrogate key is not
// part of the wire format and stays zero.
func StockFromDTO(dto *StockDTO) *domain.Stock {
	if dto == nil {
		return nil
	}
	return &domain.Stock{
		TickerSymbol: dto.TickerSymbol,
		CurrentPrice: dto.CurrentPrice,
	}
}

// TransactionToDTO maps a transaction entity to its wire representation.
// The ticker symbol lives on the stock row, so the caller resolves it.
func TransactionToDTO(t *domain.Transaction, tickerSymbol string) *TransactionDTO {
	if t == nil {
		return nil
	}
	return &TransactionDTO{
		TransactionID: t.ID,
		TickerSymbol:  tickerSymbol,
		Price:         t.Price,
		Shares:        t.Shares,
		Timestamp:     t.Timestamp,
		BrokerID:      t.BrokerID,
	}
}

// TradeToTransaction builds the transaction recorded for a trade. The
// timestamp is deliberately left zero: the repository assigns it at
// persistence time.
func TradeToTransaction(req *TradeRequest, stockID int64) *domain.Transaction {
	return &domain.Transaction{
		StockID:  stockID,
		BrokerID: req.BrokerID,
		Price:    req.Price,
		Shares:   req.Shares,
	}
}
