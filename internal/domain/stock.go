package domain

import "regexp"

// tickerPattern is the exchange-wide ticker format: 1 to 5 uppercase letters.
var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Stock represents a listed security. The ticker symbol is unique across the
// exchange; the current price reflects the last executed trade.
type Stock struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	TickerSymbol string  `json:"ticker_symbol" gorm:"uniqueIndex;not null"`
	CurrentPrice Decimal `json:"current_price" gorm:"type:numeric(18,2);not null"`
}

// ValidTickerSymbol reports whether s is a well-formed ticker symbol.
func ValidTickerSymbol(s string) bool {
	return tickerPattern.MatchString(s)
}

func (s Stock) IsValid() bool {
	return ValidTickerSymbol(s.TickerSymbol) && s.CurrentPrice.IsPositive()
}
