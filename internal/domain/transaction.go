package domain

import "time"

// Transaction records a single executed trade. Rows are immutable once
// written; the timestamp is assigned by the store at persistence time, in
// UTC, regardless of what the caller supplies.
type Transaction struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StockID   int64     `json:"stock_id" gorm:"not null;index"`
	BrokerID  int64     `json:"broker_id" gorm:"not null;index"`
	Price     Decimal   `json:"price" gorm:"type:numeric(18,2);not null"`
	Shares    Decimal   `json:"shares" gorm:"type:numeric(18,4);not null"`
	Timestamp time.Time `json:"timestamp" gorm:"column:created_at;index"`
}

func (t Transaction) IsValid() bool {
	return t.StockID > 0 &&
		t.BrokerID > 0 &&
		t.Price.IsPositive() &&
		t.Shares.IsPositive()
}
