package domain

// Broker represents a trading firm registered with the exchange.
type Broker struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null"`
}

func (b Broker) IsValid() bool {
	return b.Name != ""
}
