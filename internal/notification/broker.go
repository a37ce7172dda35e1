package notification

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// Broker distributes trade events to every connected subscriber. It is an
// in-process pub/sub built on Go channels: publishers never block, slow
// subscribers drop events instead of backpressuring the trade path.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]bool
	channelSize int
	closed      bool

	published int64
	delivered int64
	dropped   int64
}

// Subscription represents one connected client.
type Subscription struct {
	C chan TradeEvent
}

// TradeEvent is the payload broadcast after every successful trade.
type TradeEvent struct {
	TickerSymbol string         `json:"tickerSymbol"`
	Price        domain.Decimal `json:"price"`
	Shares       domain.Decimal `json:"shares"`
	BrokerID     int64          `json:"brokerId"`
	Timestamp    time.Time      `json:"timestamp"`
}

const defaultChannelSize = 100

// NewBroker creates a broker whose subscription channels buffer up to
// channelSize events.
func NewBroker(channelSize int) *Broker {
	if channelSize <= 0 {
		channelSize = defaultChannelSize
	}
	return &Broker{
		subscribers: make(map[*Subscription]bool),
		channelSize: channelSize,
	}
}

// Subscribe registers a new client. The returned subscription receives every
// event published until Unsubscribe or Close.
func (b *Broker) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		C: make(chan TradeEvent, b.channelSize),
	}
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subscribers[sub] = true

	slog.Debug("Trade broker: new subscription", "total_subs", len(b.subscribers))
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.subscribers[sub] {
		return
	}
	delete(b.subscribers, sub)
	close(sub.C)

	slog.Debug("Trade broker: unsubscribed", "total_subs", len(b.subscribers))
}

// Publish fans the event out to all current subscribers without blocking.
func (b *Broker) Publish(event TradeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.published++
	for sub := range b.subscribers {
		select {
		case sub.C <- event:
			b.delivered++
		default:
			// Channel full - drop the event for this slow subscriber.
			b.dropped++
		}
	}
}

// Stats holds broker delivery counters.
type Stats struct {
	ActiveSubscribers int
	TotalPublished    int64
	TotalDelivered    int64
	TotalDropped      int64
}

func (b *Broker) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Stats{
		ActiveSubscribers: len(b.subscribers),
		TotalPublished:    b.published,
		TotalDelivered:    b.delivered,
		TotalDropped:      b.dropped,
	}
}

// Close closes every subscription channel and rejects further publishes.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for sub := range b.subscribers {
		close(sub.C)
	}
	b.subscribers = make(map[*Subscription]bool)

	slog.Info("Trade broker closed")
}
