package notification

import (
	"testing"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

func testEvent(ticker string) TradeEvent {
	return TradeEvent{
		TickerSymbol: ticker,
		Price:        domain.MustDecimal("160.00"),
		Shares:       domain.NewDecimalFromInt(10),
		BrokerID:     1,
		Timestamp:    time.Now().UTC(),
	}
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker(4)
	defer broker.Close()

	first := broker.Subscribe()
	second := broker.Subscribe()

	broker.Publish(testEvent("AAPL"))

	for i, sub := range []*Subscription{first, second} {
		select {
		case event := <-sub.C:
			if event.TickerSymbol != "AAPL" {
				t.Errorf("subscriber %d: unexpected event %+v", i, event)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: no event received", i)
		}
	}

	stats := broker.GetStats()
	if stats.ActiveSubscribers != 2 {
		t.Errorf("expected 2 subscribers, got %d", stats.ActiveSubscribers)
	}
	if stats.TotalPublished != 1 || stats.TotalDelivered != 2 {
		t.Errorf("unexpected counters: %+v", stats)
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := NewBroker(4)
	defer broker.Close()

	sub := broker.Subscribe()
	broker.Unsubscribe(sub)

	// Channel is closed after unsubscribe
	if _, open := <-sub.C; open {
		t.Error("expected closed channel after unsubscribe")
	}

	broker.Publish(testEvent("AAPL"))
	if stats := broker.GetStats(); stats.TotalDelivered != 0 {
		t.Errorf("expected no deliveries, got %d", stats.TotalDelivered)
	}

	// Unsubscribing twice is harmless
	broker.Unsubscribe(sub)
}

func TestBroker_SlowSubscriberDropsEvents(t *testing.T) {
	broker := NewBroker(1)
	defer broker.Close()

	sub := broker.Subscribe()

	// The buffer holds one event; the second is dropped, not blocked on
	broker.Publish(testEvent("AAPL"))
	broker.Publish(testEvent("MSFT"))

	stats := broker.GetStats()
	if stats.TotalDelivered != 1 {
		t.Errorf("expected 1 delivered, got %d", stats.TotalDelivered)
	}
	if stats.TotalDropped != 1 {
		t.Errorf("expected 1 dropped, got %d", stats.TotalDropped)
	}

	event := <-sub.C
	if event.TickerSymbol != "AAPL" {
		t.Errorf("expected the first event to survive, got %s", event.TickerSymbol)
	}
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker(4)
	sub := broker.Subscribe()

	broker.Close()

	if _, open := <-sub.C; open {
		t.Error("expected closed subscription channel")
	}

	// Publishing after close is a no-op
	broker.Publish(testEvent("AAPL"))
	if stats := broker.GetStats(); stats.TotalPublished != 0 {
		t.Errorf("expected no publishes after close, got %d", stats.TotalPublished)
	}

	// Closing twice is harmless
	broker.Close()
}

func TestBroker_DefaultChannelSize(t *testing.T) {
	broker := NewBroker(0)
	defer broker.Close()

	sub := broker.Subscribe()
	if cap(sub.C) == 0 {
		t.Error("expected a buffered channel for the default size")
	}
}
