package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stock-exchange/internal/notification"
)

const keepAliveInterval = 30 * time.Second

// StreamHandler pushes trade notifications to clients over Server-Sent
// Events. Each connected client gets its own broker subscription.
type StreamHandler struct {
	broker *notification.Broker
}

func NewStreamHandler(broker *notification.Broker) *StreamHandler {
	return &StreamHandler{broker: broker}
}

// StreamTrades handles GET /api/trades/stream.
func (h *StreamHandler) StreamTrades(c *gin.Context) {
	w := c.Writer

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Streaming is not supported."})
		return
	}

	sub := h.broker.Subscribe()
	defer h.broker.Unsubscribe(sub)

	slog.InfoContext(c.Request.Context(), "Trade stream client connected", "remote", c.Request.RemoteAddr)

	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Keep-alive comment every 30s to prevent proxy timeouts
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Trade stream client disconnected", "remote", c.Request.RemoteAddr)
			return

		case event, open := <-sub.C:
			if !open {
				return
			}
			if err := writeEvent(w, "ReceiveTradeInfo", event); err != nil {
				slog.ErrorContext(ctx, "Failed to write trade event", "error", err)
				return
			}
			flusher.Flush()

		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
