package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kbukum/storekit/logger"
)

// DefaultKeepAlive is the keep-alive comment interval used when
// StreamOptions leaves it unset.
const DefaultKeepAlive = 30 * time.Second

// ConnectedEvent is the payload of the first event on a stream.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	Key      string            `json:"key,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// StreamOptions tunes ServeSSE.
type StreamOptions struct {
	KeepAlive time.Duration
}

// ServeSSE registers client with hub and streams its events to w until the
// request context ends or the client is closed. Events queued on the client
// before the call are written right after the connected event.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, client *Client, opts StreamOptions) {
	log := logger.WithComponent("sse").WithFields(logger.Fields(logger.FieldClientID, client.ID()))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		client.Close()
		return
	}

	// Streams outlive the server's write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("write deadline not cleared", logger.Fields(logger.FieldError, err.Error()))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	hub.Register(client)
	defer hub.Unregister(client)

	connected, _ := json.Marshal(ConnectedEvent{
		ClientID: client.ID(),
		Key:      client.Key(),
		Metadata: client.Metadata(),
	})
	_, _ = Event{Type: EventTypeConnected, Data: connected}.WriteTo(w)
	flusher.Flush()
	log.Debug("client connected", logger.Fields("remote_addr", r.RemoteAddr))

	interval := opts.KeepAlive
	if interval <= 0 {
		interval = DefaultKeepAlive
	}
	keepAlive := time.NewTicker(interval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected", logger.Fields("reason", ctx.Err().Error()))
			return

		case ev, ok := <-client.Events():
			if !ok {
				log.Debug("client closed")
				return
			}
			if _, err := ev.WriteTo(w); err != nil {
				log.Debug("write failed", logger.Fields(logger.FieldError, err.Error()))
				return
			}
			flusher.Flush()

		case t := <-keepAlive.C:
			if _, err := w.Write([]byte(": keepalive " + t.UTC().Format(time.RFC3339) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
