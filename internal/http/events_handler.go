package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dhruvi0420/bakery-website/internal/bus"
	"go.uber.org/zap"
)

type EventsHandler struct {
	bus *bus.Bus
	log *zap.Logger
}

func NewEventsHandler(b *bus.Bus, log *zap.Logger) *EventsHandler {
	return &EventsHandler{bus: b, log: log}
}

// Stream pushes bus events to an open view over server-sent events, so every
// surface re-renders after any mutation without polling
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Publish runs in the mutating handler's goroutine; a slow or stalled
	// view must not block it, so late events are dropped once the buffer
	// is full and the view re-reads on its next event.
	events := make(chan bus.Event, 16)
	unsubscribe := h.bus.Subscribe(func(ev bus.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				h.log.Error("failed to marshal event", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, payload)
			flusher.Flush()
		}
	}
}
