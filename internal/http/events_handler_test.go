package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dhruvi0420/bakery-website/internal/bus"
)

func TestEventsHandler_StreamDeliversPublishedEvents(t *testing.T) {
	eventBus := bus.New()
	handler := NewEventsHandler(eventBus, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(handler.Stream))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The subscriber registers shortly after the headers arrive; keep
	// publishing until the stream carries the event through
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				eventBus.Publish(bus.Event{Topic: bus.TopicCartUpdated})
			}
		}
	}()

	reader := bufio.NewReader(resp.Body)
	var eventLine, dataLine string
	deadline := time.After(2 * time.Second)
	for eventLine == "" || dataLine == "" {
		select {
		case <-deadline:
			t.Fatal("no event received from stream")
		default:
		}
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			eventLine = strings.TrimSpace(line)
		}
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimSpace(line)
		}
	}

	assert.Equal(t, "event: cart.updated", eventLine)
	assert.Contains(t, dataLine, `"topic":"cart.updated"`)
}

func TestEventsHandler_StreamStopsOnDisconnect(t *testing.T) {
	eventBus := bus.New()
	handler := NewEventsHandler(eventBus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(rec, req)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after context cancel")
	}

	// The subscriber is gone; publishing must not panic or block
	eventBus.Publish(bus.Event{Topic: bus.TopicToast, Message: "late"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
