package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// handleSSE handles GET /mcp as a Server-Sent Events stream. Only
// notifications flow here; request/response pairs stay on the POST path
// so the stream never blocks a pending reply.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !t.authorizeRequest(w, r) {
		return
	}

	session, exists := t.lookupSession(r)
	if !exists || session == nil {
		http.Error(w, "Invalid or missing session ID", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	t.touchSession(session.id)

	// The heartbeat keeps long-lived streams from looking idle to the
	// cleanup goroutine.
	ticker := time.NewTicker(sseHeartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-session.conn.closed:
			return
		case <-ticker.C:
			t.touchSession(session.id)
		case msg := <-session.conn.notifyChan:
			t.touchSession(session.id)

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("marshal SSE message: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}
