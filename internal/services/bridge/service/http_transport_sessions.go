package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Connect implements mcp.Transport. Each call creates a fresh session so
// one client's request stream and notification stream share state without
// leaking into another client's.
func (t *HTTPTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	sessionID := t.generateSessionID()

	conn := &httpConnection{
		sessionID:   sessionID,
		reqChan:     make(chan jsonrpc.Message, channelBufferSize),
		respChan:    make(chan jsonrpc.Message, channelBufferSize),
		notifyChan:  make(chan jsonrpc.Message, channelBufferSize),
		closed:      make(chan struct{}),
		ready:       make(chan struct{}, 1),
		pendingReqs: make(map[jsonrpc.ID]chan jsonrpc.Message),
	}

	now := time.Now()
	session := &httpSession{
		id:        sessionID,
		conn:      conn,
		createdAt: now,
		lastUsed:  now,
	}

	t.sessionsMu.Lock()
	t.sessions[sessionID] = session
	t.sessionsMu.Unlock()

	return conn, nil
}

func (t *HTTPTransport) generateSessionID() string {
	randomRead := rand.Read
	if t != nil && t.randomReader != nil {
		randomRead = t.randomReader
	}
	return generateSessionID(randomRead)
}

// cleanupSessions reaps sessions that have been idle past the expiration
// window so abandoned clients do not accumulate goroutines and channels.
func (t *HTTPTransport) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-sessionExpiration)

			t.sessionsMu.Lock()
			for id, session := range t.sessions {
				if session.lastUsed.Before(cutoff) {
					session.conn.Close()
					delete(t.sessions, id)
					t.serverOnceMu.Lock()
					delete(t.serverOnce, id)
					t.serverOnceMu.Unlock()
				}
			}
			t.sessionsMu.Unlock()
		}
	}
}

// ensureServerRunning starts the MCP server loop for a session exactly
// once, then waits briefly for the connection to begin reading. If the
// wait times out the loop still catches up on the first queued message.
func (t *HTTPTransport) ensureServerRunning(session *httpSession) {
	if t.server == nil {
		return
	}

	t.serverOnceMu.Lock()
	once, exists := t.serverOnce[session.id]
	if !exists {
		once = &sync.Once{}
		t.serverOnce[session.id] = once
	}
	t.serverOnceMu.Unlock()

	once.Do(func() {
		transport := &sessionTransport{conn: session.conn}
		go func() {
			serverSession, err := t.server.Connect(t.serverCtx, transport, nil)
			if err != nil {
				log.Printf("connect MCP server session %s: %v", session.id, err)
				return
			}
			_ = serverSession.Wait()
		}()
	})

	select {
	case <-session.conn.ready:
	case <-time.After(sessionReadyTimeout):
	case <-t.serverCtx.Done():
	}
}

// sessionTransport hands a pre-existing connection to Server.Connect.
type sessionTransport struct {
	conn mcp.Connection
}

func (st *sessionTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return st.conn, nil
}

var sessionCounter atomic.Uint64

// generateSessionID combines crypto/rand bytes with a process-wide counter
// so IDs stay unique even on the timestamp fallback path.
func generateSessionID(randomRead func([]byte) (int, error)) string {
	b := make([]byte, 8)
	if randomRead == nil {
		randomRead = rand.Read
	}
	counter := sessionCounter.Add(1)
	if _, err := randomRead(b); err != nil {
		return fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), counter)
	}
	return fmt.Sprintf("session_%s_%d", hex.EncodeToString(b), counter)
}
