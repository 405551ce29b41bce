package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/framefold/resolvebridge/internal/platform/config"
	"github.com/framefold/resolvebridge/internal/platform/metrics"
)

var listenTCP = net.Listen

// httpEnv holds env-parsed configuration for the MCP HTTP transport.
type httpEnv struct {
	AllowedHosts []string `env:"RESOLVE_BRIDGE_MCP_ALLOWED_HOSTS" envSeparator:","`
}

const (
	// defaultHTTPAddr binds localhost-only; the bridge fronts a desktop
	// application and is not meant to be reachable off the machine.
	defaultHTTPAddr = "localhost:8765"

	// channelBufferSize is the buffer for request, response, and
	// notification channels so a burst of messages does not block.
	channelBufferSize = 10

	// requestTimeout bounds how long a POST waits for its JSON-RPC
	// response. Host calls carry their own shorter timeout, so hitting
	// this means the MCP runtime itself is stuck.
	requestTimeout = 30 * time.Second

	// shutdownTimeout exceeds requestTimeout so in-flight requests can
	// finish during graceful shutdown.
	shutdownTimeout = 35 * time.Second

	// sessionCleanupInterval is how often idle sessions are reaped.
	sessionCleanupInterval = 5 * time.Minute

	// sessionExpiration is how long a session may sit idle before reaping.
	sessionExpiration = 1 * time.Hour

	// sseHeartbeatInterval keeps long-lived SSE sessions marked active.
	sseHeartbeatInterval = 30 * time.Second

	// sessionReadyTimeout bounds the wait for a session connection to
	// start reading before request handling continues anyway.
	sessionReadyTimeout = 100 * time.Millisecond
)

// HTTPTransport serves MCP over HTTP. JSON-RPC requests arrive as POSTs,
// notifications stream back over SSE, and each client holds one session so
// cleanup and delivery stay scoped to that client.
type HTTPTransport struct {
	addr         string
	apiToken     string
	allowedHosts map[string]struct{}
	metrics      *metrics.Metrics

	server       *mcp.Server
	sessions     map[string]*httpSession
	sessionsMu   sync.RWMutex
	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
	serverOnceMu sync.Mutex
	serverOnce   map[string]*sync.Once

	randomReader func([]byte) (int, error)
}

// httpSession tracks one client's connection and liveness.
type httpSession struct {
	id        string
	conn      *httpConnection
	createdAt time.Time
	lastUsed  time.Time
}

// NewHTTPTransport builds an HTTP transport around a configured MCP server.
// The default posture is localhost-only; additional hosts come from the
// environment.
func NewHTTPTransport(cfg Config, server *mcp.Server) *HTTPTransport {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = defaultHTTPAddr
	}
	var raw httpEnv
	_ = config.ParseEnv(&raw)
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		apiToken:     strings.TrimSpace(cfg.APIToken),
		allowedHosts: parseAllowedHosts(raw.AllowedHosts),
		metrics:      cfg.Metrics,
		server:       server,
		sessions:     make(map[string]*httpSession),
		serverCtx:    ctx,
		serverCancel: cancel,
		serverOnce:   make(map[string]*sync.Once),
		randomReader: rand.Read,
	}
}

// Start serves HTTP until the context is cancelled or the server fails.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)

	go t.cleanupSessions(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			t.handleSSE(w, r)
		case http.MethodPost:
			t.handleMessages(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/mcp/health", t.handleHealth)
	if t.metrics != nil {
		mux.Handle("/metrics", t.metrics.Handler())
	}

	t.httpServer = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	log.Printf("starting MCP HTTP server on %s", t.addr)

	errChan := make(chan error, 1)
	go func() {
		listener, err := listenTCP("tcp", t.addr)
		if err != nil {
			errChan <- err
			return
		}
		if err := t.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		if t.serverCancel != nil {
			t.serverCancel()
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// handleHealth handles GET /mcp/health.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("write health response: %v", err)
	}
}

// authorizeRequest enforces the bearer token when one is configured.
// Localhost deployments without a token skip the check entirely.
func (t *HTTPTransport) authorizeRequest(w http.ResponseWriter, r *http.Request) bool {
	if t.apiToken == "" {
		return true
	}
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(t.apiToken)) != 1 {
		http.Error(w, "invalid or missing access token", http.StatusUnauthorized)
		return false
	}
	return true
}

// validateLocalRequest checks Host and Origin headers against allowed
// hosts so remote web pages cannot reach the local bridge via DNS
// rebinding.
func (t *HTTPTransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("invalid request")
	}
	if !t.isAllowedHostHeader(r.Host) {
		return fmt.Errorf("invalid host")
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid origin")
	}
	if !t.isAllowedHostHeader(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

// isAllowedHostHeader reports whether a Host/Origin header resolves to an
// allowed host. Loopback always passes.
func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	resolved, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolved) {
		return true
	}
	if len(t.allowedHosts) == 0 {
		return false
	}
	_, ok = t.allowedHosts[strings.ToLower(resolved)]
	return ok
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost extracts the hostname portion from Host/Origin headers,
// including bracketed IPv6 forms.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}

	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}

	// A bare IPv6 address has multiple colons and no port to strip.
	if strings.Count(host, ":") > 1 {
		return host, true
	}

	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}

	return host, true
}
