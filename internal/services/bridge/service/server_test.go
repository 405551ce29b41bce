package service

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/framefold/resolvebridge/internal/bridge/adapter"
	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host/simhost"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func newTestRouter(t *testing.T) *dispatch.Router {
	t.Helper()
	sess, err := session.New(context.Background(), simhost.New())
	if err != nil {
		t.Fatalf("bind session: %v", err)
	}
	router, err := dispatch.NewRouter(dispatch.Config{Session: sess}, adapter.Operations(adapter.Deps{})...)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestNew(t *testing.T) {
	t.Run("registers all modules", func(t *testing.T) {
		server, err := New(newTestRouter(t))
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		if server == nil || server.mcpServer == nil {
			t.Fatal("expected configured server")
		}
	})

	t.Run("nil router rejected", func(t *testing.T) {
		if _, err := New(nil); err == nil {
			t.Fatal("expected error for nil router")
		}
	})
}

func TestRunUnsupportedTransport(t *testing.T) {
	err := Run(context.Background(), newTestRouter(t), Config{Transport: TransportKind("carrier-pigeon")})
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}

func TestServeWithTransportNilServer(t *testing.T) {
	var s *Server
	if err := s.serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for nil server")
	}
}

func TestResourceSubscribeHandler(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), nil); err == nil {
			t.Fatal("expected error for nil request")
		}
	})

	t.Run("nil params", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{}); err == nil {
			t.Fatal("expected error for nil params")
		}
	})

	t.Run("empty URI", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{
			Params: &mcp.SubscribeParams{URI: ""},
		}); err == nil {
			t.Fatal("expected error for empty URI")
		}
	})

	t.Run("valid URI", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{
			Params: &mcp.SubscribeParams{URI: "bridge://status"},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestResourceUnsubscribeHandler(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		if err := resourceUnsubscribeHandler(context.Background(), nil); err == nil {
			t.Fatal("expected error for nil request")
		}
	})

	t.Run("valid URI", func(t *testing.T) {
		if err := resourceUnsubscribeHandler(context.Background(), &mcp.UnsubscribeRequest{
			Params: &mcp.UnsubscribeParams{URI: "bridge://status"},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRegistrationModules(t *testing.T) {
	modules := registrationModules()
	if len(modules) == 0 {
		t.Fatal("expected registration modules")
	}

	seen := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		if m.name == "" {
			t.Error("module with empty name")
		}
		if m.register == nil {
			t.Errorf("module %s has nil register", m.name)
		}
		if _, dup := seen[m.name]; dup {
			t.Errorf("duplicate module name %s", m.name)
		}
		seen[m.name] = struct{}{}
	}
}
