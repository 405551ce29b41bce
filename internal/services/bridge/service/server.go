package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/platform/branding"
	"github.com/framefold/resolvebridge/internal/platform/metrics"
	"github.com/framefold/resolvebridge/internal/services/bridge/domain"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over HTTP for browser or remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP listen address. Defaults to localhost:8765 for
	// the HTTP transport.
	HTTPAddr string
	// APIToken, when set, requires a matching bearer token on every HTTP
	// request. Stdio runs inside the caller's process and never checks it.
	APIToken string
	// Metrics, when set, exposes /metrics on the HTTP transport.
	Metrics *metrics.Metrics
}

// Server hosts the MCP server over a dispatch router.
type Server struct {
	mcpServer *mcp.Server
	router    *dispatch.Router
}

type registrationModule struct {
	name     string
	register func(*mcp.Server, domain.Dispatcher)
}

func registrationModules() []registrationModule {
	return []registrationModule{
		{name: "project-tools", register: registerProjectTools},
		{name: "timeline-tools", register: registerTimelineTools},
		{name: "media-tools", register: registerMediaTools},
		{name: "clip-tools", register: registerClipTools},
		{name: "fusion-tools", register: registerFusionTools},
		{name: "color-tools", register: registerColorTools},
		{name: "audio-tools", register: registerAudioTools},
		{name: "playback-tools", register: registerPlaybackTools},
		{name: "render-tools", register: registerRenderTools},
		{name: "navigation-tools", register: registerNavigationTools},
		{name: "script-tools", register: registerScriptTools},
		{name: "status-tools", register: registerStatusTools},
		{name: "bridge-resources", register: registerResources},
	}
}

// New builds an MCP server with every bridge tool and resource registered
// against the router.
func New(router *dispatch.Router) (*Server, error) {
	if router == nil {
		return nil, fmt.Errorf("router is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	for _, module := range registrationModules() {
		module.register(mcpServer, router)
	}
	return &Server{mcpServer: mcpServer, router: router}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run serves MCP until context cancellation. Transport defaults to stdio.
func Run(ctx context.Context, router *dispatch.Router, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	server, err := New(router)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		transport := NewHTTPTransport(cfg, server.mcpServer)
		return transport.Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// Context cancellation is an orderly stop, not an error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
