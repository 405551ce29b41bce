// Package bridge parses bridge command flags and wires the dispatch
// stack to an MCP transport.
package bridge

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/framefold/resolvebridge/internal/bridge/adapter"
	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/host/shim"
	"github.com/framefold/resolvebridge/internal/bridge/host/simhost"
	"github.com/framefold/resolvebridge/internal/bridge/journal"
	"github.com/framefold/resolvebridge/internal/bridge/session"
	"github.com/framefold/resolvebridge/internal/platform/config"
	"github.com/framefold/resolvebridge/internal/platform/metrics"
	"github.com/framefold/resolvebridge/internal/platform/otel"
	"github.com/framefold/resolvebridge/internal/platform/timeouts"
	"github.com/framefold/resolvebridge/internal/services/bridge/service"
)

// hostAddrSim selects the in-process simulated host instead of a shim
// socket. It is the default so the bridge runs without Resolve present.
const hostAddrSim = "sim"

// Config holds bridge command configuration.
type Config struct {
	HostAddr    string `env:"RESOLVE_BRIDGE_HOST_ADDR"     envDefault:"sim"`
	Transport   string `env:"RESOLVE_BRIDGE_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr    string `env:"RESOLVE_BRIDGE_MCP_HTTP_ADDR" envDefault:"localhost:8765"`
	JournalPath string `env:"RESOLVE_BRIDGE_JOURNAL_PATH"`
	APIToken    string `env:"RESOLVE_BRIDGE_API_TOKEN"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HostAddr, "host-addr", cfg.HostAddr, "host shim address, or 'sim' for the simulated host")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "operation journal database path (empty disables the journal)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the bridge and serves MCP until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "bridge")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	conn, closeConn, err := connectHost(ctx, cfg.HostAddr)
	if err != nil {
		return err
	}
	defer closeConn()

	sess, err := session.New(ctx, conn)
	if err != nil {
		return fmt.Errorf("bind host session: %w", err)
	}

	var jrnl *journal.Journal
	if cfg.JournalPath != "" {
		jrnl, err = journal.Open(cfg.JournalPath, log.Default())
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := jrnl.Close(); err != nil {
				log.Printf("close journal: %v", err)
			}
		}()
	}

	m := metrics.New()

	router, err := dispatch.NewRouter(dispatch.Config{
		Session:  sess,
		Recorder: jrnl,
		Observer: m,
	}, adapter.Operations(adapter.Deps{Journal: jrnl, Jobs: adapter.NewRenderJobs()})...)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	return service.Run(ctx, router, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
		APIToken:  cfg.APIToken,
		Metrics:   m,
	})
}

// connectHost picks the simulated host or dials the shim socket.
func connectHost(ctx context.Context, addr string) (host.Conn, func(), error) {
	if addr == "" || addr == hostAddrSim {
		return simhost.New(), func() {}, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeouts.HostDial)
	defer cancel()
	client, err := shim.Dial(dialCtx, addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial host shim %s: %w", addr, err)
	}
	closeConn := func() {
		if err := client.Close(); err != nil {
			log.Printf("close host shim: %v", err)
		}
	}
	return client, closeConn, nil
}
