// Package dispatch is the single entry point for bridge operations. The
// router looks an operation up in a static registry, validates its
// arguments, serializes it against other mutating operations, invokes its
// adapter, and normalizes the result into an Outcome. Dispatch always
// returns an Outcome; it never raises past its boundary.
package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// Handler executes one validated operation. It returns the success value,
// the session changes to commit on success, or an error carrying an outcome
// kind. Handlers never write Session directly.
type Handler func(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error)

// Operation is one registry entry. ReadOnly operations dispatch under a
// shared lock and must not mutate host state; session cache refreshes are
// fine, the session carries its own lock.
type Operation struct {
	Name        string
	Description string
	ReadOnly    bool
	Schema      *schema.Compiled
	Handler     Handler
}

// Recorder receives one record per completed dispatch. Implementations must
// not fail the dispatch; errors stay on their side of the boundary.
type Recorder interface {
	Record(ctx context.Context, op string, kind outcome.Kind, detail string, elapsed time.Duration)
}

// Observer receives dispatch timing for metrics.
type Observer interface {
	ObserveDispatch(operation, kind string, elapsed time.Duration)
}

const tracerName = "resolvebridge/dispatch"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func endSpan(span trace.Span, op string, kind outcome.Kind) {
	span.SetAttributes(
		attribute.String("bridge.operation", op),
		attribute.String("bridge.outcome", string(kind)),
	)
	span.End()
}
