package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// Config carries router dependencies. Session is required; Recorder and
// Observer are optional.
type Config struct {
	Session  *session.Session
	Recorder Recorder
	Observer Observer
}

// Router dispatches operations against one host session. Mutating
// operations hold the write lock; read-only operations share the read
// lock, so queries proceed concurrently with each other but never with a
// mutation.
type Router struct {
	sess     *session.Session
	recorder Recorder
	observer Observer

	mu    sync.RWMutex
	ops   map[string]Operation
	names []string
}

// NewRouter builds a router over a fixed operation registry. Duplicate or
// unnamed operations are registration errors.
func NewRouter(cfg Config, ops ...Operation) (*Router, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	r := &Router{
		sess:     cfg.Session,
		recorder: cfg.Recorder,
		observer: cfg.Observer,
		ops:      make(map[string]Operation, len(ops)),
	}
	for _, op := range ops {
		if op.Name == "" {
			return nil, fmt.Errorf("operation with empty name")
		}
		if op.Handler == nil {
			return nil, fmt.Errorf("operation %s: handler is required", op.Name)
		}
		if op.Schema == nil {
			return nil, fmt.Errorf("operation %s: schema is required", op.Name)
		}
		if _, exists := r.ops[op.Name]; exists {
			return nil, fmt.Errorf("operation %s registered twice", op.Name)
		}
		r.ops[op.Name] = op
		r.names = append(r.names, op.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Operations lists the registry in name order, for tool listings.
func (r *Router) Operations() []Operation {
	out := make([]Operation, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.ops[name])
	}
	return out
}

// Session returns the session the router dispatches against.
func (r *Router) Session() *session.Session {
	return r.sess
}

// Dispatch runs one operation and returns its outcome. It never panics
// through and never returns a raw host value.
func (r *Router) Dispatch(ctx context.Context, name string, rawArgs map[string]any) (result outcome.Outcome) {
	started := time.Now()
	ctx, span := tracer().Start(ctx, "dispatch."+name)
	defer func() {
		if rec := recover(); rec != nil {
			result = outcome.Errorf(outcome.Internal, "operation %s panicked: %v", name, rec)
		}
		r.finish(ctx, name, result, time.Since(started))
		endSpan(span, name, result.Kind)
	}()

	op, ok := r.ops[name]
	if !ok {
		return outcome.Errorf(outcome.UnknownOperation, "unknown operation %q%s", name, r.suggestion(name))
	}

	if err := op.Schema.Validate(rawArgs); err != nil {
		var invalid *schema.Invalid
		if errors.As(err, &invalid) {
			return validationOutcome(invalid)
		}
		return outcome.Errorf(outcome.Internal, "validate %s: %v", name, err)
	}

	if op.ReadOnly {
		r.mu.RLock()
		defer r.mu.RUnlock()
	} else {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	value, intent, err := op.Handler(ctx, r.sess, schema.Args(rawArgs))
	if err != nil {
		return normalize(err)
	}
	r.sess.Commit(intent)
	return outcome.Successf(value)
}

func (r *Router) finish(ctx context.Context, name string, result outcome.Outcome, elapsed time.Duration) {
	if r.observer != nil {
		r.observer.ObserveDispatch(name, string(result.Kind), elapsed)
	}
	if r.recorder != nil {
		r.recorder.Record(ctx, name, result.Kind, result.Detail, elapsed)
	}
}

// suggestionDistance caps how far a name may be from a registered operation
// before the suggestion is more confusing than helpful.
const suggestionDistance = 5

func (r *Router) suggestion(name string) string {
	best := ""
	bestDistance := suggestionDistance + 1
	for _, candidate := range r.names {
		d := levenshtein.ComputeDistance(strings.ToLower(name), candidate)
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func validationOutcome(invalid *schema.Invalid) outcome.Outcome {
	o := outcome.Errorf(outcome.ValidationError, "%s", invalid.Error())
	if len(invalid.Fields) > 0 {
		o.Value = map[string]any{"field": invalid.Fields[0].Field}
	}
	return o
}

// normalize maps an adapter error to its outcome. Adapters resolve host
// ambiguity into *outcome.Error themselves; the sentinel checks here are a
// backstop so a raw host error still lands in the right kind.
func normalize(err error) outcome.Outcome {
	var oe *outcome.Error
	if errors.As(err, &oe) {
		return outcome.Outcome{Kind: oe.Kind, Detail: oe.Detail, Value: oe.Meta}
	}
	switch {
	case errors.Is(err, session.ErrNoCurrent):
		return outcome.Errorf(outcome.NotFound, "%s", err.Error())
	case errors.Is(err, host.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return outcome.Errorf(outcome.HostUnavailable, "%s", err.Error())
	case errors.Is(err, host.ErrStale):
		return outcome.Errorf(outcome.NotFound, "%s", err.Error())
	case errors.Is(err, host.ErrUnsupported), errors.Is(err, host.ErrUnknownProperty):
		return outcome.Errorf(outcome.Unsupported, "%s", err.Error())
	}
	return outcome.FromError(err)
}
