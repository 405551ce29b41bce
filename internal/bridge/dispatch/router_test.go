package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/host/simhost"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(context.Background(), simhost.New())
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return sess
}

func noopHandler() dispatch.Handler {
	return func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
		return nil, nil, nil
	}
}

func operation(name string) dispatch.Operation {
	return dispatch.Operation{
		Name:    name,
		Schema:  schema.MustCompile(schema.Object(nil)),
		Handler: noopHandler(),
	}
}

type recordedDispatch struct {
	op     string
	kind   outcome.Kind
	detail string
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recordedDispatch
}

func (r *fakeRecorder) Record(_ context.Context, op string, kind outcome.Kind, detail string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedDispatch{op: op, kind: kind, detail: detail})
}

func (r *fakeRecorder) last(t *testing.T) recordedDispatch {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		t.Fatal("no dispatch recorded")
	}
	return r.records[len(r.records)-1]
}

type fakeObserver struct {
	mu    sync.Mutex
	kinds map[string]string
}

func (o *fakeObserver) ObserveDispatch(operation, kind string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.kinds == nil {
		o.kinds = map[string]string{}
	}
	o.kinds[operation] = kind
}

func TestNewRouter(t *testing.T) {
	sess := newSession(t)

	tests := []struct {
		name string
		cfg  dispatch.Config
		ops  []dispatch.Operation
	}{
		{"nil session", dispatch.Config{}, []dispatch.Operation{operation("ping")}},
		{"empty operation name", dispatch.Config{Session: sess}, []dispatch.Operation{operation("")}},
		{"nil handler", dispatch.Config{Session: sess}, []dispatch.Operation{{Name: "ping", Schema: schema.MustCompile(schema.Object(nil))}}},
		{"nil schema", dispatch.Config{Session: sess}, []dispatch.Operation{{Name: "ping", Handler: noopHandler()}}},
		{"duplicate name", dispatch.Config{Session: sess}, []dispatch.Operation{operation("ping"), operation("ping")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dispatch.NewRouter(tt.cfg, tt.ops...); err == nil {
				t.Fatal("expected registration error")
			}
		})
	}

	t.Run("operations listed in name order", func(t *testing.T) {
		router, err := dispatch.NewRouter(dispatch.Config{Session: sess},
			operation("stop"), operation("play"), operation("get_status"))
		if err != nil {
			t.Fatalf("NewRouter: %v", err)
		}
		ops := router.Operations()
		if len(ops) != 3 || ops[0].Name != "get_status" || ops[1].Name != "play" || ops[2].Name != "stop" {
			t.Fatalf("operations out of order: %v", ops)
		}
	})
}

func TestDispatchUnknownOperation(t *testing.T) {
	router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t)},
		operation("create_project"), operation("open_page"))
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	result := router.Dispatch(context.Background(), "create_projcet", nil)
	if result.Kind != outcome.UnknownOperation {
		t.Fatalf("kind = %s, want UNKNOWN_OPERATION", result.Kind)
	}
	if !strings.Contains(result.Detail, `did you mean "create_project"?`) {
		t.Fatalf("detail = %q, want a suggestion", result.Detail)
	}

	// A name nowhere near the registry gets no suggestion.
	result = router.Dispatch(context.Background(), "zzzzzzzzzzzzzzzz", nil)
	if strings.Contains(result.Detail, "did you mean") {
		t.Fatalf("detail = %q, want no suggestion", result.Detail)
	}
}

func TestDispatchValidation(t *testing.T) {
	var called bool
	router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t)}, dispatch.Operation{
		Name:   "rename",
		Schema: schema.MustCompile(schema.Object(map[string]any{"name": schema.NonEmptyString("Name.")}, "name")),
		Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
			called = true
			return nil, nil, nil
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	result := router.Dispatch(context.Background(), "rename", map[string]any{"name": ""})
	if result.Kind != outcome.ValidationError {
		t.Fatalf("kind = %s, want VALIDATION_ERROR", result.Kind)
	}
	if result.Value["field"] != "name" {
		t.Fatalf("value = %v, want failing field name", result.Value)
	}
	if called {
		t.Fatal("handler ran despite invalid arguments")
	}
}

func TestDispatchPanicRecovery(t *testing.T) {
	recorder := &fakeRecorder{}
	router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t), Recorder: recorder}, dispatch.Operation{
		Name:   "explode",
		Schema: schema.MustCompile(schema.Object(nil)),
		Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
			panic("boom")
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	result := router.Dispatch(context.Background(), "explode", nil)
	if result.Kind != outcome.Internal {
		t.Fatalf("kind = %s, want INTERNAL", result.Kind)
	}
	if !strings.Contains(result.Detail, "operation explode panicked: boom") {
		t.Fatalf("detail = %q", result.Detail)
	}
	if rec := recorder.last(t); rec.kind != outcome.Internal {
		t.Fatalf("recorded kind = %s, want INTERNAL", rec.kind)
	}
}

func TestDispatchNormalizesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want outcome.Kind
	}{
		{"typed outcome error", outcome.NewError(outcome.AlreadyExists, "dup"), outcome.AlreadyExists},
		{"no current entity", session.ErrNoCurrent, outcome.NotFound},
		{"host unavailable", host.ErrUnavailable, outcome.HostUnavailable},
		{"deadline exceeded", context.DeadlineExceeded, outcome.HostUnavailable},
		{"stale handle", host.ErrStale, outcome.NotFound},
		{"unsupported capability", host.ErrUnsupported, outcome.Unsupported},
		{"unknown property", host.ErrUnknownProperty, outcome.Unsupported},
		{"plain error", errors.New("boom"), outcome.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t)}, dispatch.Operation{
				Name:   "fail",
				Schema: schema.MustCompile(schema.Object(nil)),
				Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
					return nil, nil, tt.err
				},
			})
			if err != nil {
				t.Fatalf("NewRouter: %v", err)
			}
			if result := router.Dispatch(context.Background(), "fail", nil); result.Kind != tt.want {
				t.Fatalf("kind = %s, want %s", result.Kind, tt.want)
			}
		})
	}
}

func TestDispatchMetaReachesValue(t *testing.T) {
	router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t)}, dispatch.Operation{
		Name:   "chain",
		Schema: schema.MustCompile(schema.Object(nil)),
		Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
			oe := outcome.NewError(outcome.Internal, "node 2 failed")
			oe.Meta = map[string]any{"created_count": 2}
			return nil, nil, oe
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	result := router.Dispatch(context.Background(), "chain", nil)
	if result.Value["created_count"] != 2 {
		t.Fatalf("value = %v, want created_count carried from meta", result.Value)
	}
}

func TestDispatchCommitsIntentOnSuccess(t *testing.T) {
	sess := newSession(t)
	router, err := dispatch.NewRouter(dispatch.Config{Session: sess}, dispatch.Operation{
		Name:   "switch",
		Schema: schema.MustCompile(schema.Object(nil)),
		Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
			return map[string]any{"name": "Demo"}, &session.Intent{Project: &session.ProjectRef{Name: "Demo"}}, nil
		},
	}, dispatch.Operation{
		Name:   "switch_fails",
		Schema: schema.MustCompile(schema.Object(nil)),
		Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
			return nil, &session.Intent{Project: &session.ProjectRef{Name: "Never"}}, outcome.NewError(outcome.Internal, "nope")
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	if result := router.Dispatch(context.Background(), "switch", nil); !result.Success() {
		t.Fatalf("kind = %s, want OK", result.Kind)
	}
	if project, _, _ := sess.Snapshot(); project != "Demo" {
		t.Fatalf("project = %q, want Demo", project)
	}

	router.Dispatch(context.Background(), "switch_fails", nil)
	if project, _, _ := sess.Snapshot(); project != "Demo" {
		t.Fatalf("project = %q, failed dispatch must not commit", project)
	}
}

func TestDispatchObservability(t *testing.T) {
	recorder := &fakeRecorder{}
	observer := &fakeObserver{}
	router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t), Recorder: recorder, Observer: observer},
		operation("noop"))
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	router.Dispatch(context.Background(), "noop", nil)
	router.Dispatch(context.Background(), "nope_at_all", nil)

	rec := recorder.last(t)
	if rec.op != "nope_at_all" || rec.kind != outcome.UnknownOperation {
		t.Fatalf("recorded %+v", rec)
	}
	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.kinds["noop"] != string(outcome.OK) {
		t.Fatalf("observed kinds = %v", observer.kinds)
	}
	if observer.kinds["nope_at_all"] != string(outcome.UnknownOperation) {
		t.Fatalf("observed kinds = %v", observer.kinds)
	}
}

func TestDispatchReadOnlyConcurrency(t *testing.T) {
	const readers = 4
	release := make(chan struct{})
	started := make(chan struct{}, readers)
	router, err := dispatch.NewRouter(dispatch.Config{Session: newSession(t)}, dispatch.Operation{
		Name:     "inspect",
		ReadOnly: true,
		Schema:   schema.MustCompile(schema.Object(nil)),
		Handler: func(context.Context, *session.Session, schema.Args) (map[string]any, *session.Intent, error) {
			started <- struct{}{}
			<-release
			return nil, nil, nil
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			router.Dispatch(context.Background(), "inspect", nil)
		}()
	}

	// All readers must enter the handler together; a writer lock would
	// serialize them and this wait would time out.
	for range readers {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("read-only dispatches did not run concurrently")
		}
	}
	close(release)
	wg.Wait()
}
