package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// RenderJobs tracks the bridge-issued handle for the host's single render
// slot. The host renders one job at a time and exposes no job identity of
// its own, so the bridge mints one per accepted start_render and pairs it
// with the host's progress reports.
type RenderJobs struct {
	mu      sync.Mutex
	id      string
	project string
	started time.Time
}

// NewRenderJobs creates an empty job tracker.
func NewRenderJobs() *RenderJobs {
	return &RenderJobs{}
}

func (r *RenderJobs) start(project string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = uuid.NewString()
	r.project = project
	r.started = time.Now().UTC()
	return r.id
}

func (r *RenderJobs) current() (id, project string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, r.project, r.id != ""
}

func renderOperations(jobs *RenderJobs) []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "start_render",
			Description: "Start rendering the current project and return a job handle.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"preset":   schema.NonEmptyString("Render preset to load first."),
				"settings": schema.FreeObject("Render settings passed through to the host."),
			})),
			Handler: startRender(jobs),
		},
		{
			Name:        "get_render_status",
			Description: "Poll render progress.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getRenderStatus(jobs),
		},
	}
}

// startRender is fire-and-forget: it returns as soon as the host accepts
// the job. Progress is observed through get_render_status polls, never by
// blocking inside dispatch.
func startRender(jobs *RenderJobs) dispatch.Handler {
	return func(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
		project, err := currentProject(ctx, sess)
		if err != nil {
			return nil, nil, err
		}
		rendering, err := project.IsRenderingInProgress(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "render state")
		}
		if rendering {
			return nil, nil, outcome.NewError(outcome.Busy, "a render is already in progress")
		}
		if args.Has("preset") {
			preset := args.String("preset")
			ok, err := project.LoadRenderPreset(ctx, preset)
			if err != nil {
				return nil, nil, hosterr(err, "load render preset %q", preset)
			}
			if !ok {
				return nil, nil, outcome.NewError(outcome.NotFound, "render preset %q not found", preset)
			}
		}
		if settings := args.Map("settings"); len(settings) > 0 {
			ok, err := project.SetRenderSettings(ctx, settings)
			if err != nil {
				return nil, nil, hosterr(err, "apply render settings")
			}
			if !ok {
				return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected render settings")
			}
		}
		accepted, err := project.StartRendering(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "start render")
		}
		if !accepted {
			// Policy: the in-progress check above passed, so a false here
			// means another caller won the race for the render slot.
			return nil, nil, outcome.NewError(outcome.Busy, "host refused to start the render")
		}
		name, err := project.Name(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "project name")
		}
		jobID := jobs.start(name)
		return map[string]any{"job_id": jobID}, nil, nil
	}
}

func getRenderStatus(jobs *RenderJobs) dispatch.Handler {
	return func(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
		project, err := currentProject(ctx, sess)
		if err != nil {
			return nil, nil, err
		}
		progress, err := project.RenderingProgress(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "render progress")
		}
		rendering, err := project.IsRenderingInProgress(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "render state")
		}
		state := "idle"
		switch {
		case rendering:
			state = "rendering"
		case progress >= 100:
			state = "complete"
		}
		value := map[string]any{"state": state, "progress": progress}
		if id, jobProject, ok := jobs.current(); ok {
			value["job_id"] = id
			value["project"] = jobProject
		}
		return value, nil, nil
	}
}
