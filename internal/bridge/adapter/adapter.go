// Package adapter translates validated operations into host scripting
// calls, one file per capability area. Adapters resolve every "current"
// entity through the session at the start of the operation, never across
// operations, and resolve every ambiguous host signal into exactly one
// outcome kind with the policy stated at the call site.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/journal"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// Deps carries cross-area adapter dependencies. Journal may be nil when the
// operation journal is disabled.
type Deps struct {
	Journal *journal.Journal
	Jobs    *RenderJobs
}

// Operations assembles the full registry, every capability area included.
func Operations(deps Deps) []dispatch.Operation {
	jobs := deps.Jobs
	if jobs == nil {
		jobs = NewRenderJobs()
	}
	var ops []dispatch.Operation
	ops = append(ops, projectOperations()...)
	ops = append(ops, timelineOperations()...)
	ops = append(ops, mediaOperations()...)
	ops = append(ops, clipOperations()...)
	ops = append(ops, fusionOperations()...)
	ops = append(ops, colorOperations()...)
	ops = append(ops, audioOperations()...)
	ops = append(ops, playbackOperations()...)
	ops = append(ops, renderOperations(jobs)...)
	ops = append(ops, navigationOperations()...)
	ops = append(ops, scriptOperations()...)
	ops = append(ops, statusOperations(deps.Journal)...)
	return ops
}

// hosterr resolves a host error into an *outcome.Error per the fixed
// mapping table: unavailable connections, stale handles, and missing
// capabilities each get their own kind; anything else is an unexpected
// host fault.
func hosterr(err error, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, host.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return outcome.NewError(outcome.HostUnavailable, "%s: %v", detail, err)
	case errors.Is(err, host.ErrStale), errors.Is(err, session.ErrNoCurrent):
		return outcome.NewError(outcome.NotFound, "%s: %v", detail, err)
	case errors.Is(err, host.ErrUnsupported), errors.Is(err, host.ErrUnknownProperty):
		return outcome.NewError(outcome.Unsupported, "%s: %v", detail, err)
	}
	return outcome.NewError(outcome.Internal, "%s: %v", detail, err)
}

// currentProject resolves the live current project or a NotFound outcome.
func currentProject(ctx context.Context, sess *session.Session) (host.Project, error) {
	project, _, err := sess.CurrentProject(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoCurrent) {
			return nil, outcome.NewError(outcome.NotFound, "no project is open")
		}
		return nil, hosterr(err, "resolve current project")
	}
	return project, nil
}

// currentTimeline resolves the live current timeline or a NotFound outcome.
func currentTimeline(ctx context.Context, sess *session.Session) (host.Timeline, error) {
	timeline, _, err := sess.CurrentTimeline(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoCurrent) {
			return nil, outcome.NewError(outcome.NotFound, "no timeline is current")
		}
		return nil, hosterr(err, "resolve current timeline")
	}
	return timeline, nil
}

// currentVideoItem resolves the clip under the playhead on the current
// timeline. Color, audio, and clip-property operations act on it.
func currentVideoItem(ctx context.Context, sess *session.Session) (host.Clip, error) {
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, err
	}
	clip, err := timeline.CurrentVideoItem(ctx)
	if err != nil {
		if errors.Is(err, host.ErrStale) {
			return nil, outcome.NewError(outcome.NotFound, "no clip under the playhead")
		}
		return nil, hosterr(err, "resolve current video item")
	}
	return clip, nil
}

// timelineByName scans the project's timelines for name. The host indexes
// timelines 1-based and offers no lookup by name.
func timelineByName(ctx context.Context, project host.Project, name string) (host.Timeline, error) {
	count, err := project.TimelineCount(ctx)
	if err != nil {
		return nil, hosterr(err, "count timelines")
	}
	for i := 1; i <= count; i++ {
		timeline, err := project.TimelineByIndex(ctx, i)
		if err != nil {
			return nil, hosterr(err, "timeline %d", i)
		}
		tlName, err := timeline.Name(ctx)
		if err != nil {
			return nil, hosterr(err, "timeline %d name", i)
		}
		if tlName == name {
			return timeline, nil
		}
	}
	return nil, outcome.NewError(outcome.NotFound, "timeline %q not found", name)
}

// timelineNames lists the project's timelines in host index order.
func timelineNames(ctx context.Context, project host.Project) ([]string, error) {
	count, err := project.TimelineCount(ctx)
	if err != nil {
		return nil, hosterr(err, "count timelines")
	}
	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		timeline, err := project.TimelineByIndex(ctx, i)
		if err != nil {
			return nil, hosterr(err, "timeline %d", i)
		}
		name, err := timeline.Name(ctx)
		if err != nil {
			return nil, hosterr(err, "timeline %d name", i)
		}
		names = append(names, name)
	}
	return names, nil
}

// clipsByName resolves clip names against the current folder first, then
// the root folder. Media pool refs are borrowed per operation, so a lookup
// is a fresh scan every time.
func clipsByName(ctx context.Context, pool host.MediaPool, names []string) ([]host.Clip, error) {
	folders := make([]host.Folder, 0, 2)
	if current, err := pool.CurrentFolder(ctx); err == nil {
		folders = append(folders, current)
	}
	root, err := pool.RootFolder(ctx)
	if err != nil {
		return nil, hosterr(err, "media pool root folder")
	}
	folders = append(folders, root)

	byName := make(map[string]host.Clip)
	for _, folder := range folders {
		clips, err := folder.Clips(ctx)
		if err != nil {
			return nil, hosterr(err, "list folder clips")
		}
		for _, clip := range clips {
			name, err := clip.Name(ctx)
			if err != nil {
				return nil, hosterr(err, "clip name")
			}
			if _, seen := byName[name]; !seen {
				byName[name] = clip
			}
		}
	}

	resolved := make([]host.Clip, 0, len(names))
	for _, name := range names {
		clip, ok := byName[name]
		if !ok {
			return nil, outcome.NewError(outcome.NotFound, "clip %q not found in media pool", name)
		}
		resolved = append(resolved, clip)
	}
	return resolved, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
