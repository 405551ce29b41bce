package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/journal"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func statusOperations(j *journal.Journal) []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "get_status",
			Description: "Report host connectivity and current project, timeline, and page.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getStatus,
		},
		{
			Name:        "recent_operations",
			Description: "List recently dispatched operations from the journal.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"limit": schema.IntegerMin("How many entries to return.", 1),
			})),
			Handler: recentOperations(j),
		},
	}
}

// getStatus reports live host state, not the cached session: the getters
// re-query the host so an out-of-band project switch is visible here.
func getStatus(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	value := map[string]any{"connected": true}
	if err := sess.Conn().Ping(ctx); err != nil {
		value["connected"] = false
		return value, nil, nil
	}
	if page, err := sess.CurrentPage(ctx); err == nil {
		value["page"] = string(page)
	}
	if _, ref, err := sess.CurrentProject(ctx); err == nil {
		value["project"] = ref.Name
		if _, tlRef, err := sess.CurrentTimeline(ctx); err == nil {
			value["timeline"] = tlRef.Name
		}
	}
	return value, nil, nil
}

func recentOperations(j *journal.Journal) dispatch.Handler {
	return func(ctx context.Context, _ *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
		if j == nil {
			return nil, nil, outcome.NewError(outcome.Unsupported, "the operation journal is disabled")
		}
		entries, err := j.Recent(ctx, args.IntOr("limit", journal.DefaultRecent))
		if err != nil {
			return nil, nil, outcome.NewError(outcome.Internal, "read journal: %v", err)
		}
		listed := make([]map[string]any, 0, len(entries))
		for _, e := range entries {
			listed = append(listed, map[string]any{
				"operation":   e.Operation,
				"outcome":     e.Kind,
				"detail":      e.Detail,
				"duration_ms": e.DurationMS,
				"created_at":  e.CreatedAt.Format("2006-01-02T15:04:05.000Z"),
			})
		}
		return map[string]any{"operations": listed}, nil, nil
	}
}
