package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func scriptOperations() []dispatch.Operation {
	sourceSchema := schema.MustCompile(schema.Object(map[string]any{
		"source": schema.NonEmptyString("Script source to run in the host."),
	}, "source"))
	return []dispatch.Operation{
		{
			Name:        "execute_lua",
			Description: "Run Lua source in the host's scripting environment.",
			Schema:      sourceSchema,
			Handler:     executeLua,
		},
		{
			Name:        "execute_python",
			Description: "Run Python source in the host's scripting environment.",
			Schema:      sourceSchema,
			Handler:     executePython,
		},
	}
}

// Script execution is pure passthrough: validation is non-empty source
// only, and scripts may mutate any host state, so both operations dispatch
// as mutating.

func executeLua(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	fusion, err := sess.Conn().Fusion(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "fusion surface")
	}
	result, err := fusion.ExecuteLua(ctx, args.String("source"))
	if err != nil {
		return nil, nil, hosterr(err, "execute lua")
	}
	return map[string]any{"result": result}, nil, nil
}

func executePython(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	fusion, err := sess.Conn().Fusion(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "fusion surface")
	}
	result, err := fusion.ExecutePython(ctx, args.String("source"))
	if err != nil {
		return nil, nil, hosterr(err, "execute python")
	}
	return map[string]any{"result": result}, nil, nil
}
