package adapter

import (
	"context"
	"errors"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// nodeSpacing is the horizontal flow distance between chained nodes.
const nodeSpacing = 110

func fusionOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "create_fusion_node",
			Description: "Create one node in the current composition.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"node_type": schema.NonEmptyString("Fusion tool type, e.g. Blur."),
				"x":         schema.Integer("Flow X coordinate."),
				"y":         schema.Integer("Flow Y coordinate."),
			}, "node_type")),
			Handler: createFusionNode,
		},
		{
			Name:        "chain_fusion_nodes",
			Description: "Create an ordered chain of nodes in the current composition.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"node_types": schema.NonEmptyArrayOf(schema.NonEmptyString("Fusion tool type."), "Node types in chain order."),
				"connections": schema.ArrayOf(schema.Object(map[string]any{
					"from":  schema.IntegerMin("0-based source node index.", 0),
					"to":    schema.IntegerMin("0-based target node index.", 0),
					"input": schema.NonEmptyString("Target input name."),
				}, "from", "to", "input"), "Explicit wiring overriding the default chain."),
			}, "node_types")),
			Handler: chainFusionNodes,
		},
		{
			Name:        "get_current_comp",
			Description: "Report the current composition.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getCurrentComp,
		},
	}
}

func currentComp(ctx context.Context, sess *session.Session) (host.Comp, error) {
	fusion, err := sess.Conn().Fusion(ctx)
	if err != nil {
		return nil, hosterr(err, "fusion surface")
	}
	comp, err := fusion.CurrentComp(ctx)
	if err != nil {
		return nil, hosterr(err, "resolve current composition")
	}
	return comp, nil
}

func createFusionNode(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	nodeType := args.String("node_type")
	comp, err := currentComp(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	node, err := comp.AddTool(ctx, nodeType, args.Int("x"), args.Int("y"))
	if err != nil {
		return nil, nil, hosterr(err, "create %s node", nodeType)
	}
	name, err := node.Name(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "node name")
	}
	return map[string]any{"node": name, "node_type": nodeType}, nil, nil
}

// chainFusionNodes creates nodes in declared order and wires node N+1's
// primary input to node N unless an explicit connection overrides that
// target. A failure partway through aborts immediately and reports how many
// nodes were already created; the half-built chain is left for the caller
// to inspect or clean up, never reported as success.
func chainFusionNodes(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	nodeTypes := args.Strings("node_types")
	overrides, err := chainOverrides(args, len(nodeTypes))
	if err != nil {
		return nil, nil, err
	}
	comp, err := currentComp(ctx, sess)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]host.Node, 0, len(nodeTypes))
	names := make([]string, 0, len(nodeTypes))
	for i, nodeType := range nodeTypes {
		node, err := comp.AddTool(ctx, nodeType, i*nodeSpacing, 0)
		if err != nil {
			return nil, nil, chainFailure(err, len(nodes), "create node %d (%s)", i, nodeType)
		}
		name, err := node.Name(ctx)
		if err != nil {
			return nil, nil, chainFailure(err, len(nodes), "name node %d (%s)", i, nodeType)
		}
		nodes = append(nodes, node)
		names = append(names, name)
	}

	for i := 1; i < len(nodes); i++ {
		if _, overridden := overrides[i]; overridden {
			continue
		}
		if err := nodes[i].ConnectInput(ctx, "Input", nodes[i-1]); err != nil {
			return nil, nil, chainFailure(err, len(nodes), "wire node %d to node %d", i, i-1)
		}
	}
	for target, conn := range overrides {
		if err := nodes[target].ConnectInput(ctx, conn.input, nodes[conn.from]); err != nil {
			return nil, nil, chainFailure(err, len(nodes), "wire node %d input %s", target, conn.input)
		}
	}

	return map[string]any{"nodes": names, "created_count": len(names)}, nil, nil
}

type chainConnection struct {
	from  int
	input string
}

func chainOverrides(args schema.Args, nodeCount int) (map[int]chainConnection, error) {
	raw, ok := args["connections"].([]any)
	if !ok {
		return nil, nil
	}
	overrides := make(map[int]chainConnection, len(raw))
	for _, item := range raw {
		conn, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := schema.Args(conn)
		from := entry.Int("from")
		to := entry.Int("to")
		if from >= nodeCount || to >= nodeCount || from == to {
			return nil, outcome.NewError(outcome.InvalidArgument,
				"connection %d -> %d does not fit a chain of %d nodes", from, to, nodeCount)
		}
		overrides[to] = chainConnection{from: from, input: entry.String("input")}
	}
	return overrides, nil
}

func chainFailure(err error, created int, format string, args ...any) error {
	wrapped := hosterr(err, format, args...)
	var oe *outcome.Error
	if errors.As(wrapped, &oe) {
		oe.Meta = map[string]any{"created_count": created}
		return oe
	}
	return wrapped
}

func getCurrentComp(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	comp, err := currentComp(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	name, err := comp.Name(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "composition name")
	}
	return map[string]any{"name": name}, nil, nil
}
