package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/framefold/resolvebridge/internal/bridge/outcome"
)

// Dispatcher runs one named operation against the host session. It is
// satisfied by dispatch.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, operation string, args map[string]any) outcome.Outcome
}

// runTool builds a tool handler that encodes its input, dispatches the
// named operation, and maps the outcome onto the MCP result shape. The
// dispatcher validates arguments itself, so a schema rejection surfaces
// here as a VALIDATION_ERROR tool error rather than a protocol fault.
func runTool[I any](d Dispatcher, operation string) mcp.ToolHandlerFor[I, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input I) (*mcp.CallToolResult, any, error) {
		args, err := encodeArgs(input)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s arguments: %w", operation, err)
		}
		out := d.Dispatch(ctx, operation, args)
		if !out.Success() {
			return failureResult(out), nil, nil
		}
		return nil, out.Value, nil
	}
}

// encodeArgs converts a typed tool input into the argument map the
// dispatcher validates. Optional fields carry omitempty, so absent
// arguments stay absent instead of arriving as zero values.
func encodeArgs(input any) (map[string]any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	args := map[string]any{}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// failureResult reports a failed outcome as a tool error. The whole
// outcome is serialized so the caller sees the kind, detail, and any
// structured context the operation attached.
func failureResult(out outcome.Outcome) *mcp.CallToolResult {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		data = fmt.Appendf(nil, "%s: %s", out.Kind, out.Detail)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}
