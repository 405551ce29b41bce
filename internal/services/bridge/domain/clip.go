package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// SetClipPropertyInput represents the MCP tool input for writing a property
// of the clip under the playhead.
type SetClipPropertyInput struct {
	Property string  `json:"property" jsonschema:"property name, e.g. ZoomX"`
	Value    float64 `json:"value" jsonschema:"property value"`
}

// GetClipPropertyInput represents the MCP tool input for reading a property
// of the clip under the playhead.
type GetClipPropertyInput struct {
	Property string `json:"property" jsonschema:"property name, e.g. ZoomX"`
}

func SetClipPropertyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_clip_property",
		Description: "Set a property on the clip under the playhead.",
	}
}

func SetClipPropertyHandler(d Dispatcher) mcp.ToolHandlerFor[SetClipPropertyInput, any] {
	return runTool[SetClipPropertyInput](d, "set_clip_property")
}

func GetClipPropertyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_clip_property",
		Description: "Read a property of the clip under the playhead.",
	}
}

func GetClipPropertyHandler(d Dispatcher) mcp.ToolHandlerFor[GetClipPropertyInput, any] {
	return runTool[GetClipPropertyInput](d, "get_clip_property")
}
