package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// StartRenderInput represents the MCP tool input for starting a render.
type StartRenderInput struct {
	Preset   string         `json:"preset,omitempty" jsonschema:"render preset to load first"`
	Settings map[string]any `json:"settings,omitempty" jsonschema:"render settings passed through to the host"`
}

func StartRenderTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_render",
		Description: "Start rendering the current project and return a job handle.",
	}
}

func StartRenderHandler(d Dispatcher) mcp.ToolHandlerFor[StartRenderInput, any] {
	return runTool[StartRenderInput](d, "start_render")
}

func GetRenderStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_render_status",
		Description: "Poll render progress.",
	}
}

func GetRenderStatusHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_render_status")
}
