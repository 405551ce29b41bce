package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ScriptInput represents the MCP tool input for script passthrough.
type ScriptInput struct {
	Source string `json:"source" jsonschema:"script source to run in the host"`
}

func ExecuteLuaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "execute_lua",
		Description: "Run Lua source in the host's scripting environment.",
	}
}

func ExecuteLuaHandler(d Dispatcher) mcp.ToolHandlerFor[ScriptInput, any] {
	return runTool[ScriptInput](d, "execute_lua")
}

func ExecutePythonTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "execute_python",
		Description: "Run Python source in the host's scripting environment.",
	}
}

func ExecutePythonHandler(d Dispatcher) mcp.ToolHandlerFor[ScriptInput, any] {
	return runTool[ScriptInput](d, "execute_python")
}
