package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// OpenPageInput represents the MCP tool input for switching host pages.
type OpenPageInput struct {
	Page string `json:"page" jsonschema:"target page, case-insensitive (media, edit, fusion, color, fairlight, deliver)"`
}

func OpenPageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "open_page",
		Description: "Switch the host's active page.",
	}
}

func OpenPageHandler(d Dispatcher) mcp.ToolHandlerFor[OpenPageInput, any] {
	return runTool[OpenPageInput](d, "open_page")
}
