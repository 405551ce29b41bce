package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// RecentOperationsInput represents the MCP tool input for the journal listing.
type RecentOperationsInput struct {
	Limit *int `json:"limit,omitempty" jsonschema:"how many entries to return"`
}

func GetStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_status",
		Description: "Report host connectivity and current project, timeline, and page.",
	}
}

func GetStatusHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_status")
}

func RecentOperationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "recent_operations",
		Description: "List recently dispatched operations from the journal.",
	}
}

func RecentOperationsHandler(d Dispatcher) mcp.ToolHandlerFor[RecentOperationsInput, any] {
	return runTool[RecentOperationsInput](d, "recent_operations")
}
