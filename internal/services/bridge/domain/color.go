package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// AddColorNodeInput represents the MCP tool input for extending the color graph.
type AddColorNodeInput struct {
	NodeType string `json:"node_type" jsonschema:"node type, e.g. Corrector"`
}

// SaveStillInput represents the MCP tool input for saving a gallery still.
type SaveStillInput struct {
	Album string `json:"album,omitempty" jsonschema:"target album; created if absent"`
}

// ApplyStillInput represents the MCP tool input for applying a gallery still.
type ApplyStillInput struct {
	Album string `json:"album" jsonschema:"album name"`
	Label string `json:"label" jsonschema:"still label"`
}

// GetVersionCountInput represents the MCP tool input for counting versions.
type GetVersionCountInput struct {
	Kind string `json:"kind" jsonschema:"version stack (color, fusion)"`
}

// SetCurrentVersionInput represents the MCP tool input for selecting a version.
type SetCurrentVersionInput struct {
	Index int    `json:"index" jsonschema:"0-based version index"`
	Kind  string `json:"kind" jsonschema:"version stack (color, fusion)"`
}

func GetColorNodesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_color_nodes",
		Description: "List color node labels of the clip under the playhead.",
	}
}

func GetColorNodesHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_color_nodes")
}

func AddColorNodeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_color_node",
		Description: "Append a node to the clip's color graph.",
	}
}

func AddColorNodeHandler(d Dispatcher) mcp.ToolHandlerFor[AddColorNodeInput, any] {
	return runTool[AddColorNodeInput](d, "add_color_node")
}

func SaveStillTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "save_still",
		Description: "Save the clip's grade as a gallery still.",
	}
}

func SaveStillHandler(d Dispatcher) mcp.ToolHandlerFor[SaveStillInput, any] {
	return runTool[SaveStillInput](d, "save_still")
}

func ApplyStillTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "apply_still",
		Description: "Apply a gallery still's grade to the clip under the playhead.",
	}
}

func ApplyStillHandler(d Dispatcher) mcp.ToolHandlerFor[ApplyStillInput, any] {
	return runTool[ApplyStillInput](d, "apply_still")
}

func ListGalleryAlbumsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_gallery_albums",
		Description: "List gallery albums and their stills.",
	}
}

func ListGalleryAlbumsHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "list_gallery_albums")
}

func GetVersionCountTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_version_count",
		Description: "Count the clip's color or fusion versions.",
	}
}

func GetVersionCountHandler(d Dispatcher) mcp.ToolHandlerFor[GetVersionCountInput, any] {
	return runTool[GetVersionCountInput](d, "get_version_count")
}

func SetCurrentVersionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_current_version",
		Description: "Select one of the clip's color or fusion versions.",
	}
}

func SetCurrentVersionHandler(d Dispatcher) mcp.ToolHandlerFor[SetCurrentVersionInput, any] {
	return runTool[SetCurrentVersionInput](d, "set_current_version")
}
