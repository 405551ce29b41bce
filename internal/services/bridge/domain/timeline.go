package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// CreateTimelineInput represents the MCP tool input for timeline creation.
type CreateTimelineInput struct {
	Name string `json:"name" jsonschema:"timeline name"`
}

// CreateTimelineFromClipsInput represents the MCP tool input for building a
// timeline from media pool clips.
type CreateTimelineFromClipsInput struct {
	Name  string   `json:"name" jsonschema:"timeline name"`
	Clips []string `json:"clips" jsonschema:"clip names in order"`
}

// ImportTimelineInput represents the MCP tool input for timeline import.
type ImportTimelineInput struct {
	Path string `json:"path" jsonschema:"timeline file path"`
}

// SetCurrentTimelineInput represents the MCP tool input for switching timelines.
type SetCurrentTimelineInput struct {
	Name string `json:"name" jsonschema:"timeline name"`
}

// AddTrackInput represents the MCP tool input for adding a track.
type AddTrackInput struct {
	Kind string `json:"kind" jsonschema:"track type (video, audio, subtitle)"`
}

// SetTrackNameInput represents the MCP tool input for renaming a track.
type SetTrackNameInput struct {
	Kind  string `json:"kind" jsonschema:"track type (video, audio, subtitle)"`
	Index int    `json:"index" jsonschema:"1-based track index"`
	Name  string `json:"name" jsonschema:"new track name"`
}

// EnableTrackInput represents the MCP tool input for toggling a track.
type EnableTrackInput struct {
	Kind    string `json:"kind" jsonschema:"track type (video, audio, subtitle)"`
	Index   int    `json:"index" jsonschema:"1-based track index"`
	Enabled bool   `json:"enabled" jsonschema:"track enabled state"`
}

// AddMarkerInput represents the MCP tool input for adding a timeline marker.
type AddMarkerInput struct {
	Frame    int    `json:"frame" jsonschema:"timeline frame for the marker"`
	Color    string `json:"color,omitempty" jsonschema:"marker color; defaults to Blue"`
	Name     string `json:"name,omitempty" jsonschema:"marker name"`
	Note     string `json:"note,omitempty" jsonschema:"marker note"`
	Duration *int   `json:"duration,omitempty" jsonschema:"marker duration in frames"`
}

// AppendToTimelineInput represents the MCP tool input for appending clips.
type AppendToTimelineInput struct {
	Clips []string `json:"clips" jsonschema:"clip names in order"`
}

// GetTimelineItemsInput represents the MCP tool input for listing one track.
type GetTimelineItemsInput struct {
	Kind  string `json:"kind" jsonschema:"track type (video, audio, subtitle)"`
	Index int    `json:"index" jsonschema:"1-based track index"`
}

func CreateTimelineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_timeline",
		Description: "Create an empty timeline and make it current.",
	}
}

func CreateTimelineHandler(d Dispatcher) mcp.ToolHandlerFor[CreateTimelineInput, any] {
	return runTool[CreateTimelineInput](d, "create_timeline")
}

func CreateTimelineFromClipsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_timeline_from_clips",
		Description: "Create a timeline from named media pool clips.",
	}
}

func CreateTimelineFromClipsHandler(d Dispatcher) mcp.ToolHandlerFor[CreateTimelineFromClipsInput, any] {
	return runTool[CreateTimelineFromClipsInput](d, "create_timeline_from_clips")
}

func ImportTimelineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "import_timeline_from_file",
		Description: "Import a timeline from an interchange file.",
	}
}

func ImportTimelineHandler(d Dispatcher) mcp.ToolHandlerFor[ImportTimelineInput, any] {
	return runTool[ImportTimelineInput](d, "import_timeline_from_file")
}

func ListTimelinesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_timelines",
		Description: "List the current project's timelines in host order.",
	}
}

func ListTimelinesHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "list_timelines")
}

func SetCurrentTimelineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_current_timeline",
		Description: "Make a named timeline current.",
	}
}

func SetCurrentTimelineHandler(d Dispatcher) mcp.ToolHandlerFor[SetCurrentTimelineInput, any] {
	return runTool[SetCurrentTimelineInput](d, "set_current_timeline")
}

func GetTimelineInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_timeline_info",
		Description: "Report the current timeline's frame range and tracks.",
	}
}

func GetTimelineInfoHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_timeline_info")
}

func AddTrackTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_track",
		Description: "Add a track to the current timeline.",
	}
}

func AddTrackHandler(d Dispatcher) mcp.ToolHandlerFor[AddTrackInput, any] {
	return runTool[AddTrackInput](d, "add_track")
}

func SetTrackNameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_track_name",
		Description: "Rename a track on the current timeline.",
	}
}

func SetTrackNameHandler(d Dispatcher) mcp.ToolHandlerFor[SetTrackNameInput, any] {
	return runTool[SetTrackNameInput](d, "set_track_name")
}

func EnableTrackTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "enable_track",
		Description: "Enable or disable a track on the current timeline.",
	}
}

func EnableTrackHandler(d Dispatcher) mcp.ToolHandlerFor[EnableTrackInput, any] {
	return runTool[EnableTrackInput](d, "enable_track")
}

func AddMarkerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_marker",
		Description: "Add a marker to the current timeline.",
	}
}

func AddMarkerHandler(d Dispatcher) mcp.ToolHandlerFor[AddMarkerInput, any] {
	return runTool[AddMarkerInput](d, "add_marker")
}

func AppendToTimelineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "append_to_timeline",
		Description: "Append named media pool clips to the current timeline.",
	}
}

func AppendToTimelineHandler(d Dispatcher) mcp.ToolHandlerFor[AppendToTimelineInput, any] {
	return runTool[AppendToTimelineInput](d, "append_to_timeline")
}

func GetTimelineItemsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_timeline_items",
		Description: "List clip names in one track of the current timeline.",
	}
}

func GetTimelineItemsHandler(d Dispatcher) mcp.ToolHandlerFor[GetTimelineItemsInput, any] {
	return runTool[GetTimelineItemsInput](d, "get_timeline_items")
}
