package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// SetPlayheadInput represents the MCP tool input for moving the playhead.
// Exactly one of timecode or frame must be given.
type SetPlayheadInput struct {
	Timecode string `json:"timecode,omitempty" jsonschema:"target timecode, HH:MM:SS:FF"`
	Frame    *int   `json:"frame,omitempty" jsonschema:"target frame on the current timeline"`
}

func PlayTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "play",
		Description: "Start playback.",
	}
}

func PlayHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "play")
}

func StopTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stop",
		Description: "Stop playback.",
	}
}

func StopHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "stop")
}

func GetTimecodeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_timecode",
		Description: "Read the playhead timecode.",
	}
}

func GetTimecodeHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_timecode")
}

func SetPlayheadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_playhead",
		Description: "Move the playhead to a timecode or frame.",
	}
}

func SetPlayheadHandler(d Dispatcher) mcp.ToolHandlerFor[SetPlayheadInput, any] {
	return runTool[SetPlayheadInput](d, "set_playhead")
}
