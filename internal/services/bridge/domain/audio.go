package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// SetAudioVolumeInput represents the MCP tool input for the clip volume.
type SetAudioVolumeInput struct {
	Volume float64 `json:"volume" jsonschema:"linear gain; 1.0 is unity"`
}

// SetTrackVolumeInput represents the MCP tool input for an audio track volume.
type SetTrackVolumeInput struct {
	Index  int     `json:"index" jsonschema:"1-based audio track index"`
	Volume float64 `json:"volume" jsonschema:"linear gain; 1.0 is unity"`
}

func GetAudioVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_audio_volume",
		Description: "Read the audio volume of the clip under the playhead.",
	}
}

func GetAudioVolumeHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_audio_volume")
}

func SetAudioVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_audio_volume",
		Description: "Set the audio volume of the clip under the playhead.",
	}
}

func SetAudioVolumeHandler(d Dispatcher) mcp.ToolHandlerFor[SetAudioVolumeInput, any] {
	return runTool[SetAudioVolumeInput](d, "set_audio_volume")
}

func SetTrackVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_track_volume",
		Description: "Set an audio track's volume on the current timeline.",
	}
}

func SetTrackVolumeHandler(d Dispatcher) mcp.ToolHandlerFor[SetTrackVolumeInput, any] {
	return runTool[SetTrackVolumeInput](d, "set_track_volume")
}
