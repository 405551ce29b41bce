package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/framefold/resolvebridge/internal/services/bridge/domain"
)

func registerProjectTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.CreateProjectTool(), domain.CreateProjectHandler(d))
	mcp.AddTool(server, domain.LoadProjectTool(), domain.LoadProjectHandler(d))
	mcp.AddTool(server, domain.SaveProjectTool(), domain.SaveProjectHandler(d))
	mcp.AddTool(server, domain.ExportProjectTool(), domain.ExportProjectHandler(d))
	mcp.AddTool(server, domain.ImportProjectTool(), domain.ImportProjectHandler(d))
	mcp.AddTool(server, domain.GetProjectInfoTool(), domain.GetProjectInfoHandler(d))
	mcp.AddTool(server, domain.GetProjectSettingTool(), domain.GetProjectSettingHandler(d))
	mcp.AddTool(server, domain.SetProjectSettingTool(), domain.SetProjectSettingHandler(d))
}

func registerTimelineTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.CreateTimelineTool(), domain.CreateTimelineHandler(d))
	mcp.AddTool(server, domain.CreateTimelineFromClipsTool(), domain.CreateTimelineFromClipsHandler(d))
	mcp.AddTool(server, domain.ImportTimelineTool(), domain.ImportTimelineHandler(d))
	mcp.AddTool(server, domain.ListTimelinesTool(), domain.ListTimelinesHandler(d))
	mcp.AddTool(server, domain.SetCurrentTimelineTool(), domain.SetCurrentTimelineHandler(d))
	mcp.AddTool(server, domain.GetTimelineInfoTool(), domain.GetTimelineInfoHandler(d))
	mcp.AddTool(server, domain.AddTrackTool(), domain.AddTrackHandler(d))
	mcp.AddTool(server, domain.SetTrackNameTool(), domain.SetTrackNameHandler(d))
	mcp.AddTool(server, domain.EnableTrackTool(), domain.EnableTrackHandler(d))
	mcp.AddTool(server, domain.AddMarkerTool(), domain.AddMarkerHandler(d))
	mcp.AddTool(server, domain.AppendToTimelineTool(), domain.AppendToTimelineHandler(d))
	mcp.AddTool(server, domain.GetTimelineItemsTool(), domain.GetTimelineItemsHandler(d))
}

func registerMediaTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.ImportMediaTool(), domain.ImportMediaHandler(d))
	mcp.AddTool(server, domain.CreateFolderTool(), domain.CreateFolderHandler(d))
	mcp.AddTool(server, domain.ListFolderTool(), domain.ListFolderHandler(d))
	mcp.AddTool(server, domain.GetClipMetadataTool(), domain.GetClipMetadataHandler(d))
	mcp.AddTool(server, domain.ListMountedVolumesTool(), domain.ListMountedVolumesHandler(d))
	mcp.AddTool(server, domain.ListStorageFilesTool(), domain.ListStorageFilesHandler(d))
}

func registerClipTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.SetClipPropertyTool(), domain.SetClipPropertyHandler(d))
	mcp.AddTool(server, domain.GetClipPropertyTool(), domain.GetClipPropertyHandler(d))
}

func registerFusionTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.CreateFusionNodeTool(), domain.CreateFusionNodeHandler(d))
	mcp.AddTool(server, domain.ChainFusionNodesTool(), domain.ChainFusionNodesHandler(d))
	mcp.AddTool(server, domain.GetCurrentCompTool(), domain.GetCurrentCompHandler(d))
}

func registerColorTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.GetColorNodesTool(), domain.GetColorNodesHandler(d))
	mcp.AddTool(server, domain.AddColorNodeTool(), domain.AddColorNodeHandler(d))
	mcp.AddTool(server, domain.SaveStillTool(), domain.SaveStillHandler(d))
	mcp.AddTool(server, domain.ApplyStillTool(), domain.ApplyStillHandler(d))
	mcp.AddTool(server, domain.ListGalleryAlbumsTool(), domain.ListGalleryAlbumsHandler(d))
	mcp.AddTool(server, domain.GetVersionCountTool(), domain.GetVersionCountHandler(d))
	mcp.AddTool(server, domain.SetCurrentVersionTool(), domain.SetCurrentVersionHandler(d))
}

func registerAudioTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.GetAudioVolumeTool(), domain.GetAudioVolumeHandler(d))
	mcp.AddTool(server, domain.SetAudioVolumeTool(), domain.SetAudioVolumeHandler(d))
	mcp.AddTool(server, domain.SetTrackVolumeTool(), domain.SetTrackVolumeHandler(d))
}

func registerPlaybackTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.PlayTool(), domain.PlayHandler(d))
	mcp.AddTool(server, domain.StopTool(), domain.StopHandler(d))
	mcp.AddTool(server, domain.GetTimecodeTool(), domain.GetTimecodeHandler(d))
	mcp.AddTool(server, domain.SetPlayheadTool(), domain.SetPlayheadHandler(d))
}

func registerRenderTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.StartRenderTool(), domain.StartRenderHandler(d))
	mcp.AddTool(server, domain.GetRenderStatusTool(), domain.GetRenderStatusHandler(d))
}

func registerNavigationTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.OpenPageTool(), domain.OpenPageHandler(d))
}

func registerScriptTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.ExecuteLuaTool(), domain.ExecuteLuaHandler(d))
	mcp.AddTool(server, domain.ExecutePythonTool(), domain.ExecutePythonHandler(d))
}

func registerStatusTools(server *mcp.Server, d domain.Dispatcher) {
	mcp.AddTool(server, domain.GetStatusTool(), domain.GetStatusHandler(d))
	mcp.AddTool(server, domain.RecentOperationsTool(), domain.RecentOperationsHandler(d))
}

// registerResources registers the readable bridge MCP resources.
func registerResources(server *mcp.Server, d domain.Dispatcher) {
	server.AddResource(domain.StatusResource(), domain.StatusResourceHandler(d))
	server.AddResource(domain.ProjectResource(), domain.ProjectResourceHandler(d))
	server.AddResource(domain.TimelineResource(), domain.TimelineResourceHandler(d))
	server.AddResource(domain.MediaPoolResource(), domain.MediaPoolResourceHandler(d))
}
