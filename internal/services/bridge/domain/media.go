package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ImportMediaInput represents the MCP tool input for media import.
type ImportMediaInput struct {
	Paths []string `json:"paths" jsonschema:"source file paths"`
}

// CreateFolderInput represents the MCP tool input for media pool folders.
type CreateFolderInput struct {
	Name string `json:"name" jsonschema:"folder name"`
}

// ListFolderInput represents the MCP tool input for listing a folder.
type ListFolderInput struct {
	Folder string `json:"folder,omitempty" jsonschema:"which folder to list (current, root); defaults to current"`
}

// GetClipMetadataInput represents the MCP tool input for clip metadata.
type GetClipMetadataInput struct {
	Clip string `json:"clip" jsonschema:"clip name"`
}

// ListStorageFilesInput represents the MCP tool input for browsing storage.
type ListStorageFilesInput struct {
	Path string `json:"path" jsonschema:"storage path"`
}

func ImportMediaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "import_media",
		Description: "Import files from media storage into the media pool.",
	}
}

func ImportMediaHandler(d Dispatcher) mcp.ToolHandlerFor[ImportMediaInput, any] {
	return runTool[ImportMediaInput](d, "import_media")
}

func CreateFolderTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_folder",
		Description: "Create a subfolder in the current media pool folder.",
	}
}

func CreateFolderHandler(d Dispatcher) mcp.ToolHandlerFor[CreateFolderInput, any] {
	return runTool[CreateFolderInput](d, "create_folder")
}

func ListFolderTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_folder",
		Description: "List clips and subfolders of a media pool folder.",
	}
}

func ListFolderHandler(d Dispatcher) mcp.ToolHandlerFor[ListFolderInput, any] {
	return runTool[ListFolderInput](d, "list_folder")
}

func GetClipMetadataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_clip_metadata",
		Description: "Read a media pool clip's metadata.",
	}
}

func GetClipMetadataHandler(d Dispatcher) mcp.ToolHandlerFor[GetClipMetadataInput, any] {
	return runTool[GetClipMetadataInput](d, "get_clip_metadata")
}

func ListMountedVolumesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_mounted_volumes",
		Description: "List media storage volumes.",
	}
}

func ListMountedVolumesHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "list_mounted_volumes")
}

func ListStorageFilesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_storage_files",
		Description: "List files and subfolders at a media storage path.",
	}
}

func ListStorageFilesHandler(d Dispatcher) mcp.ToolHandlerFor[ListStorageFilesInput, any] {
	return runTool[ListStorageFilesInput](d, "list_storage_files")
}
