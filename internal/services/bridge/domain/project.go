package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// CreateProjectInput represents the MCP tool input for project creation.
type CreateProjectInput struct {
	Name string `json:"name" jsonschema:"project name"`
}

// LoadProjectInput represents the MCP tool input for opening a project.
type LoadProjectInput struct {
	Name string `json:"name" jsonschema:"project name"`
}

// ExportProjectInput represents the MCP tool input for project export.
type ExportProjectInput struct {
	Name string `json:"name" jsonschema:"project name"`
	Path string `json:"path" jsonschema:"destination file path"`
}

// ImportProjectInput represents the MCP tool input for project import.
type ImportProjectInput struct {
	Path string `json:"path" jsonschema:"project archive path"`
}

// GetProjectSettingInput represents the MCP tool input for reading settings.
type GetProjectSettingInput struct {
	Key string `json:"key,omitempty" jsonschema:"setting key; omit for all settings"`
}

// SetProjectSettingInput represents the MCP tool input for writing a setting.
type SetProjectSettingInput struct {
	Key   string `json:"key" jsonschema:"setting key"`
	Value string `json:"value" jsonschema:"setting value"`
}

func CreateProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_project",
		Description: "Create a new project and make it current.",
	}
}

func CreateProjectHandler(d Dispatcher) mcp.ToolHandlerFor[CreateProjectInput, any] {
	return runTool[CreateProjectInput](d, "create_project")
}

func LoadProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "load_project",
		Description: "Open an existing project by name.",
	}
}

func LoadProjectHandler(d Dispatcher) mcp.ToolHandlerFor[LoadProjectInput, any] {
	return runTool[LoadProjectInput](d, "load_project")
}

func SaveProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "save_project",
		Description: "Save the current project.",
	}
}

func SaveProjectHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "save_project")
}

func ExportProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "export_project",
		Description: "Export a project to a file.",
	}
}

func ExportProjectHandler(d Dispatcher) mcp.ToolHandlerFor[ExportProjectInput, any] {
	return runTool[ExportProjectInput](d, "export_project")
}

func ImportProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "import_project",
		Description: "Import a project from a file.",
	}
}

func ImportProjectHandler(d Dispatcher) mcp.ToolHandlerFor[ImportProjectInput, any] {
	return runTool[ImportProjectInput](d, "import_project")
}

func GetProjectInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_project_info",
		Description: "Report the current project's name and timelines.",
	}
}

func GetProjectInfoHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_project_info")
}

func GetProjectSettingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_project_setting",
		Description: "Read a project setting, or all settings.",
	}
}

func GetProjectSettingHandler(d Dispatcher) mcp.ToolHandlerFor[GetProjectSettingInput, any] {
	return runTool[GetProjectSettingInput](d, "get_project_setting")
}

func SetProjectSettingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_project_setting",
		Description: "Write one project setting.",
	}
}

func SetProjectSettingHandler(d Dispatcher) mcp.ToolHandlerFor[SetProjectSettingInput, any] {
	return runTool[SetProjectSettingInput](d, "set_project_setting")
}
