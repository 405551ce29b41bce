package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusResource describes the readable bridge status resource.
func StatusResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "bridge_status",
		Title:       "Bridge Status",
		Description: "Host connectivity plus the current project, timeline, and page",
		MIMEType:    "application/json",
		URI:         "bridge://status",
	}
}

// StatusResourceHandler returns the bridge status as a readable resource.
func StatusResourceHandler(d Dispatcher) mcp.ResourceHandler {
	return readOnlyResource(d, StatusResource().URI, "get_status")
}

// ProjectResource describes the readable current-project resource.
func ProjectResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "project_current",
		Title:       "Current Project",
		Description: "Name and timelines of the project the session points at",
		MIMEType:    "application/json",
		URI:         "project://current",
	}
}

// ProjectResourceHandler returns the current project as a readable resource.
func ProjectResourceHandler(d Dispatcher) mcp.ResourceHandler {
	return readOnlyResource(d, ProjectResource().URI, "get_project_info")
}

// TimelineResource describes the readable current-timeline resource.
func TimelineResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "timeline_current",
		Title:       "Current Timeline",
		Description: "Frame range and track counts of the current timeline",
		MIMEType:    "application/json",
		URI:         "timeline://current",
	}
}

// TimelineResourceHandler returns the current timeline as a readable resource.
func TimelineResourceHandler(d Dispatcher) mcp.ResourceHandler {
	return readOnlyResource(d, TimelineResource().URI, "get_timeline_info")
}

// MediaPoolResource describes the readable current-folder resource.
func MediaPoolResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "mediapool_current",
		Title:       "Media Pool Folder",
		Description: "Clips and subfolders of the current media pool folder",
		MIMEType:    "application/json",
		URI:         "mediapool://current",
	}
}

// MediaPoolResourceHandler returns the current media pool folder as a
// readable resource.
func MediaPoolResourceHandler(d Dispatcher) mcp.ResourceHandler {
	return readOnlyResource(d, MediaPoolResource().URI, "list_folder")
}

// readOnlyResource serves a resource URI by dispatching a read-only
// operation with no arguments. A failed outcome becomes a read error so
// clients see the kind instead of a partial payload.
func readOnlyResource(d Dispatcher, uri, operation string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if d == nil {
			return nil, fmt.Errorf("dispatcher is not configured")
		}
		requested := uri
		if req != nil && req.Params != nil && req.Params.URI != "" {
			requested = req.Params.URI
		}
		if requested != uri {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", uri, requested)
		}

		out := d.Dispatch(ctx, operation, nil)
		if !out.Success() {
			return nil, fmt.Errorf("read %s: %s: %s", uri, out.Kind, out.Detail)
		}
		data, err := json.MarshalIndent(out.Value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", uri, err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
