// Package host defines the capability-typed scripting interface the bridge
// calls into. The host owns every object behind these interfaces; the bridge
// borrows handles for the duration of one operation and must re-resolve
// "current" entities on every use. Implementations: shim (production socket
// client) and simhost (in-memory simulation for tests and development).
package host

import (
	"context"
	"errors"
)

// Page identifies one of the host's top-level pages.
type Page string

const (
	PageMedia     Page = "media"
	PageEdit      Page = "edit"
	PageFusion    Page = "fusion"
	PageColor     Page = "color"
	PageFairlight Page = "fairlight"
	PageDeliver   Page = "deliver"
)

// Pages lists every valid page in host order.
var Pages = []Page{PageMedia, PageEdit, PageFusion, PageColor, PageFairlight, PageDeliver}

// ValidPage reports whether name is a known page.
func ValidPage(name string) bool {
	for _, p := range Pages {
		if string(p) == name {
			return true
		}
	}
	return false
}

// TrackKind identifies a timeline track type.
type TrackKind string

const (
	TrackVideo    TrackKind = "video"
	TrackAudio    TrackKind = "audio"
	TrackSubtitle TrackKind = "subtitle"
)

// ValidTrackKind reports whether kind names a known track type.
func ValidTrackKind(kind string) bool {
	switch TrackKind(kind) {
	case TrackVideo, TrackAudio, TrackSubtitle:
		return true
	}
	return false
}

// VersionKind identifies a clip version stack.
type VersionKind string

const (
	VersionColor  VersionKind = "color"
	VersionFusion VersionKind = "fusion"
)

// ValidVersionKind reports whether kind names a known version stack.
func ValidVersionKind(kind string) bool {
	switch VersionKind(kind) {
	case VersionColor, VersionFusion:
		return true
	}
	return false
}

// Sentinel errors implementations use to signal conditions the adapters must
// distinguish. Anything else is treated as an unexpected host fault.
var (
	// ErrUnavailable indicates the host connection is down or unresponsive.
	ErrUnavailable = errors.New("host unavailable")
	// ErrStale indicates a borrowed handle no longer resolves in the host.
	ErrStale = errors.New("stale host handle")
	// ErrUnsupported indicates the capability is absent in this host
	// version or edition.
	ErrUnsupported = errors.New("unsupported by host")
	// ErrUnknownProperty indicates a clip property this host edition does
	// not expose.
	ErrUnknownProperty = errors.New("unknown clip property")
)

// Conn is the root of the host object graph: one live scripting connection.
type Conn interface {
	// Ping verifies the scripting endpoint is responsive.
	Ping(ctx context.Context) error
	ProjectManager(ctx context.Context) (ProjectManager, error)
	MediaStorage(ctx context.Context) (MediaStorage, error)
	Fusion(ctx context.Context) (Fusion, error)
	CurrentPage(ctx context.Context) (Page, error)
	OpenPage(ctx context.Context, page Page) error
	Play(ctx context.Context) error
	Stop(ctx context.Context) error
	CurrentTimecode(ctx context.Context) (string, error)
	Close() error
}

// ProjectManager manages the host's project database.
type ProjectManager interface {
	// CurrentProject returns the open project, or ErrStale if none is open.
	CurrentProject(ctx context.Context) (Project, error)
	// ProjectNames lists projects in the current database folder.
	ProjectNames(ctx context.Context) ([]string, error)
	// CreateProject creates and opens a project. The host returns nothing
	// on a duplicate name, so callers must check ProjectNames first to
	// report the collision distinctly.
	CreateProject(ctx context.Context, name string) (Project, error)
	// LoadProject opens an existing project by name, or ErrStale when the
	// name does not resolve.
	LoadProject(ctx context.Context, name string) (Project, error)
	ExportProject(ctx context.Context, name, path string) (bool, error)
	ImportProject(ctx context.Context, path string) (bool, error)
}

// Project is one open host project.
type Project interface {
	Name(ctx context.Context) (string, error)
	Save(ctx context.Context) (bool, error)
	TimelineCount(ctx context.Context) (int, error)
	// TimelineByIndex returns the 1-based timeline, or ErrStale when the
	// index is out of range.
	TimelineByIndex(ctx context.Context, index int) (Timeline, error)
	CurrentTimeline(ctx context.Context) (Timeline, error)
	SetCurrentTimeline(ctx context.Context, timeline Timeline) (bool, error)
	MediaPool(ctx context.Context) (MediaPool, error)
	Gallery(ctx context.Context) (Gallery, error)
	Settings(ctx context.Context) (map[string]string, error)
	SetSetting(ctx context.Context, key, value string) (bool, error)
	LoadRenderPreset(ctx context.Context, name string) (bool, error)
	SetRenderSettings(ctx context.Context, settings map[string]any) (bool, error)
	StartRendering(ctx context.Context) (bool, error)
	IsRenderingInProgress(ctx context.Context) (bool, error)
	RenderingProgress(ctx context.Context) (int, error)
}

// Timeline is one timeline within a project.
type Timeline interface {
	Name(ctx context.Context) (string, error)
	StartFrame(ctx context.Context) (int, error)
	EndFrame(ctx context.Context) (int, error)
	TrackCount(ctx context.Context, kind TrackKind) (int, error)
	AddTrack(ctx context.Context, kind TrackKind) (bool, error)
	SetTrackName(ctx context.Context, kind TrackKind, index int, name string) (bool, error)
	SetTrackEnabled(ctx context.Context, kind TrackKind, index int, enabled bool) (bool, error)
	SetTrackVolume(ctx context.Context, index int, volume float64) (bool, error)
	AddMarker(ctx context.Context, frame int, color, name, note string, duration int) (bool, error)
	ItemsInTrack(ctx context.Context, kind TrackKind, index int) ([]Clip, error)
	// CurrentVideoItem returns the clip under the playhead on the color
	// page, or ErrStale when none is current.
	CurrentVideoItem(ctx context.Context) (Clip, error)
	TimecodeFromFrame(ctx context.Context, frame int) (string, error)
	SetCurrentTimecode(ctx context.Context, timecode string) (bool, error)
}

// MediaPool is the per-project clip catalog.
type MediaPool interface {
	RootFolder(ctx context.Context) (Folder, error)
	CurrentFolder(ctx context.Context) (Folder, error)
	AddSubFolder(ctx context.Context, parent Folder, name string) (Folder, error)
	CreateEmptyTimeline(ctx context.Context, name string) (Timeline, error)
	CreateTimelineFromClips(ctx context.Context, name string, clips []Clip) (Timeline, error)
	ImportTimelineFromFile(ctx context.Context, path string) (Timeline, error)
	AppendToTimeline(ctx context.Context, clips []Clip) (bool, error)
}

// MediaStorage is the host-wide view of mounted volumes and source files.
type MediaStorage interface {
	MountedVolumes(ctx context.Context) ([]string, error)
	SubFolders(ctx context.Context, path string) ([]string, error)
	Files(ctx context.Context, path string) ([]string, error)
	AddItemsToMediaPool(ctx context.Context, paths []string) ([]Clip, error)
}

// Folder is one media pool folder.
type Folder interface {
	Name(ctx context.Context) (string, error)
	ClipNames(ctx context.Context) ([]string, error)
	Clips(ctx context.Context) ([]Clip, error)
	SubFolderNames(ctx context.Context) ([]string, error)
}

// Clip is a media pool item or timeline item.
type Clip interface {
	Name(ctx context.Context) (string, error)
	Metadata(ctx context.Context) (map[string]string, error)
	// Property returns a clip property value, or ErrUnknownProperty when
	// this host edition does not expose the property.
	Property(ctx context.Context, name string) (any, error)
	SetProperty(ctx context.Context, name string, value any) error
	AudioVolume(ctx context.Context) (float64, error)
	SetAudioVolume(ctx context.Context, volume float64) (bool, error)
	ColorGraph(ctx context.Context) (ColorGraph, error)
	SaveAsStill(ctx context.Context, album Album) (Still, error)
	ApplyGradeFromStill(ctx context.Context, still Still) (bool, error)
	VersionCount(ctx context.Context, kind VersionKind) (int, error)
	SetCurrentVersion(ctx context.Context, index int, kind VersionKind) (bool, error)
}

// Fusion is the host's compositing and script-execution surface.
type Fusion interface {
	// CurrentComp returns the active composition, or ErrStale when none.
	CurrentComp(ctx context.Context) (Comp, error)
	// ExecuteLua runs source in the host's Lua environment and returns its
	// textual result. Execution faults come back as errors, not results.
	ExecuteLua(ctx context.Context, source string) (string, error)
	// ExecutePython runs source in the host's Python environment; hosts
	// without embedded Python return ErrUnsupported.
	ExecutePython(ctx context.Context, source string) (string, error)
}

// Comp is one Fusion composition.
type Comp interface {
	Name(ctx context.Context) (string, error)
	// AddTool creates a node of nodeType at flow coordinates (x, y).
	AddTool(ctx context.Context, nodeType string, x, y int) (Node, error)
}

// Node is one Fusion node.
type Node interface {
	Name(ctx context.Context) (string, error)
	SetInput(ctx context.Context, key string, value any) error
	// ConnectInput wires this node's named input to from's primary output.
	ConnectInput(ctx context.Context, key string, from Node) error
}

// ColorGraph is the node graph of one clip's color grade.
type ColorGraph interface {
	NodeLabels(ctx context.Context) ([]string, error)
	AddNode(ctx context.Context, nodeType string) (string, error)
}

// Gallery stores grading stills grouped into albums.
type Gallery interface {
	Albums(ctx context.Context) ([]Album, error)
	// Album looks up an album by name; ok is false when absent.
	Album(ctx context.Context, name string) (album Album, ok bool, err error)
	CreateAlbum(ctx context.Context, name string) (Album, error)
}

// Album is one gallery album.
type Album interface {
	Name(ctx context.Context) (string, error)
	StillLabels(ctx context.Context) ([]string, error)
	// Still looks up a still by label; ok is false when absent.
	Still(ctx context.Context, label string) (still Still, ok bool, err error)
}

// Still is one saved grade in a gallery album.
type Still interface {
	Label(ctx context.Context) (string, error)
}
