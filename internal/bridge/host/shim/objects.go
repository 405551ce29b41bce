package shim

import (
	"context"
	"fmt"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

// Object wrappers. Each holds a shim handle; methods delegate to the typed
// call helpers on Client. Shim methods mirror the host scripting API names.

type projectManager struct {
	c *Client
	h uint64
}

func (pm *projectManager) CurrentProject(ctx context.Context) (host.Project, error) {
	h, err := pm.c.callHandle(ctx, pm.h, "GetCurrentProject")
	if err != nil {
		return nil, err
	}
	return &project{c: pm.c, h: h}, nil
}

func (pm *projectManager) ProjectNames(ctx context.Context) ([]string, error) {
	return pm.c.callStrings(ctx, pm.h, "GetProjectListInCurrentFolder")
}

func (pm *projectManager) CreateProject(ctx context.Context, name string) (host.Project, error) {
	h, err := pm.c.callHandle(ctx, pm.h, "CreateProject", name)
	if err != nil {
		return nil, err
	}
	return &project{c: pm.c, h: h}, nil
}

func (pm *projectManager) LoadProject(ctx context.Context, name string) (host.Project, error) {
	h, err := pm.c.callHandle(ctx, pm.h, "LoadProject", name)
	if err != nil {
		return nil, err
	}
	return &project{c: pm.c, h: h}, nil
}

func (pm *projectManager) ExportProject(ctx context.Context, name, path string) (bool, error) {
	return pm.c.callBool(ctx, pm.h, "ExportProject", name, path)
}

func (pm *projectManager) ImportProject(ctx context.Context, path string) (bool, error) {
	return pm.c.callBool(ctx, pm.h, "ImportProject", path)
}

type project struct {
	c *Client
	h uint64
}

func (p *project) Name(ctx context.Context) (string, error) {
	return p.c.callString(ctx, p.h, "GetName")
}

func (p *project) Save(ctx context.Context) (bool, error) {
	return p.c.callBool(ctx, p.h, "SaveProject")
}

func (p *project) TimelineCount(ctx context.Context) (int, error) {
	return p.c.callInt(ctx, p.h, "GetTimelineCount")
}

func (p *project) TimelineByIndex(ctx context.Context, index int) (host.Timeline, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetTimelineByIndex", index)
	if err != nil {
		return nil, err
	}
	return &timeline{c: p.c, h: h}, nil
}

func (p *project) CurrentTimeline(ctx context.Context) (host.Timeline, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetCurrentTimeline")
	if err != nil {
		return nil, err
	}
	return &timeline{c: p.c, h: h}, nil
}

func (p *project) SetCurrentTimeline(ctx context.Context, tl host.Timeline) (bool, error) {
	h, err := handleOf(tl)
	if err != nil {
		return false, err
	}
	return p.c.callBool(ctx, p.h, "SetCurrentTimeline", h)
}

func (p *project) MediaPool(ctx context.Context) (host.MediaPool, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetMediaPool")
	if err != nil {
		return nil, err
	}
	return &mediaPool{c: p.c, h: h}, nil
}

func (p *project) Gallery(ctx context.Context) (host.Gallery, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetGallery")
	if err != nil {
		return nil, err
	}
	return &gallery{c: p.c, h: h}, nil
}

func (p *project) Settings(ctx context.Context) (map[string]string, error) {
	return p.c.callStringMap(ctx, p.h, "GetSetting")
}

func (p *project) SetSetting(ctx context.Context, key, value string) (bool, error) {
	return p.c.callBool(ctx, p.h, "SetSetting", key, value)
}

func (p *project) LoadRenderPreset(ctx context.Context, name string) (bool, error) {
	return p.c.callBool(ctx, p.h, "LoadRenderPreset", name)
}

func (p *project) SetRenderSettings(ctx context.Context, settings map[string]any) (bool, error) {
	return p.c.callBool(ctx, p.h, "SetRenderSettings", settings)
}

func (p *project) StartRendering(ctx context.Context) (bool, error) {
	return p.c.callBool(ctx, p.h, "StartRendering")
}

func (p *project) IsRenderingInProgress(ctx context.Context) (bool, error) {
	return p.c.callBool(ctx, p.h, "IsRenderingInProgress")
}

func (p *project) RenderingProgress(ctx context.Context) (int, error) {
	return p.c.callInt(ctx, p.h, "GetRenderingProgress")
}

type timeline struct {
	c *Client
	h uint64
}

func (t *timeline) Name(ctx context.Context) (string, error) {
	return t.c.callString(ctx, t.h, "GetName")
}

func (t *timeline) StartFrame(ctx context.Context) (int, error) {
	return t.c.callInt(ctx, t.h, "GetStartFrame")
}

func (t *timeline) EndFrame(ctx context.Context) (int, error) {
	return t.c.callInt(ctx, t.h, "GetEndFrame")
}

func (t *timeline) TrackCount(ctx context.Context, kind host.TrackKind) (int, error) {
	return t.c.callInt(ctx, t.h, "GetTrackCount", string(kind))
}

func (t *timeline) AddTrack(ctx context.Context, kind host.TrackKind) (bool, error) {
	return t.c.callBool(ctx, t.h, "AddTrack", string(kind))
}

func (t *timeline) SetTrackName(ctx context.Context, kind host.TrackKind, index int, name string) (bool, error) {
	return t.c.callBool(ctx, t.h, "SetTrackName", string(kind), index, name)
}

func (t *timeline) SetTrackEnabled(ctx context.Context, kind host.TrackKind, index int, enabled bool) (bool, error) {
	return t.c.callBool(ctx, t.h, "SetTrackEnable", string(kind), index, enabled)
}

func (t *timeline) SetTrackVolume(ctx context.Context, index int, volume float64) (bool, error) {
	return t.c.callBool(ctx, t.h, "SetTrackVolume", "audio", index, volume)
}

func (t *timeline) AddMarker(ctx context.Context, frame int, color, name, note string, duration int) (bool, error) {
	return t.c.callBool(ctx, t.h, "AddMarker", frame, color, name, note, duration)
}

func (t *timeline) ItemsInTrack(ctx context.Context, kind host.TrackKind, index int) ([]host.Clip, error) {
	handles, err := t.c.callHandles(ctx, t.h, "GetItemListInTrack", string(kind), index)
	if err != nil {
		return nil, err
	}
	return wrapClips(t.c, handles), nil
}

func (t *timeline) CurrentVideoItem(ctx context.Context) (host.Clip, error) {
	h, err := t.c.callHandle(ctx, t.h, "GetCurrentVideoItem")
	if err != nil {
		return nil, err
	}
	return &clip{c: t.c, h: h}, nil
}

func (t *timeline) TimecodeFromFrame(ctx context.Context, frame int) (string, error) {
	return t.c.callString(ctx, t.h, "GetTimecodeFromFrame", frame)
}

func (t *timeline) SetCurrentTimecode(ctx context.Context, timecode string) (bool, error) {
	return t.c.callBool(ctx, t.h, "SetCurrentTimecode", timecode)
}

type mediaPool struct {
	c *Client
	h uint64
}

func (mp *mediaPool) RootFolder(ctx context.Context) (host.Folder, error) {
	h, err := mp.c.callHandle(ctx, mp.h, "GetRootFolder")
	if err != nil {
		return nil, err
	}
	return &folder{c: mp.c, h: h}, nil
}

func (mp *mediaPool) CurrentFolder(ctx context.Context) (host.Folder, error) {
	h, err := mp.c.callHandle(ctx, mp.h, "GetCurrentFolder")
	if err != nil {
		return nil, err
	}
	return &folder{c: mp.c, h: h}, nil
}

func (mp *mediaPool) AddSubFolder(ctx context.Context, parent host.Folder, name string) (host.Folder, error) {
	parentHandle, err := handleOf(parent)
	if err != nil {
		return nil, err
	}
	h, err := mp.c.callHandle(ctx, mp.h, "AddSubFolder", parentHandle, name)
	if err != nil {
		return nil, err
	}
	return &folder{c: mp.c, h: h}, nil
}

func (mp *mediaPool) CreateEmptyTimeline(ctx context.Context, name string) (host.Timeline, error) {
	h, err := mp.c.callHandle(ctx, mp.h, "CreateEmptyTimeline", name)
	if err != nil {
		return nil, err
	}
	return &timeline{c: mp.c, h: h}, nil
}

func (mp *mediaPool) CreateTimelineFromClips(ctx context.Context, name string, clips []host.Clip) (host.Timeline, error) {
	handles, err := handlesOf(clips)
	if err != nil {
		return nil, err
	}
	h, err := mp.c.callHandle(ctx, mp.h, "CreateTimelineFromClips", name, handles)
	if err != nil {
		return nil, err
	}
	return &timeline{c: mp.c, h: h}, nil
}

func (mp *mediaPool) ImportTimelineFromFile(ctx context.Context, path string) (host.Timeline, error) {
	h, err := mp.c.callHandle(ctx, mp.h, "ImportTimelineFromFile", path)
	if err != nil {
		return nil, err
	}
	return &timeline{c: mp.c, h: h}, nil
}

func (mp *mediaPool) AppendToTimeline(ctx context.Context, clips []host.Clip) (bool, error) {
	handles, err := handlesOf(clips)
	if err != nil {
		return false, err
	}
	return mp.c.callBool(ctx, mp.h, "AppendToTimeline", handles)
}

type mediaStorage struct {
	c *Client
	h uint64
}

func (ms *mediaStorage) MountedVolumes(ctx context.Context) ([]string, error) {
	return ms.c.callStrings(ctx, ms.h, "GetMountedVolumes")
}

func (ms *mediaStorage) SubFolders(ctx context.Context, path string) ([]string, error) {
	return ms.c.callStrings(ctx, ms.h, "GetSubFolders", path)
}

func (ms *mediaStorage) Files(ctx context.Context, path string) ([]string, error) {
	return ms.c.callStrings(ctx, ms.h, "GetFiles", path)
}

func (ms *mediaStorage) AddItemsToMediaPool(ctx context.Context, paths []string) ([]host.Clip, error) {
	handles, err := ms.c.callHandles(ctx, ms.h, "AddItemsToMediaPool", paths)
	if err != nil {
		return nil, err
	}
	return wrapClips(ms.c, handles), nil
}

type folder struct {
	c *Client
	h uint64
}

func (f *folder) Name(ctx context.Context) (string, error) {
	return f.c.callString(ctx, f.h, "GetName")
}

func (f *folder) ClipNames(ctx context.Context) ([]string, error) {
	return f.c.callStrings(ctx, f.h, "GetClipNames")
}

func (f *folder) Clips(ctx context.Context) ([]host.Clip, error) {
	handles, err := f.c.callHandles(ctx, f.h, "GetClips")
	if err != nil {
		return nil, err
	}
	return wrapClips(f.c, handles), nil
}

func (f *folder) SubFolderNames(ctx context.Context) ([]string, error) {
	return f.c.callStrings(ctx, f.h, "GetSubFolderNames")
}

type clip struct {
	c *Client
	h uint64
}

func (cl *clip) Name(ctx context.Context) (string, error) {
	return cl.c.callString(ctx, cl.h, "GetName")
}

func (cl *clip) Metadata(ctx context.Context) (map[string]string, error) {
	return cl.c.callStringMap(ctx, cl.h, "GetMetadata")
}

func (cl *clip) Property(ctx context.Context, name string) (any, error) {
	return cl.c.call(ctx, cl.h, "GetProperty", name)
}

func (cl *clip) SetProperty(ctx context.Context, name string, value any) error {
	_, err := cl.c.call(ctx, cl.h, "SetProperty", name, value)
	return err
}

func (cl *clip) AudioVolume(ctx context.Context) (float64, error) {
	return cl.c.callFloat(ctx, cl.h, "GetAudioVolume")
}

func (cl *clip) SetAudioVolume(ctx context.Context, volume float64) (bool, error) {
	return cl.c.callBool(ctx, cl.h, "SetAudioVolume", volume)
}

func (cl *clip) ColorGraph(ctx context.Context) (host.ColorGraph, error) {
	h, err := cl.c.callHandle(ctx, cl.h, "GetNodeGraph")
	if err != nil {
		return nil, err
	}
	return &colorGraph{c: cl.c, h: h}, nil
}

func (cl *clip) SaveAsStill(ctx context.Context, album host.Album) (host.Still, error) {
	albumHandle, err := handleOf(album)
	if err != nil {
		return nil, err
	}
	h, err := cl.c.callHandle(ctx, cl.h, "SaveAsStill", albumHandle)
	if err != nil {
		return nil, err
	}
	return &still{c: cl.c, h: h}, nil
}

func (cl *clip) ApplyGradeFromStill(ctx context.Context, s host.Still) (bool, error) {
	stillHandle, err := handleOf(s)
	if err != nil {
		return false, err
	}
	return cl.c.callBool(ctx, cl.h, "ApplyGradeFromStill", stillHandle)
}

func (cl *clip) VersionCount(ctx context.Context, kind host.VersionKind) (int, error) {
	return cl.c.callInt(ctx, cl.h, "GetVersionCount", string(kind))
}

func (cl *clip) SetCurrentVersion(ctx context.Context, index int, kind host.VersionKind) (bool, error) {
	return cl.c.callBool(ctx, cl.h, "SetCurrentVersion", index, string(kind))
}

type fusion struct {
	c *Client
	h uint64
}

func (f *fusion) CurrentComp(ctx context.Context) (host.Comp, error) {
	h, err := f.c.callHandle(ctx, f.h, "GetCurrentComp")
	if err != nil {
		return nil, err
	}
	return &comp{c: f.c, h: h}, nil
}

func (f *fusion) ExecuteLua(ctx context.Context, source string) (string, error) {
	return f.c.callString(ctx, f.h, "Execute", source)
}

func (f *fusion) ExecutePython(ctx context.Context, source string) (string, error) {
	return f.c.callString(ctx, f.h, "ExecutePython", source)
}

type comp struct {
	c *Client
	h uint64
}

func (co *comp) Name(ctx context.Context) (string, error) {
	return co.c.callString(ctx, co.h, "GetName")
}

func (co *comp) AddTool(ctx context.Context, nodeType string, x, y int) (host.Node, error) {
	h, err := co.c.callHandle(ctx, co.h, "AddTool", nodeType, x, y)
	if err != nil {
		return nil, err
	}
	return &node{c: co.c, h: h}, nil
}

type node struct {
	c *Client
	h uint64
}

func (n *node) Name(ctx context.Context) (string, error) {
	return n.c.callString(ctx, n.h, "GetName")
}

func (n *node) SetInput(ctx context.Context, key string, value any) error {
	_, err := n.c.call(ctx, n.h, "SetInput", key, value)
	return err
}

func (n *node) ConnectInput(ctx context.Context, key string, from host.Node) error {
	fromHandle, err := handleOf(from)
	if err != nil {
		return err
	}
	_, err = n.c.call(ctx, n.h, "ConnectInput", key, fromHandle)
	return err
}

type colorGraph struct {
	c *Client
	h uint64
}

func (g *colorGraph) NodeLabels(ctx context.Context) ([]string, error) {
	return g.c.callStrings(ctx, g.h, "GetNodeList")
}

func (g *colorGraph) AddNode(ctx context.Context, nodeType string) (string, error) {
	return g.c.callString(ctx, g.h, "AddNode", nodeType)
}

type gallery struct {
	c *Client
	h uint64
}

func (ga *gallery) Albums(ctx context.Context) ([]host.Album, error) {
	handles, err := ga.c.callHandles(ctx, ga.h, "GetGalleryAlbumList")
	if err != nil {
		return nil, err
	}
	albums := make([]host.Album, 0, len(handles))
	for _, h := range handles {
		albums = append(albums, &album{c: ga.c, h: h})
	}
	return albums, nil
}

func (ga *gallery) Album(ctx context.Context, name string) (host.Album, bool, error) {
	result, err := ga.c.call(ctx, ga.h, "GetAlbum", name)
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	h, ok := asUint(result)
	if !ok {
		return nil, false, fmt.Errorf("host fault in GetAlbum: result %T is not a handle", result)
	}
	return &album{c: ga.c, h: h}, true, nil
}

func (ga *gallery) CreateAlbum(ctx context.Context, name string) (host.Album, error) {
	h, err := ga.c.callHandle(ctx, ga.h, "CreateEmptyAlbum", name)
	if err != nil {
		return nil, err
	}
	return &album{c: ga.c, h: h}, nil
}

type album struct {
	c *Client
	h uint64
}

func (a *album) Name(ctx context.Context) (string, error) {
	return a.c.callString(ctx, a.h, "GetName")
}

func (a *album) StillLabels(ctx context.Context) ([]string, error) {
	return a.c.callStrings(ctx, a.h, "GetStillLabels")
}

func (a *album) Still(ctx context.Context, label string) (host.Still, bool, error) {
	result, err := a.c.call(ctx, a.h, "GetStill", label)
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	h, ok := asUint(result)
	if !ok {
		return nil, false, fmt.Errorf("host fault in GetStill: result %T is not a handle", result)
	}
	return &still{c: a.c, h: h}, true, nil
}

type still struct {
	c *Client
	h uint64
}

func (s *still) Label(ctx context.Context) (string, error) {
	return s.c.callString(ctx, s.h, "GetLabel")
}

// handleOf extracts the shim handle from an object created by this package.
// Objects from another backend cannot cross the shim boundary.
func handleOf(obj any) (uint64, error) {
	switch o := obj.(type) {
	case *project:
		return o.h, nil
	case *timeline:
		return o.h, nil
	case *folder:
		return o.h, nil
	case *clip:
		return o.h, nil
	case *node:
		return o.h, nil
	case *album:
		return o.h, nil
	case *still:
		return o.h, nil
	case nil:
		return 0, fmt.Errorf("host object is nil")
	default:
		return 0, fmt.Errorf("object %T does not belong to this host connection", obj)
	}
}

func handlesOf(clips []host.Clip) ([]uint64, error) {
	handles := make([]uint64, 0, len(clips))
	for _, cl := range clips {
		h, err := handleOf(cl)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func wrapClips(c *Client, handles []uint64) []host.Clip {
	clips := make([]host.Clip, 0, len(handles))
	for _, h := range handles {
		clips = append(clips, &clip{c: c, h: h})
	}
	return clips
}
