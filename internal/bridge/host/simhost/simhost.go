// Package simhost implements the full host capability surface in memory.
// It backs the bridge's tests and the RESOLVE_BRIDGE_HOST_ADDR=sim
// development mode; ExecuteLua runs against an embedded Lua state wired to
// the simulated object graph so script passthrough is observable.
package simhost

import (
	"context"
	"fmt"
	"sync"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

// Fail holds injectable faults. Tests set a hook to make the corresponding
// host call fail; a nil hook means the call succeeds normally.
type Fail struct {
	AddTool            func(nodeType string) error
	SetCurrentTimeline func(name string) error
	StartRendering     func() error
}

// Host is one simulated host application. All state lives behind a single
// mutex; the simulation never blocks, so coarse locking is fine.
type Host struct {
	mu     sync.Mutex
	closed bool

	projects     map[string]*project
	projectOrder []string
	current      *project

	page     host.Page
	playing  bool
	timecode string

	volumes     []string
	storageDirs map[string][]string
	storageFile map[string][]string

	comp *comp

	// Fail injects host faults for tests.
	Fail Fail
}

// New creates a simulated host with an empty project database, the edit
// page active, and one mounted volume carrying a couple of source files.
func New() *Host {
	return &Host{
		projects:    make(map[string]*project),
		page:        host.PageEdit,
		timecode:    "01:00:00:00",
		volumes:     []string{"/Volumes/Media"},
		storageDirs: map[string][]string{"/Volumes/Media": {"Day01"}},
		storageFile: map[string][]string{"/Volumes/Media": {"A001.mov", "A002.mov"}},
	}
}

// Ping reports whether the simulated host is still up.
func (h *Host) Ping(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%w: simulated host closed", host.ErrUnavailable)
	}
	return nil
}

// ProjectManager returns the simulated project manager.
func (h *Host) ProjectManager(context.Context) (host.ProjectManager, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return &projectManager{h: h}, nil
}

// MediaStorage returns the simulated media storage.
func (h *Host) MediaStorage(context.Context) (host.MediaStorage, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return &mediaStorage{h: h}, nil
}

// Fusion returns the simulated compositing surface.
func (h *Host) Fusion(context.Context) (host.Fusion, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return &fusion{h: h}, nil
}

// CurrentPage reports the active page.
func (h *Host) CurrentPage(context.Context) (host.Page, error) {
	if err := h.check(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page, nil
}

// OpenPage switches the active page. Switching to the already-active page
// is a no-op, matching the host.
func (h *Host) OpenPage(_ context.Context, page host.Page) error {
	if err := h.check(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.page = page
	return nil
}

// Play starts playback.
func (h *Host) Play(context.Context) error {
	if err := h.check(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = true
	return nil
}

// Stop stops playback.
func (h *Host) Stop(context.Context) error {
	if err := h.check(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
	return nil
}

// Playing reports playback state; tests use it to observe Play/Stop.
func (h *Host) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// CurrentTimecode reports the playhead timecode.
func (h *Host) CurrentTimecode(context.Context) (string, error) {
	if err := h.check(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timecode, nil
}

// Close marks the host as gone; subsequent root calls fail as unavailable.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *Host) check() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%w: simulated host closed", host.ErrUnavailable)
	}
	return nil
}

// SwitchProjectExternally simulates the interactive operator opening a
// different project behind the bridge's back.
func (h *Host) SwitchProjectExternally(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.projects[name]
	if !ok {
		return fmt.Errorf("no project %q", name)
	}
	h.current = p
	return nil
}

// SeedStorage registers directory listings for a media storage path.
func (h *Host) SeedStorage(path string, dirs, files []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.storageDirs[path] = dirs
	h.storageFile[path] = files
}

type projectManager struct {
	h *Host
}

func (pm *projectManager) CurrentProject(context.Context) (host.Project, error) {
	pm.h.mu.Lock()
	defer pm.h.mu.Unlock()
	if pm.h.current == nil {
		return nil, fmt.Errorf("%w: no project open", host.ErrStale)
	}
	return pm.h.current, nil
}

func (pm *projectManager) ProjectNames(context.Context) ([]string, error) {
	pm.h.mu.Lock()
	defer pm.h.mu.Unlock()
	names := make([]string, len(pm.h.projectOrder))
	copy(names, pm.h.projectOrder)
	return names, nil
}

func (pm *projectManager) CreateProject(_ context.Context, name string) (host.Project, error) {
	pm.h.mu.Lock()
	defer pm.h.mu.Unlock()
	if _, exists := pm.h.projects[name]; exists {
		// The real host returns nothing here; the adapter is expected
		// to have checked the name list first.
		return nil, fmt.Errorf("project %q already exists", name)
	}
	p := newProject(pm.h, name)
	pm.h.projects[name] = p
	pm.h.projectOrder = append(pm.h.projectOrder, name)
	pm.h.current = p
	return p, nil
}

func (pm *projectManager) LoadProject(_ context.Context, name string) (host.Project, error) {
	pm.h.mu.Lock()
	defer pm.h.mu.Unlock()
	p, ok := pm.h.projects[name]
	if !ok {
		return nil, fmt.Errorf("%w: project %q", host.ErrStale, name)
	}
	pm.h.current = p
	return p, nil
}

func (pm *projectManager) ExportProject(_ context.Context, name, path string) (bool, error) {
	pm.h.mu.Lock()
	defer pm.h.mu.Unlock()
	if _, ok := pm.h.projects[name]; !ok {
		return false, nil
	}
	if path == "" {
		return false, nil
	}
	return true, nil
}

func (pm *projectManager) ImportProject(_ context.Context, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	return true, nil
}

type project struct {
	h *Host

	name      string
	timelines []*timeline
	current   *timeline
	pool      *mediaPool
	gallery   *gallery
	settings  map[string]string

	rendering      bool
	renderProgress int
	renderPreset   string
	renderSettings map[string]any
}

func newProject(h *Host, name string) *project {
	p := &project{
		h:    h,
		name: name,
		settings: map[string]string{
			"timelineFrameRate":        "24",
			"timelineResolutionWidth":  "1920",
			"timelineResolutionHeight": "1080",
		},
		renderSettings: make(map[string]any),
	}
	p.pool = newMediaPool(p)
	p.gallery = &gallery{p: p}
	return p
}

func (p *project) Name(context.Context) (string, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	return p.name, nil
}

func (p *project) Save(context.Context) (bool, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	return p.h.current == p, nil
}

func (p *project) TimelineCount(context.Context) (int, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	return len(p.timelines), nil
}

func (p *project) TimelineByIndex(_ context.Context, index int) (host.Timeline, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if index < 1 || index > len(p.timelines) {
		return nil, fmt.Errorf("%w: timeline index %d", host.ErrStale, index)
	}
	return p.timelines[index-1], nil
}

func (p *project) CurrentTimeline(context.Context) (host.Timeline, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if p.current == nil {
		return nil, fmt.Errorf("%w: no current timeline", host.ErrStale)
	}
	return p.current, nil
}

func (p *project) SetCurrentTimeline(_ context.Context, tl host.Timeline) (bool, error) {
	target, ok := tl.(*timeline)
	if !ok || target == nil {
		return false, fmt.Errorf("%w: foreign timeline handle", host.ErrStale)
	}
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if hook := p.h.Fail.SetCurrentTimeline; hook != nil {
		if err := hook(target.name); err != nil {
			return false, err
		}
	}
	if target.project != p {
		return false, nil
	}
	p.current = target
	return true, nil
}

func (p *project) MediaPool(context.Context) (host.MediaPool, error) {
	return p.pool, nil
}

func (p *project) Gallery(context.Context) (host.Gallery, error) {
	return p.gallery, nil
}

func (p *project) Settings(context.Context) (map[string]string, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	out := make(map[string]string, len(p.settings))
	for k, v := range p.settings {
		out[k] = v
	}
	return out, nil
}

func (p *project) SetSetting(_ context.Context, key, value string) (bool, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if key == "" {
		return false, nil
	}
	p.settings[key] = value
	return true, nil
}

func (p *project) LoadRenderPreset(_ context.Context, name string) (bool, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if name == "" {
		return false, nil
	}
	p.renderPreset = name
	return true, nil
}

func (p *project) SetRenderSettings(_ context.Context, settings map[string]any) (bool, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	for k, v := range settings {
		p.renderSettings[k] = v
	}
	return true, nil
}

func (p *project) StartRendering(context.Context) (bool, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if hook := p.h.Fail.StartRendering; hook != nil {
		if err := hook(); err != nil {
			return false, err
		}
	}
	if p.rendering {
		return false, nil
	}
	p.rendering = true
	p.renderProgress = 0
	return true, nil
}

// IsRenderingInProgress reports render state without advancing it.
func (p *project) IsRenderingInProgress(context.Context) (bool, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	return p.rendering, nil
}

// RenderingProgress advances the simulated render by a quarter per poll so
// tests observe a full fire-and-forget/poll cycle deterministically.
func (p *project) RenderingProgress(context.Context) (int, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	if !p.rendering {
		return p.renderProgress, nil
	}
	p.renderProgress += 25
	if p.renderProgress >= 100 {
		p.renderProgress = 100
		p.rendering = false
	}
	return p.renderProgress, nil
}
