package simhost

import (
	"context"
	"fmt"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

// clipFrames is the simulated length of every clip.
const clipFrames = 48

// frameRate is the simulated timeline frame rate used for timecode math.
const frameRate = 24

type track struct {
	name    string
	enabled bool
	volume  float64
	items   []*clip
}

type marker struct {
	frame    int
	color    string
	name     string
	note     string
	duration int
}

type timeline struct {
	project *project

	name        string
	startFrame  int
	endFrame    int
	tracks      map[host.TrackKind][]*track
	markers     []marker
	currentClip *clip
}

func newTimeline(p *project, name string) *timeline {
	return &timeline{
		project:    p,
		name:       name,
		startFrame: 1,
		endFrame:   1,
		tracks: map[host.TrackKind][]*track{
			host.TrackVideo: {{name: "Video 1", enabled: true, volume: 1}},
			host.TrackAudio: {{name: "Audio 1", enabled: true, volume: 1}},
		},
	}
}

func (t *timeline) Name(context.Context) (string, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	return t.name, nil
}

func (t *timeline) StartFrame(context.Context) (int, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	return t.startFrame, nil
}

func (t *timeline) EndFrame(context.Context) (int, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	return t.endFrame, nil
}

func (t *timeline) TrackCount(_ context.Context, kind host.TrackKind) (int, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	return len(t.tracks[kind]), nil
}

func (t *timeline) AddTrack(_ context.Context, kind host.TrackKind) (bool, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	index := len(t.tracks[kind]) + 1
	t.tracks[kind] = append(t.tracks[kind], &track{
		name:    fmt.Sprintf("%s %d", trackLabel(kind), index),
		enabled: true,
		volume:  1,
	})
	return true, nil
}

func trackLabel(kind host.TrackKind) string {
	switch kind {
	case host.TrackVideo:
		return "Video"
	case host.TrackAudio:
		return "Audio"
	default:
		return "Subtitle"
	}
}

func (t *timeline) SetTrackName(_ context.Context, kind host.TrackKind, index int, name string) (bool, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	tr, ok := t.track(kind, index)
	if !ok {
		return false, nil
	}
	tr.name = name
	return true, nil
}

func (t *timeline) SetTrackEnabled(_ context.Context, kind host.TrackKind, index int, enabled bool) (bool, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	tr, ok := t.track(kind, index)
	if !ok {
		return false, nil
	}
	tr.enabled = enabled
	return true, nil
}

func (t *timeline) SetTrackVolume(_ context.Context, index int, volume float64) (bool, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	tr, ok := t.track(host.TrackAudio, index)
	if !ok {
		return false, nil
	}
	tr.volume = volume
	return true, nil
}

// TrackName reports a track's name; tests use it to observe renames.
func (t *timeline) TrackName(kind host.TrackKind, index int) (string, bool) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	tr, ok := t.track(kind, index)
	if !ok {
		return "", false
	}
	return tr.name, true
}

func (t *timeline) track(kind host.TrackKind, index int) (*track, bool) {
	tracks := t.tracks[kind]
	if index < 1 || index > len(tracks) {
		return nil, false
	}
	return tracks[index-1], true
}

func (t *timeline) AddMarker(_ context.Context, frame int, color, name, note string, duration int) (bool, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	if frame < t.startFrame || frame > t.endFrame {
		return false, nil
	}
	t.markers = append(t.markers, marker{frame: frame, color: color, name: name, note: note, duration: duration})
	return true, nil
}

// MarkerCount reports how many markers exist; tests use it.
func (t *timeline) MarkerCount() int {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	return len(t.markers)
}

func (t *timeline) ItemsInTrack(_ context.Context, kind host.TrackKind, index int) ([]host.Clip, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	tr, ok := t.track(kind, index)
	if !ok {
		return nil, nil
	}
	items := make([]host.Clip, 0, len(tr.items))
	for _, cl := range tr.items {
		items = append(items, cl)
	}
	return items, nil
}

func (t *timeline) CurrentVideoItem(context.Context) (host.Clip, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	if t.currentClip == nil {
		return nil, fmt.Errorf("%w: no current video item", host.ErrStale)
	}
	return t.currentClip, nil
}

func (t *timeline) TimecodeFromFrame(_ context.Context, frame int) (string, error) {
	seconds := frame / frameRate
	frames := frame % frameRate
	return fmt.Sprintf("%02d:%02d:%02d:%02d", seconds/3600+1, seconds/60%60, seconds%60, frames), nil
}

func (t *timeline) SetCurrentTimecode(_ context.Context, timecode string) (bool, error) {
	t.project.h.mu.Lock()
	defer t.project.h.mu.Unlock()
	if timecode == "" {
		return false, nil
	}
	t.project.h.timecode = timecode
	return true, nil
}

// appendClips places clips on video track 1 and grows the timeline extent.
// Caller holds the host lock.
func (t *timeline) appendClips(clips []*clip) {
	tr := t.tracks[host.TrackVideo][0]
	tr.items = append(tr.items, clips...)
	t.endFrame = t.startFrame + len(tr.items)*clipFrames - 1
	if t.currentClip == nil && len(tr.items) > 0 {
		t.currentClip = tr.items[0]
	}
}

// supportedClipProperties is the property surface this simulated host
// edition exposes; anything else reports ErrUnknownProperty.
var supportedClipProperties = map[string]bool{
	"Pan":     true,
	"Tilt":    true,
	"ZoomX":   true,
	"ZoomY":   true,
	"Opacity": true,
}

type versionStack struct {
	count   int
	current int
}

type clip struct {
	p *project

	name        string
	metadata    map[string]string
	properties  map[string]any
	audioVolume float64
	graph       *colorGraph
	versions    map[host.VersionKind]*versionStack
}

func newClip(p *project, name string) *clip {
	cl := &clip{
		p:    p,
		name: name,
		metadata: map[string]string{
			"Clip Name":  name,
			"FPS":        "24",
			"Resolution": "1920x1080",
		},
		properties:  map[string]any{"Pan": 0.0, "Tilt": 0.0, "ZoomX": 1.0, "ZoomY": 1.0, "Opacity": 100.0},
		audioVolume: 1,
		versions: map[host.VersionKind]*versionStack{
			host.VersionColor:  {count: 1},
			host.VersionFusion: {count: 1},
		},
	}
	cl.graph = &colorGraph{clip: cl, labels: []string{"Corrector 1"}}
	return cl
}

func (cl *clip) Name(context.Context) (string, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	return cl.name, nil
}

func (cl *clip) Metadata(context.Context) (map[string]string, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	out := make(map[string]string, len(cl.metadata))
	for k, v := range cl.metadata {
		out[k] = v
	}
	return out, nil
}

func (cl *clip) Property(_ context.Context, name string) (any, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	if !supportedClipProperties[name] {
		return nil, fmt.Errorf("%w: %q", host.ErrUnknownProperty, name)
	}
	return cl.properties[name], nil
}

func (cl *clip) SetProperty(_ context.Context, name string, value any) error {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	if !supportedClipProperties[name] {
		return fmt.Errorf("%w: %q", host.ErrUnknownProperty, name)
	}
	cl.properties[name] = value
	return nil
}

func (cl *clip) AudioVolume(context.Context) (float64, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	return cl.audioVolume, nil
}

func (cl *clip) SetAudioVolume(_ context.Context, volume float64) (bool, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	if volume < 0 {
		return false, nil
	}
	cl.audioVolume = volume
	return true, nil
}

func (cl *clip) ColorGraph(context.Context) (host.ColorGraph, error) {
	return cl.graph, nil
}

func (cl *clip) SaveAsStill(_ context.Context, a host.Album) (host.Still, error) {
	target, ok := a.(*album)
	if !ok || target == nil {
		return nil, fmt.Errorf("%w: foreign album handle", host.ErrStale)
	}
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	s := &still{
		album: target,
		label: fmt.Sprintf("%s Still %d", cl.name, len(target.stills)+1),
		grade: append([]string(nil), cl.graph.labels...),
	}
	target.stills = append(target.stills, s)
	return s, nil
}

func (cl *clip) ApplyGradeFromStill(_ context.Context, s host.Still) (bool, error) {
	source, ok := s.(*still)
	if !ok || source == nil {
		return false, fmt.Errorf("%w: foreign still handle", host.ErrStale)
	}
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	cl.graph.labels = append([]string(nil), source.grade...)
	if len(cl.graph.labels) == 0 {
		cl.graph.labels = []string{"Corrector 1"}
	}
	return true, nil
}

func (cl *clip) VersionCount(_ context.Context, kind host.VersionKind) (int, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	return cl.versions[kind].count, nil
}

func (cl *clip) SetCurrentVersion(_ context.Context, index int, kind host.VersionKind) (bool, error) {
	cl.p.h.mu.Lock()
	defer cl.p.h.mu.Unlock()
	stack := cl.versions[kind]
	if index < 0 || index >= stack.count {
		return false, nil
	}
	stack.current = index
	return true, nil
}

type colorGraph struct {
	clip   *clip
	labels []string
}

func (g *colorGraph) NodeLabels(context.Context) ([]string, error) {
	g.clip.p.h.mu.Lock()
	defer g.clip.p.h.mu.Unlock()
	return append([]string(nil), g.labels...), nil
}

func (g *colorGraph) AddNode(_ context.Context, nodeType string) (string, error) {
	g.clip.p.h.mu.Lock()
	defer g.clip.p.h.mu.Unlock()
	label := fmt.Sprintf("%s %d", nodeType, len(g.labels)+1)
	g.labels = append(g.labels, label)
	return label, nil
}
