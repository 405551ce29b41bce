package adapter_test

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/framefold/resolvebridge/internal/bridge/adapter"
	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host/simhost"
	"github.com/framefold/resolvebridge/internal/bridge/journal"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// bridge wires the full operation registry over a simulated host, the same
// stack a running bridge dispatches through.
type bridge struct {
	sim    *simhost.Host
	sess   *session.Session
	router *dispatch.Router
}

func newBridge(t *testing.T, deps adapter.Deps) *bridge {
	t.Helper()
	sim := simhost.New()
	sess, err := session.New(context.Background(), sim)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	cfg := dispatch.Config{Session: sess}
	if deps.Journal != nil {
		cfg.Recorder = deps.Journal
	}
	router, err := dispatch.NewRouter(cfg, adapter.Operations(deps)...)
	if err != nil {
		t.Fatalf("dispatch.NewRouter: %v", err)
	}
	return &bridge{sim: sim, sess: sess, router: router}
}

func (b *bridge) dispatch(name string, args map[string]any) outcome.Outcome {
	return b.router.Dispatch(context.Background(), name, args)
}

func (b *bridge) must(t *testing.T, name string, args map[string]any) outcome.Outcome {
	t.Helper()
	result := b.dispatch(name, args)
	if !result.Success() {
		t.Fatalf("%s: %s: %s", name, result.Kind, result.Detail)
	}
	return result
}

func (b *bridge) wantKind(t *testing.T, name string, args map[string]any, kind outcome.Kind) outcome.Outcome {
	t.Helper()
	result := b.dispatch(name, args)
	if result.Kind != kind {
		t.Fatalf("%s: kind = %s (%s), want %s", name, result.Kind, result.Detail, kind)
	}
	return result
}

// seedClip imports one storage file and appends it to a fresh timeline so
// a clip sits under the playhead.
func (b *bridge) seedClip(t *testing.T) {
	t.Helper()
	b.must(t, "create_project", map[string]any{"name": "Demo"})
	b.must(t, "create_timeline", map[string]any{"name": "Reel 1"})
	b.must(t, "import_media", map[string]any{"paths": []any{"/Volumes/Media/A001.mov"}})
	b.must(t, "append_to_timeline", map[string]any{"clips": []any{"A001.mov"}})
}

func TestProjectOperations(t *testing.T) {
	t.Run("create then duplicate", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		result := b.must(t, "create_project", map[string]any{"name": "Demo"})
		if result.Value["name"] != "Demo" {
			t.Fatalf("value = %v", result.Value)
		}
		if project, _, _ := b.sess.Snapshot(); project != "Demo" {
			t.Fatalf("session project = %q", project)
		}
		result = b.wantKind(t, "create_project", map[string]any{"name": "Demo"}, outcome.AlreadyExists)
		if want := `project "Demo" already exists`; result.Detail != want {
			t.Fatalf("detail = %q, want %q", result.Detail, want)
		}
		// The rejected create leaves the session on the original project.
		if project, _, _ := b.sess.Snapshot(); project != "Demo" {
			t.Fatalf("session project = %q after duplicate create", project)
		}
	})

	t.Run("create clears stale timeline", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "First"})
		b.must(t, "create_timeline", map[string]any{"name": "Reel 1"})
		b.must(t, "create_project", map[string]any{"name": "Second"})
		if _, timeline, _ := b.sess.Snapshot(); timeline != "" {
			t.Fatalf("timeline = %q, want cleared after project switch", timeline)
		}
	})

	t.Run("load", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "create_project", map[string]any{"name": "Other"})
		b.must(t, "load_project", map[string]any{"name": "Demo"})
		if project, _, _ := b.sess.Snapshot(); project != "Demo" {
			t.Fatalf("session project = %q", project)
		}
		b.wantKind(t, "load_project", map[string]any{"name": "Nowhere"}, outcome.NotFound)
	})

	t.Run("save without project", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.wantKind(t, "save_project", nil, outcome.NotFound)
	})

	t.Run("save", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		result := b.must(t, "save_project", nil)
		if result.Value["saved"] != true {
			t.Fatalf("value = %v", result.Value)
		}
	})

	t.Run("export and import", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "export_project", map[string]any{"name": "Demo", "path": "/tmp/demo.drp"})
		b.wantKind(t, "export_project", map[string]any{"name": "Nowhere", "path": "/tmp/x.drp"}, outcome.NotFound)
		b.must(t, "import_project", map[string]any{"path": "/tmp/demo.drp"})
	})

	t.Run("info", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "create_timeline", map[string]any{"name": "Reel 1"})
		result := b.must(t, "get_project_info", nil)
		if result.Value["name"] != "Demo" {
			t.Fatalf("value = %v", result.Value)
		}
		if result.Value["timeline_count"] != 1 {
			t.Fatalf("timeline_count = %v", result.Value["timeline_count"])
		}
		if result.Value["current_timeline"] != "Reel 1" {
			t.Fatalf("current_timeline = %v", result.Value["current_timeline"])
		}
	})

	t.Run("settings", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})

		result := b.must(t, "get_project_setting", map[string]any{"key": "timelineFrameRate"})
		if result.Value["value"] != "24" {
			t.Fatalf("value = %v", result.Value)
		}

		// Omitting the key returns the whole bag.
		result = b.must(t, "get_project_setting", nil)
		settings, ok := result.Value["settings"].(map[string]any)
		if !ok || settings["timelineResolutionWidth"] != "1920" {
			t.Fatalf("settings = %v", result.Value["settings"])
		}

		b.wantKind(t, "get_project_setting", map[string]any{"key": "nope"}, outcome.NotFound)

		b.must(t, "set_project_setting", map[string]any{"key": "timelineFrameRate", "value": "30"})
		result = b.must(t, "get_project_setting", map[string]any{"key": "timelineFrameRate"})
		if result.Value["value"] != "30" {
			t.Fatalf("value = %v after set", result.Value)
		}
	})
}

func TestTimelineOperations(t *testing.T) {
	t.Run("create then duplicate", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "create_timeline", map[string]any{"name": "Reel 1"})
		if _, timeline, _ := b.sess.Snapshot(); timeline != "Reel 1" {
			t.Fatalf("session timeline = %q", timeline)
		}
		b.wantKind(t, "create_timeline", map[string]any{"name": "Reel 1"}, outcome.AlreadyExists)
	})

	t.Run("list and switch", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "create_timeline", map[string]any{"name": "Reel 1"})
		b.must(t, "create_timeline", map[string]any{"name": "Reel 2"})

		result := b.must(t, "list_timelines", nil)
		names, ok := result.Value["timelines"].([]string)
		if !ok || len(names) != 2 || names[0] != "Reel 1" {
			t.Fatalf("timelines = %v", result.Value["timelines"])
		}

		b.must(t, "set_current_timeline", map[string]any{"name": "Reel 1"})
		if _, timeline, _ := b.sess.Snapshot(); timeline != "Reel 1" {
			t.Fatalf("session timeline = %q", timeline)
		}
		b.wantKind(t, "set_current_timeline", map[string]any{"name": "Reel 9"}, outcome.NotFound)
	})

	t.Run("from clips", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "import_media", map[string]any{"paths": []any{"/Volumes/Media/A001.mov", "/Volumes/Media/A002.mov"}})
		result := b.must(t, "create_timeline_from_clips", map[string]any{
			"name":  "Assembly",
			"clips": []any{"A001.mov", "A002.mov"},
		})
		if result.Value["clip_count"] != 2 {
			t.Fatalf("value = %v", result.Value)
		}
		b.wantKind(t, "create_timeline_from_clips", map[string]any{
			"name":  "Broken",
			"clips": []any{"Z999.mov"},
		}, outcome.NotFound)
	})

	t.Run("import from file", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		result := b.must(t, "import_timeline_from_file", map[string]any{"path": "/exports/conform.otio"})
		if result.Value["name"] != "conform" {
			t.Fatalf("value = %v", result.Value)
		}
	})

	t.Run("info and tracks", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "create_timeline", map[string]any{"name": "Reel 1"})

		result := b.must(t, "get_timeline_info", nil)
		if result.Value["name"] != "Reel 1" {
			t.Fatalf("value = %v", result.Value)
		}
		tracks, ok := result.Value["tracks"].(map[string]any)
		if !ok || tracks["video"] != 1 || tracks["audio"] != 1 || tracks["subtitle"] != 0 {
			t.Fatalf("tracks = %v", result.Value["tracks"])
		}

		result = b.must(t, "add_track", map[string]any{"kind": "subtitle"})
		if result.Value["count"] != 1 {
			t.Fatalf("count = %v", result.Value["count"])
		}

		b.must(t, "set_track_name", map[string]any{"kind": "video", "index": 1, "name": "Dialogue"})
		b.wantKind(t, "set_track_name", map[string]any{"kind": "video", "index": 9, "name": "X"}, outcome.NotFound)

		b.must(t, "enable_track", map[string]any{"kind": "audio", "index": 1, "enabled": false})
		b.wantKind(t, "enable_track", map[string]any{"kind": "audio", "index": 9, "enabled": true}, outcome.NotFound)
	})

	t.Run("markers", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		b.must(t, "add_marker", map[string]any{"frame": 1, "name": "Sync point"})
		result := b.wantKind(t, "add_marker", map[string]any{"frame": 100000}, outcome.InvalidArgument)
		if !strings.Contains(result.Detail, "frame 100000") {
			t.Fatalf("detail = %q", result.Detail)
		}
	})

	t.Run("append and list items", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		result := b.must(t, "get_timeline_items", map[string]any{"kind": "video", "index": 1})
		items, ok := result.Value["items"].([]string)
		if !ok || len(items) != 1 || items[0] != "A001.mov" {
			t.Fatalf("items = %v", result.Value["items"])
		}
	})
}

func TestMediaOperations(t *testing.T) {
	t.Run("storage listing", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		result := b.must(t, "list_mounted_volumes", nil)
		volumes, ok := result.Value["volumes"].([]string)
		if !ok || len(volumes) != 1 || volumes[0] != "/Volumes/Media" {
			t.Fatalf("volumes = %v", result.Value["volumes"])
		}

		result = b.must(t, "list_storage_files", map[string]any{"path": "/Volumes/Media"})
		files, ok := result.Value["files"].([]string)
		if !ok || len(files) != 2 {
			t.Fatalf("files = %v", result.Value["files"])
		}
	})

	t.Run("import requires a project", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.wantKind(t, "import_media", map[string]any{"paths": []any{"/Volumes/Media/A001.mov"}}, outcome.NotFound)
	})

	t.Run("import and inspect", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		result := b.must(t, "import_media", map[string]any{"paths": []any{"/Volumes/Media/A001.mov"}})
		imported, ok := result.Value["imported"].([]string)
		if !ok || len(imported) != 1 || imported[0] != "A001.mov" {
			t.Fatalf("imported = %v", result.Value["imported"])
		}

		result = b.must(t, "get_clip_metadata", map[string]any{"clip": "A001.mov"})
		metadata, ok := result.Value["metadata"].(map[string]any)
		if !ok || metadata["FPS"] != "24" {
			t.Fatalf("metadata = %v", result.Value["metadata"])
		}
		b.wantKind(t, "get_clip_metadata", map[string]any{"clip": "Z999.mov"}, outcome.NotFound)
	})

	t.Run("folders", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.must(t, "create_folder", map[string]any{"name": "Dailies"})
		b.wantKind(t, "create_folder", map[string]any{"name": "Dailies"}, outcome.AlreadyExists)

		result := b.must(t, "list_folder", map[string]any{"folder": "root"})
		if result.Value["name"] != "Master" {
			t.Fatalf("value = %v", result.Value)
		}
		folders, ok := result.Value["folders"].([]string)
		if !ok || len(folders) != 1 || folders[0] != "Dailies" {
			t.Fatalf("folders = %v", result.Value["folders"])
		}
	})
}

func TestClipOperations(t *testing.T) {
	b := newBridge(t, adapter.Deps{})
	b.seedClip(t)

	result := b.must(t, "get_clip_property", map[string]any{"property": "Opacity"})
	if result.Value["value"] != 100.0 {
		t.Fatalf("value = %v", result.Value)
	}

	b.must(t, "set_clip_property", map[string]any{"property": "ZoomX", "value": 1.2})
	result = b.must(t, "get_clip_property", map[string]any{"property": "ZoomX"})
	if result.Value["value"] != 1.2 {
		t.Fatalf("value = %v after set", result.Value)
	}

	// A property this host edition does not expose is a capability gap,
	// not a bad argument.
	result = b.wantKind(t, "set_clip_property", map[string]any{"property": "Sharpness", "value": 1.0}, outcome.Unsupported)
	if !strings.Contains(result.Detail, `"Sharpness"`) {
		t.Fatalf("detail = %q", result.Detail)
	}
	b.wantKind(t, "get_clip_property", map[string]any{"property": "Sharpness"}, outcome.Unsupported)
}

func TestFusionOperations(t *testing.T) {
	t.Run("no composition without timeline", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.wantKind(t, "create_fusion_node", map[string]any{"node_type": "Blur"}, outcome.NotFound)
	})

	t.Run("create node", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		result := b.must(t, "create_fusion_node", map[string]any{"node_type": "Blur", "x": 0, "y": 0})
		if result.Value["node"] != "Blur1" {
			t.Fatalf("value = %v", result.Value)
		}
		result = b.must(t, "get_current_comp", nil)
		if result.Value["name"] != "Composition 1" {
			t.Fatalf("value = %v", result.Value)
		}
	})

	t.Run("chain", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		result := b.must(t, "chain_fusion_nodes", map[string]any{
			"node_types": []any{"Background", "Blur", "ColorCorrector"},
		})
		if result.Value["created_count"] != 3 {
			t.Fatalf("value = %v", result.Value)
		}
		names, ok := result.Value["nodes"].([]string)
		if !ok || len(names) != 3 || names[1] != "Blur2" {
			t.Fatalf("nodes = %v", result.Value["nodes"])
		}
	})

	t.Run("chain rejects impossible wiring", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		b.wantKind(t, "chain_fusion_nodes", map[string]any{
			"node_types":  []any{"Background", "Blur"},
			"connections": []any{map[string]any{"from": 0, "to": 5, "input": "Input"}},
		}, outcome.InvalidArgument)
	})

	t.Run("partial failure reports created count", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		calls := 0
		b.sim.Fail.AddTool = func(string) error {
			calls++
			if calls == 2 {
				return errors.New("flow is locked")
			}
			return nil
		}
		result := b.wantKind(t, "chain_fusion_nodes", map[string]any{
			"node_types": []any{"Background", "Blur", "ColorCorrector"},
		}, outcome.Internal)
		if result.Value["created_count"] != 1 {
			t.Fatalf("value = %v, want created_count 1", result.Value)
		}
	})
}

func TestColorOperations(t *testing.T) {
	b := newBridge(t, adapter.Deps{})
	b.seedClip(t)

	result := b.must(t, "get_color_nodes", nil)
	nodes, ok := result.Value["nodes"].([]string)
	if !ok || len(nodes) != 1 || nodes[0] != "Corrector 1" {
		t.Fatalf("nodes = %v", result.Value["nodes"])
	}

	result = b.must(t, "add_color_node", map[string]any{"node_type": "Corrector"})
	if result.Value["node"] != "Corrector 2" {
		t.Fatalf("value = %v", result.Value)
	}

	// Saving without an album name lands the still in the default album.
	result = b.must(t, "save_still", nil)
	if result.Value["album"] != "Stills" {
		t.Fatalf("value = %v", result.Value)
	}
	label, _ := result.Value["label"].(string)
	if label == "" {
		t.Fatal("missing still label")
	}

	b.must(t, "apply_still", map[string]any{"album": "Stills", "label": label})
	b.wantKind(t, "apply_still", map[string]any{"album": "Nowhere", "label": label}, outcome.NotFound)
	b.wantKind(t, "apply_still", map[string]any{"album": "Stills", "label": "missing"}, outcome.NotFound)

	result = b.must(t, "list_gallery_albums", nil)
	if result.Value["albums"] == nil {
		t.Fatalf("value = %v", result.Value)
	}

	result = b.must(t, "get_version_count", map[string]any{"kind": "color"})
	if result.Value["count"] != 1 {
		t.Fatalf("value = %v", result.Value)
	}
	b.must(t, "set_current_version", map[string]any{"kind": "color", "index": 0})
	b.wantKind(t, "set_current_version", map[string]any{"kind": "color", "index": 5}, outcome.NotFound)
}

func TestAudioOperations(t *testing.T) {
	b := newBridge(t, adapter.Deps{})
	b.seedClip(t)

	result := b.must(t, "get_audio_volume", nil)
	if result.Value["volume"] != 1.0 {
		t.Fatalf("value = %v", result.Value)
	}

	b.must(t, "set_audio_volume", map[string]any{"volume": 2.0})
	result = b.must(t, "get_audio_volume", nil)
	if result.Value["volume"] != 2.0 {
		t.Fatalf("value = %v after set", result.Value)
	}

	b.must(t, "set_track_volume", map[string]any{"index": 1, "volume": 0.5})
	b.wantKind(t, "set_track_volume", map[string]any{"index": 9, "volume": 0.5}, outcome.NotFound)
}

func TestPlaybackOperations(t *testing.T) {
	t.Run("play and stop", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "play", nil)
		if !b.sim.Playing() {
			t.Fatal("host is not playing")
		}
		b.must(t, "stop", nil)
		if b.sim.Playing() {
			t.Fatal("host is still playing")
		}
	})

	t.Run("timecode", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		result := b.must(t, "get_timecode", nil)
		if result.Value["timecode"] != "01:00:00:00" {
			t.Fatalf("value = %v", result.Value)
		}
	})

	t.Run("set_playhead requires exactly one target", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		b.wantKind(t, "set_playhead", nil, outcome.ValidationError)
		b.wantKind(t, "set_playhead", map[string]any{"timecode": "01:00:01:00", "frame": 24}, outcome.ValidationError)
	})

	t.Run("set_playhead by frame", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		result := b.must(t, "set_playhead", map[string]any{"frame": 24})
		if result.Value["timecode"] != "01:00:01:00" {
			t.Fatalf("value = %v", result.Value)
		}
		result = b.must(t, "get_timecode", nil)
		if result.Value["timecode"] != "01:00:01:00" {
			t.Fatalf("timecode = %v after move", result.Value)
		}
	})

	t.Run("set_playhead by timecode", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		b.must(t, "set_playhead", map[string]any{"timecode": "01:00:01:12"})
	})
}

func TestRenderOperations(t *testing.T) {
	t.Run("full cycle", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})

		result := b.must(t, "start_render", map[string]any{
			"preset":   "YouTube 1080p",
			"settings": map[string]any{"TargetDir": "/renders"},
		})
		jobID, _ := result.Value["job_id"].(string)
		if jobID == "" {
			t.Fatal("missing job id")
		}

		// A second start while the first renders is refused.
		b.wantKind(t, "start_render", nil, outcome.Busy)

		// The simulation advances a quarter per poll.
		for i, want := range []int{25, 50, 75} {
			result = b.must(t, "get_render_status", nil)
			if result.Value["progress"] != want || result.Value["state"] != "rendering" {
				t.Fatalf("poll %d = %v", i, result.Value)
			}
		}
		result = b.must(t, "get_render_status", nil)
		if result.Value["progress"] != 100 || result.Value["state"] != "complete" {
			t.Fatalf("final poll = %v", result.Value)
		}
		if result.Value["job_id"] != jobID {
			t.Fatalf("job_id = %v, want %s", result.Value["job_id"], jobID)
		}

		// The slot is free again once the render completed.
		b.must(t, "start_render", nil)
	})

	t.Run("start without project", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.wantKind(t, "start_render", nil, outcome.NotFound)
	})
}

func TestNavigationAndScript(t *testing.T) {
	t.Run("open_page", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "open_page", map[string]any{"page": "color"})
		if _, _, page := b.sess.Snapshot(); string(page) != "color" {
			t.Fatalf("session page = %s", page)
		}
		// Re-opening the active page succeeds.
		b.must(t, "open_page", map[string]any{"page": "color"})
		b.wantKind(t, "open_page", map[string]any{"page": "spreadsheet"}, outcome.ValidationError)
		// The cut page is not part of the host's page set.
		b.wantKind(t, "open_page", map[string]any{"page": "cut"}, outcome.ValidationError)
	})

	t.Run("open_page ignores case", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		result := b.must(t, "open_page", map[string]any{"page": "Color"})
		if result.Value["page"] != "color" {
			t.Fatalf("value = %v", result.Value)
		}
		if _, _, page := b.sess.Snapshot(); string(page) != "color" {
			t.Fatalf("session page = %s", page)
		}
		b.must(t, "open_page", map[string]any{"page": "FAIRLIGHT"})
		// Case folding does not admit names outside the page set.
		b.wantKind(t, "open_page", map[string]any{"page": "Export"}, outcome.ValidationError)
	})

	t.Run("execute_lua observes the host", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.must(t, "create_project", map[string]any{"name": "Demo"})

		result := b.must(t, "execute_lua", map[string]any{"source": "return resolve.project_name()"})
		if result.Value["result"] != "Demo" {
			t.Fatalf("value = %v", result.Value)
		}

		// Scripts mutate the same state the typed operations read.
		b.must(t, "execute_lua", map[string]any{"source": `return resolve.set_setting("timelineFrameRate", "30")`})
		result = b.must(t, "get_project_setting", map[string]any{"key": "timelineFrameRate"})
		if result.Value["value"] != "30" {
			t.Fatalf("setting = %v after lua", result.Value)
		}
	})

	t.Run("execute_lua rejects broken source", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.wantKind(t, "execute_lua", map[string]any{"source": "return ((("}, outcome.Internal)
	})

	t.Run("execute_python is unsupported", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.wantKind(t, "execute_python", map[string]any{"source": "print('hi')"}, outcome.Unsupported)
	})
}

func TestStatusOperations(t *testing.T) {
	t.Run("get_status", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.seedClip(t)
		result := b.must(t, "get_status", nil)
		if result.Value["connected"] != true {
			t.Fatalf("value = %v", result.Value)
		}
		if result.Value["page"] != "edit" || result.Value["project"] != "Demo" || result.Value["timeline"] != "Reel 1" {
			t.Fatalf("value = %v", result.Value)
		}
	})

	t.Run("get_status with host gone", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		b.sim.Close()
		result := b.must(t, "get_status", nil)
		if result.Value["connected"] != false {
			t.Fatalf("value = %v", result.Value)
		}
	})

	t.Run("recent_operations without journal", func(t *testing.T) {
		b := newBridge(t, adapter.Deps{})
		result := b.wantKind(t, "recent_operations", nil, outcome.Unsupported)
		if result.Detail != "the operation journal is disabled" {
			t.Fatalf("detail = %q", result.Detail)
		}
	})

	t.Run("recent_operations with journal", func(t *testing.T) {
		j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), log.Default())
		if err != nil {
			t.Fatalf("journal.Open: %v", err)
		}
		defer j.Close()

		b := newBridge(t, adapter.Deps{Journal: j})
		b.must(t, "create_project", map[string]any{"name": "Demo"})
		b.dispatch("load_project", map[string]any{"name": "Nowhere"})

		result := b.must(t, "recent_operations", map[string]any{"limit": 10})
		listed, ok := result.Value["operations"].([]map[string]any)
		if !ok || len(listed) != 2 {
			t.Fatalf("operations = %v", result.Value["operations"])
		}
		if listed[0]["operation"] != "load_project" || listed[0]["outcome"] != string(outcome.NotFound) {
			t.Fatalf("newest = %v", listed[0])
		}
		if listed[1]["operation"] != "create_project" || listed[1]["outcome"] != string(outcome.OK) {
			t.Fatalf("oldest = %v", listed[1])
		}
	})
}
