package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

var trackKindSchema = schema.Enum("Track type.", string(host.TrackVideo), string(host.TrackAudio), string(host.TrackSubtitle))

func timelineOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "create_timeline",
			Description: "Create an empty timeline and make it current.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name": schema.NonEmptyString("Timeline name."),
			}, "name")),
			Handler: createTimeline,
		},
		{
			Name:        "create_timeline_from_clips",
			Description: "Create a timeline from named media pool clips.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name":  schema.NonEmptyString("Timeline name."),
				"clips": schema.NonEmptyArrayOf(schema.NonEmptyString("Clip name."), "Clip names in order."),
			}, "name", "clips")),
			Handler: createTimelineFromClips,
		},
		{
			Name:        "import_timeline_from_file",
			Description: "Import a timeline from an interchange file.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"path": schema.NonEmptyString("Timeline file path."),
			}, "path")),
			Handler: importTimelineFromFile,
		},
		{
			Name:        "list_timelines",
			Description: "List the current project's timelines in host order.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     listTimelines,
		},
		{
			Name:        "set_current_timeline",
			Description: "Make a named timeline current.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name": schema.NonEmptyString("Timeline name."),
			}, "name")),
			Handler: setCurrentTimeline,
		},
		{
			Name:        "get_timeline_info",
			Description: "Report the current timeline's frame range and tracks.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getTimelineInfo,
		},
		{
			Name:        "add_track",
			Description: "Add a track to the current timeline.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"kind": trackKindSchema,
			}, "kind")),
			Handler: addTrack,
		},
		{
			Name:        "set_track_name",
			Description: "Rename a track on the current timeline.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"kind":  trackKindSchema,
				"index": schema.IntegerMin("1-based track index.", 1),
				"name":  schema.NonEmptyString("New track name."),
			}, "kind", "index", "name")),
			Handler: setTrackName,
		},
		{
			Name:        "enable_track",
			Description: "Enable or disable a track on the current timeline.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"kind":    trackKindSchema,
				"index":   schema.IntegerMin("1-based track index.", 1),
				"enabled": schema.Boolean("Track enabled state."),
			}, "kind", "index", "enabled")),
			Handler: enableTrack,
		},
		{
			Name:        "add_marker",
			Description: "Add a marker to the current timeline.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"frame": schema.IntegerMin("Timeline frame for the marker.", 0),
				"color": schema.Enum("Marker color.",
					"Blue", "Cyan", "Green", "Yellow", "Red", "Pink",
					"Purple", "Fuchsia", "Rose", "Lavender", "Sky",
					"Mint", "Lemon", "Sand", "Cocoa", "Cream"),
				"name":     schema.String("Marker name."),
				"note":     schema.String("Marker note."),
				"duration": schema.IntegerMin("Marker duration in frames.", 1),
			}, "frame")),
			Handler: addMarker,
		},
		{
			Name:        "append_to_timeline",
			Description: "Append named media pool clips to the current timeline.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"clips": schema.NonEmptyArrayOf(schema.NonEmptyString("Clip name."), "Clip names in order."),
			}, "clips")),
			Handler: appendToTimeline,
		},
		{
			Name:        "get_timeline_items",
			Description: "List clip names in one track of the current timeline.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"kind":  trackKindSchema,
				"index": schema.IntegerMin("1-based track index.", 1),
			}, "kind", "index")),
			Handler: getTimelineItems,
		},
	}
}

func createTimeline(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	existing, err := timelineNames(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	if containsString(existing, name) {
		return nil, nil, outcome.NewError(outcome.AlreadyExists, "timeline %q already exists", name)
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	if _, err := pool.CreateEmptyTimeline(ctx, name); err != nil {
		return nil, nil, hosterr(err, "create timeline %q", name)
	}
	intent := &session.Intent{Timeline: &session.TimelineRef{Name: name}}
	return map[string]any{"name": name}, intent, nil
}

func createTimelineFromClips(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	clipNames := args.Strings("clips")
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	existing, err := timelineNames(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	if containsString(existing, name) {
		return nil, nil, outcome.NewError(outcome.AlreadyExists, "timeline %q already exists", name)
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	clips, err := clipsByName(ctx, pool, clipNames)
	if err != nil {
		return nil, nil, err
	}
	if _, err := pool.CreateTimelineFromClips(ctx, name, clips); err != nil {
		return nil, nil, hosterr(err, "create timeline %q from clips", name)
	}
	intent := &session.Intent{Timeline: &session.TimelineRef{Name: name}}
	return map[string]any{"name": name, "clip_count": len(clips)}, intent, nil
}

func importTimelineFromFile(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	path := args.String("path")
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	timeline, err := pool.ImportTimelineFromFile(ctx, path)
	if err != nil {
		return nil, nil, hosterr(err, "import timeline from %q", path)
	}
	name, err := timeline.Name(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "imported timeline name")
	}
	intent := &session.Intent{Timeline: &session.TimelineRef{Name: name}}
	return map[string]any{"name": name, "path": path}, intent, nil
}

func listTimelines(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	names, err := timelineNames(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	return map[string]any{"timelines": names}, nil, nil
}

func setCurrentTimeline(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	timeline, err := timelineByName(ctx, project, name)
	if err != nil {
		return nil, nil, err
	}
	ok, err := project.SetCurrentTimeline(ctx, timeline)
	if err != nil {
		return nil, nil, hosterr(err, "set current timeline %q", name)
	}
	if !ok {
		// Policy: the name resolved just above, so a false means the
		// handle went stale between lookup and switch.
		return nil, nil, outcome.NewError(outcome.NotFound, "timeline %q is no longer available", name)
	}
	intent := &session.Intent{Timeline: &session.TimelineRef{Name: name}}
	return map[string]any{"name": name}, intent, nil
}

func getTimelineInfo(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	name, err := timeline.Name(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "timeline name")
	}
	start, err := timeline.StartFrame(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "timeline start frame")
	}
	end, err := timeline.EndFrame(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "timeline end frame")
	}
	tracks := map[string]any{}
	for _, kind := range []host.TrackKind{host.TrackVideo, host.TrackAudio, host.TrackSubtitle} {
		count, err := timeline.TrackCount(ctx, kind)
		if err != nil {
			return nil, nil, hosterr(err, "%s track count", kind)
		}
		tracks[string(kind)] = count
	}
	return map[string]any{
		"name":        name,
		"start_frame": start,
		"end_frame":   end,
		"tracks":      tracks,
	}, nil, nil
}

func addTrack(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	kind := host.TrackKind(args.String("kind"))
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := timeline.AddTrack(ctx, kind)
	if err != nil {
		return nil, nil, hosterr(err, "add %s track", kind)
	}
	if !ok {
		// Policy: the host refuses track kinds the timeline type cannot
		// hold; the kind argument is well-typed but rejected.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "timeline does not accept %s tracks", kind)
	}
	count, err := timeline.TrackCount(ctx, kind)
	if err != nil {
		return nil, nil, hosterr(err, "%s track count", kind)
	}
	return map[string]any{"kind": string(kind), "count": count}, nil, nil
}

func setTrackName(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	kind := host.TrackKind(args.String("kind"))
	index := args.Int("index")
	name := args.String("name")
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := timeline.SetTrackName(ctx, kind, index, name)
	if err != nil {
		return nil, nil, hosterr(err, "rename %s track %d", kind, index)
	}
	if !ok {
		// Policy: false means the track index does not exist.
		return nil, nil, outcome.NewError(outcome.NotFound, "%s track %d not found", kind, index)
	}
	return map[string]any{"kind": string(kind), "index": index, "name": name}, nil, nil
}

func enableTrack(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	kind := host.TrackKind(args.String("kind"))
	index := args.Int("index")
	enabled := args.Bool("enabled")
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := timeline.SetTrackEnabled(ctx, kind, index, enabled)
	if err != nil {
		return nil, nil, hosterr(err, "enable %s track %d", kind, index)
	}
	if !ok {
		// Policy: false means the track index does not exist; toggling a
		// track to its current state succeeds.
		return nil, nil, outcome.NewError(outcome.NotFound, "%s track %d not found", kind, index)
	}
	return map[string]any{"kind": string(kind), "index": index, "enabled": enabled}, nil, nil
}

func addMarker(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	frame := args.Int("frame")
	color := args.StringOr("color", "Blue")
	name := args.String("name")
	note := args.String("note")
	duration := args.IntOr("duration", 1)
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := timeline.AddMarker(ctx, frame, color, name, note, duration)
	if err != nil {
		return nil, nil, hosterr(err, "add marker at frame %d", frame)
	}
	if !ok {
		// Policy: false means the frame lies outside the timeline or a
		// marker already occupies it; either way the frame is the problem.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected marker at frame %d", frame)
	}
	return map[string]any{"frame": frame, "color": color}, nil, nil
}

func appendToTimeline(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	clipNames := args.Strings("clips")
	if _, err := currentTimeline(ctx, sess); err != nil {
		return nil, nil, err
	}
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	clips, err := clipsByName(ctx, pool, clipNames)
	if err != nil {
		return nil, nil, err
	}
	ok, err := pool.AppendToTimeline(ctx, clips)
	if err != nil {
		return nil, nil, hosterr(err, "append clips to timeline")
	}
	if !ok {
		// Policy: the current timeline resolved above, so a false here is
		// an unexpected host-side refusal.
		return nil, nil, outcome.NewError(outcome.Internal, "host declined to append clips")
	}
	return map[string]any{"appended": len(clips)}, nil, nil
}

func getTimelineItems(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	kind := host.TrackKind(args.String("kind"))
	index := args.Int("index")
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	clips, err := timeline.ItemsInTrack(ctx, kind, index)
	if err != nil {
		return nil, nil, hosterr(err, "items in %s track %d", kind, index)
	}
	names := make([]string, 0, len(clips))
	for _, clip := range clips {
		name, err := clip.Name(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "timeline item name")
		}
		names = append(names, name)
	}
	return map[string]any{"kind": string(kind), "index": index, "items": names}, nil, nil
}
