package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// defaultStillAlbum receives stills saved without a named album.
const defaultStillAlbum = "Stills"

var versionKindSchema = schema.Enum("Version stack.", string(host.VersionColor), string(host.VersionFusion))

func colorOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "get_color_nodes",
			Description: "List color node labels of the clip under the playhead.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getColorNodes,
		},
		{
			Name:        "add_color_node",
			Description: "Append a node to the clip's color graph.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"node_type": schema.NonEmptyString("Node type, e.g. Corrector."),
			}, "node_type")),
			Handler: addColorNode,
		},
		{
			Name:        "save_still",
			Description: "Save the clip's grade as a gallery still.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"album": schema.NonEmptyString("Target album; created if absent."),
			})),
			Handler: saveStill,
		},
		{
			Name:        "apply_still",
			Description: "Apply a gallery still's grade to the clip under the playhead.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"album": schema.NonEmptyString("Album name."),
				"label": schema.NonEmptyString("Still label."),
			}, "album", "label")),
			Handler: applyStill,
		},
		{
			Name:        "list_gallery_albums",
			Description: "List gallery albums and their stills.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     listGalleryAlbums,
		},
		{
			Name:        "get_version_count",
			Description: "Count the clip's color or fusion versions.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"kind": versionKindSchema,
			}, "kind")),
			Handler: getVersionCount,
		},
		{
			Name:        "set_current_version",
			Description: "Select one of the clip's color or fusion versions.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"index": schema.IntegerMin("0-based version index.", 0),
				"kind":  versionKindSchema,
			}, "index", "kind")),
			Handler: setCurrentVersion,
		},
	}
}

func currentGallery(ctx context.Context, sess *session.Session) (host.Gallery, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, err
	}
	gallery, err := project.Gallery(ctx)
	if err != nil {
		return nil, hosterr(err, "project gallery")
	}
	return gallery, nil
}

func getColorNodes(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	graph, err := clip.ColorGraph(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "clip color graph")
	}
	labels, err := graph.NodeLabels(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "color node labels")
	}
	return map[string]any{"nodes": labels}, nil, nil
}

func addColorNode(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	nodeType := args.String("node_type")
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	graph, err := clip.ColorGraph(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "clip color graph")
	}
	label, err := graph.AddNode(ctx, nodeType)
	if err != nil {
		return nil, nil, hosterr(err, "add %s color node", nodeType)
	}
	return map[string]any{"node": label}, nil, nil
}

func saveStill(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	gallery, err := currentGallery(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	albumName := args.StringOr("album", defaultStillAlbum)
	album, ok, err := gallery.Album(ctx, albumName)
	if err != nil {
		return nil, nil, hosterr(err, "album %q", albumName)
	}
	if !ok {
		album, err = gallery.CreateAlbum(ctx, albumName)
		if err != nil {
			return nil, nil, hosterr(err, "create album %q", albumName)
		}
	}
	still, err := clip.SaveAsStill(ctx, album)
	if err != nil {
		return nil, nil, hosterr(err, "save still")
	}
	label, err := still.Label(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "still label")
	}
	return map[string]any{"album": albumName, "label": label}, nil, nil
}

func applyStill(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	albumName := args.String("album")
	label := args.String("label")
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	gallery, err := currentGallery(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	album, ok, err := gallery.Album(ctx, albumName)
	if err != nil {
		return nil, nil, hosterr(err, "album %q", albumName)
	}
	if !ok {
		return nil, nil, outcome.NewError(outcome.NotFound, "album %q not found", albumName)
	}
	still, ok, err := album.Still(ctx, label)
	if err != nil {
		return nil, nil, hosterr(err, "still %q", label)
	}
	if !ok {
		return nil, nil, outcome.NewError(outcome.NotFound, "still %q not found in album %q", label, albumName)
	}
	applied, err := clip.ApplyGradeFromStill(ctx, still)
	if err != nil {
		return nil, nil, hosterr(err, "apply still %q", label)
	}
	if !applied {
		// Policy: the still resolved just above, so a false is a host-side
		// grade transfer failure, not a missing still.
		return nil, nil, outcome.NewError(outcome.Internal, "host declined to apply still %q", label)
	}
	return map[string]any{"album": albumName, "label": label}, nil, nil
}

func listGalleryAlbums(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	gallery, err := currentGallery(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	albums, err := gallery.Albums(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "gallery albums")
	}
	listed := make([]map[string]any, 0, len(albums))
	for _, album := range albums {
		name, err := album.Name(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "album name")
		}
		labels, err := album.StillLabels(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "stills of album %q", name)
		}
		listed = append(listed, map[string]any{"name": name, "stills": labels})
	}
	return map[string]any{"albums": listed}, nil, nil
}

func getVersionCount(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	kind := host.VersionKind(args.String("kind"))
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	count, err := clip.VersionCount(ctx, kind)
	if err != nil {
		return nil, nil, hosterr(err, "%s version count", kind)
	}
	return map[string]any{"kind": string(kind), "count": count}, nil, nil
}

func setCurrentVersion(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	kind := host.VersionKind(args.String("kind"))
	index := args.Int("index")
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := clip.SetCurrentVersion(ctx, index, kind)
	if err != nil {
		return nil, nil, hosterr(err, "set %s version %d", kind, index)
	}
	if !ok {
		// Policy: false means the version index does not exist.
		return nil, nil, outcome.NewError(outcome.NotFound, "%s version %d not found", kind, index)
	}
	return map[string]any{"kind": string(kind), "index": index}, nil, nil
}
