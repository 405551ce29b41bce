package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func mediaOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "import_media",
			Description: "Import files from media storage into the media pool.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"paths": schema.NonEmptyArrayOf(schema.NonEmptyString("Source file path."), "Files to import."),
			}, "paths")),
			Handler: importMedia,
		},
		{
			Name:        "create_folder",
			Description: "Create a subfolder in the current media pool folder.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name": schema.NonEmptyString("Folder name."),
			}, "name")),
			Handler: createFolder,
		},
		{
			Name:        "list_folder",
			Description: "List clips and subfolders of a media pool folder.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"folder": schema.Enum("Which folder to list.", "current", "root"),
			})),
			Handler: listFolder,
		},
		{
			Name:        "get_clip_metadata",
			Description: "Read a media pool clip's metadata.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"clip": schema.NonEmptyString("Clip name."),
			}, "clip")),
			Handler: getClipMetadata,
		},
		{
			Name:        "list_mounted_volumes",
			Description: "List media storage volumes.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     listMountedVolumes,
		},
		{
			Name:        "list_storage_files",
			Description: "List files and subfolders at a media storage path.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"path": schema.NonEmptyString("Storage path."),
			}, "path")),
			Handler: listStorageFiles,
		},
	}
}

func importMedia(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	paths := args.Strings("paths")
	if _, err := currentProject(ctx, sess); err != nil {
		return nil, nil, err
	}
	storage, err := sess.Conn().MediaStorage(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media storage")
	}
	clips, err := storage.AddItemsToMediaPool(ctx, paths)
	if err != nil {
		return nil, nil, hosterr(err, "import media")
	}
	names := make([]string, 0, len(clips))
	for _, clip := range clips {
		name, err := clip.Name(ctx)
		if err != nil {
			return nil, nil, hosterr(err, "imported clip name")
		}
		names = append(names, name)
	}
	return map[string]any{"imported": names}, nil, nil
}

func createFolder(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	parent, err := pool.CurrentFolder(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "current folder")
	}
	// The host answers an existing name with a silent failure; the
	// subfolder list is checked first to report the collision distinctly.
	existing, err := parent.SubFolderNames(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "list subfolders")
	}
	if containsString(existing, name) {
		return nil, nil, outcome.NewError(outcome.AlreadyExists, "folder %q already exists", name)
	}
	if _, err := pool.AddSubFolder(ctx, parent, name); err != nil {
		return nil, nil, hosterr(err, "create folder %q", name)
	}
	return map[string]any{"name": name}, nil, nil
}

func listFolder(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	var folder host.Folder
	if args.StringOr("folder", "current") == "root" {
		folder, err = pool.RootFolder(ctx)
	} else {
		folder, err = pool.CurrentFolder(ctx)
	}
	if err != nil {
		return nil, nil, hosterr(err, "resolve folder")
	}
	name, err := folder.Name(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "folder name")
	}
	clips, err := folder.ClipNames(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "folder clips")
	}
	subs, err := folder.SubFolderNames(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "folder subfolders")
	}
	return map[string]any{"name": name, "clips": clips, "folders": subs}, nil, nil
}

func getClipMetadata(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	clipName := args.String("clip")
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	pool, err := project.MediaPool(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media pool")
	}
	clips, err := clipsByName(ctx, pool, []string{clipName})
	if err != nil {
		return nil, nil, err
	}
	metadata, err := clips[0].Metadata(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "clip metadata")
	}
	fields := make(map[string]any, len(metadata))
	for k, v := range metadata {
		fields[k] = v
	}
	return map[string]any{"clip": clipName, "metadata": fields}, nil, nil
}

func listMountedVolumes(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	storage, err := sess.Conn().MediaStorage(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media storage")
	}
	volumes, err := storage.MountedVolumes(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "mounted volumes")
	}
	return map[string]any{"volumes": volumes}, nil, nil
}

func listStorageFiles(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	path := args.String("path")
	storage, err := sess.Conn().MediaStorage(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "media storage")
	}
	folders, err := storage.SubFolders(ctx, path)
	if err != nil {
		return nil, nil, hosterr(err, "storage subfolders")
	}
	files, err := storage.Files(ctx, path)
	if err != nil {
		return nil, nil, hosterr(err, "storage files")
	}
	return map[string]any{"path": path, "folders": folders, "files": files}, nil, nil
}
