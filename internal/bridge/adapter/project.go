package adapter

import (
	"context"
	"errors"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func projectOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "create_project",
			Description: "Create a new project and make it current.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name": schema.NonEmptyString("Project name."),
			}, "name")),
			Handler: createProject,
		},
		{
			Name:        "load_project",
			Description: "Open an existing project by name.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name": schema.NonEmptyString("Project name."),
			}, "name")),
			Handler: loadProject,
		},
		{
			Name:        "save_project",
			Description: "Save the current project.",
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     saveProject,
		},
		{
			Name:        "export_project",
			Description: "Export a project to a file.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"name": schema.NonEmptyString("Project name."),
				"path": schema.NonEmptyString("Destination file path."),
			}, "name", "path")),
			Handler: exportProject,
		},
		{
			Name:        "import_project",
			Description: "Import a project from a file.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"path": schema.NonEmptyString("Project archive path."),
			}, "path")),
			Handler: importProject,
		},
		{
			Name:        "get_project_info",
			Description: "Report the current project's name and timelines.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getProjectInfo,
		},
		{
			Name:        "get_project_setting",
			Description: "Read a project setting, or all settings.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"key": schema.NonEmptyString("Setting key; omit for all settings."),
			})),
			Handler: getProjectSetting,
		},
		{
			Name:        "set_project_setting",
			Description: "Write one project setting.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"key":   schema.NonEmptyString("Setting key."),
				"value": schema.NonEmptyString("Setting value."),
			}, "key", "value")),
			Handler: setProjectSetting,
		},
	}
}

func createProject(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	pm, err := sess.Conn().ProjectManager(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "project manager")
	}
	// The host returns nothing on a duplicate create, so the name list is
	// checked first to report the collision distinctly.
	names, err := pm.ProjectNames(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "list projects")
	}
	if containsString(names, name) {
		return nil, nil, outcome.NewError(outcome.AlreadyExists, "project %q already exists", name)
	}
	if _, err := pm.CreateProject(ctx, name); err != nil {
		return nil, nil, hosterr(err, "create project %q", name)
	}
	intent := &session.Intent{
		Project:       &session.ProjectRef{Name: name},
		ClearTimeline: true,
	}
	return map[string]any{"name": name}, intent, nil
}

func loadProject(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	pm, err := sess.Conn().ProjectManager(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "project manager")
	}
	if _, err := pm.LoadProject(ctx, name); err != nil {
		if errors.Is(err, host.ErrStale) {
			return nil, nil, outcome.NewError(outcome.NotFound, "project %q not found", name)
		}
		return nil, nil, hosterr(err, "load project %q", name)
	}
	intent := &session.Intent{
		Project:       &session.ProjectRef{Name: name},
		ClearTimeline: true,
	}
	return map[string]any{"name": name}, intent, nil
}

func saveProject(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := project.Save(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "save project")
	}
	if !ok {
		// Policy: the host answers false only when the save itself failed
		// host-side (locked database, disk). That is an unexpected fault.
		return nil, nil, outcome.NewError(outcome.Internal, "host declined to save the project")
	}
	return map[string]any{"saved": true}, nil, nil
}

func exportProject(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := args.String("name")
	path := args.String("path")
	pm, err := sess.Conn().ProjectManager(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "project manager")
	}
	names, err := pm.ProjectNames(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "list projects")
	}
	if !containsString(names, name) {
		return nil, nil, outcome.NewError(outcome.NotFound, "project %q not found", name)
	}
	ok, err := pm.ExportProject(ctx, name, path)
	if err != nil {
		return nil, nil, hosterr(err, "export project %q", name)
	}
	if !ok {
		// Policy: the project name resolved above, so a false here means
		// the destination path was rejected.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected export path %q", path)
	}
	return map[string]any{"name": name, "path": path}, nil, nil
}

func importProject(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	path := args.String("path")
	pm, err := sess.Conn().ProjectManager(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "project manager")
	}
	ok, err := pm.ImportProject(ctx, path)
	if err != nil {
		return nil, nil, hosterr(err, "import project from %q", path)
	}
	if !ok {
		// Policy: false covers both an unreadable path and a malformed
		// archive; the argument is the only thing the caller can fix.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected project archive %q", path)
	}
	return map[string]any{"path": path}, nil, nil
}

func getProjectInfo(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	name, err := project.Name(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "project name")
	}
	names, err := timelineNames(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	value := map[string]any{
		"name":           name,
		"timeline_count": len(names),
		"timelines":      names,
	}
	if timeline, err := project.CurrentTimeline(ctx); err == nil {
		if tlName, err := timeline.Name(ctx); err == nil {
			value["current_timeline"] = tlName
		}
	}
	return value, nil, nil
}

func getProjectSetting(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	settings, err := project.Settings(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "project settings")
	}
	if !args.Has("key") {
		all := make(map[string]any, len(settings))
		for k, v := range settings {
			all[k] = v
		}
		return map[string]any{"settings": all}, nil, nil
	}
	key := args.String("key")
	value, ok := settings[key]
	if !ok {
		return nil, nil, outcome.NewError(outcome.NotFound, "project setting %q not found", key)
	}
	return map[string]any{"key": key, "value": value}, nil, nil
}

func setProjectSetting(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	project, err := currentProject(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	key := args.String("key")
	value := args.String("value")
	ok, err := project.SetSetting(ctx, key, value)
	if err != nil {
		return nil, nil, hosterr(err, "set project setting %q", key)
	}
	if !ok {
		// Policy: the host answers false for setting keys it does not
		// recognize, never for valid keys with bad values.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected project setting %q", key)
	}
	return map[string]any{"key": key, "value": value}, nil, nil
}
