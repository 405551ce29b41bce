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

func clipOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "set_clip_property",
			Description: "Set a property on the clip under the playhead.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"property": schema.NonEmptyString("Property name, e.g. ZoomX."),
				"value":    schema.Number("Property value."),
			}, "property", "value")),
			Handler: setClipProperty,
		},
		{
			Name:        "get_clip_property",
			Description: "Read a property of the clip under the playhead.",
			ReadOnly:    true,
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"property": schema.NonEmptyString("Property name, e.g. ZoomX."),
			}, "property")),
			Handler: getClipProperty,
		},
	}
}

// Properties absent in a host edition map to Unsupported, not
// InvalidArgument: the argument is well-formed; the capability is missing.

func setClipProperty(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	property := args.String("property")
	value := args.Float("value")
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	if err := clip.SetProperty(ctx, property, value); err != nil {
		if errors.Is(err, host.ErrUnknownProperty) {
			return nil, nil, outcome.NewError(outcome.Unsupported, "clip property %q is not supported by this host", property)
		}
		return nil, nil, hosterr(err, "set clip property %q", property)
	}
	return map[string]any{"property": property, "value": value}, nil, nil
}

func getClipProperty(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	property := args.String("property")
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	value, err := clip.Property(ctx, property)
	if err != nil {
		if errors.Is(err, host.ErrUnknownProperty) {
			return nil, nil, outcome.NewError(outcome.Unsupported, "clip property %q is not supported by this host", property)
		}
		return nil, nil, hosterr(err, "read clip property %q", property)
	}
	return map[string]any{"property": property, "value": value}, nil, nil
}
