package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func playbackOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "play",
			Description: "Start playback.",
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     play,
		},
		{
			Name:        "stop",
			Description: "Stop playback.",
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     stop,
		},
		{
			Name:        "get_timecode",
			Description: "Read the playhead timecode.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getTimecode,
		},
		{
			Name:        "set_playhead",
			Description: "Move the playhead to a timecode or frame.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"timecode": schema.NonEmptyString("Target timecode, HH:MM:SS:FF."),
				"frame":    schema.IntegerMin("Target frame on the current timeline.", 0),
			})),
			Handler: setPlayhead,
		},
	}
}

func play(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	if err := sess.Conn().Play(ctx); err != nil {
		return nil, nil, hosterr(err, "start playback")
	}
	return map[string]any{"playing": true}, nil, nil
}

func stop(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	if err := sess.Conn().Stop(ctx); err != nil {
		return nil, nil, hosterr(err, "stop playback")
	}
	return map[string]any{"playing": false}, nil, nil
}

func getTimecode(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	timecode, err := sess.Conn().CurrentTimecode(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "current timecode")
	}
	return map[string]any{"timecode": timecode}, nil, nil
}

func setPlayhead(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	hasTimecode := args.Has("timecode")
	hasFrame := args.Has("frame")
	if hasTimecode == hasFrame {
		return nil, nil, outcome.NewError(outcome.ValidationError, "exactly one of timecode or frame is required")
	}
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	timecode := args.String("timecode")
	if hasFrame {
		timecode, err = timeline.TimecodeFromFrame(ctx, args.Int("frame"))
		if err != nil {
			return nil, nil, hosterr(err, "timecode for frame %d", args.Int("frame"))
		}
	}
	ok, err := timeline.SetCurrentTimecode(ctx, timecode)
	if err != nil {
		return nil, nil, hosterr(err, "set playhead to %s", timecode)
	}
	if !ok {
		// Policy: false means the timecode lies outside the timeline or
		// is malformed; either way the argument is the problem.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected timecode %q", timecode)
	}
	return map[string]any{"timecode": timecode}, nil, nil
}
