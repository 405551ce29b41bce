package adapter

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

// Volumes are linear gain: 1.0 is unity, 0 is silence. The host caps gain
// well below 10, so the schema bound rejects obvious unit mistakes (e.g.
// percentages) before any host call.
const maxVolume = 10

func audioOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "get_audio_volume",
			Description: "Read the audio volume of the clip under the playhead.",
			ReadOnly:    true,
			Schema:      schema.MustCompile(schema.Object(nil)),
			Handler:     getAudioVolume,
		},
		{
			Name:        "set_audio_volume",
			Description: "Set the audio volume of the clip under the playhead.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"volume": schema.NumberRange("Linear gain; 1.0 is unity.", 0, maxVolume),
			}, "volume")),
			Handler: setAudioVolume,
		},
		{
			Name:        "set_track_volume",
			Description: "Set an audio track's volume on the current timeline.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"index":  schema.IntegerMin("1-based audio track index.", 1),
				"volume": schema.NumberRange("Linear gain; 1.0 is unity.", 0, maxVolume),
			}, "index", "volume")),
			Handler: setTrackVolume,
		},
	}
}

func getAudioVolume(ctx context.Context, sess *session.Session, _ schema.Args) (map[string]any, *session.Intent, error) {
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	volume, err := clip.AudioVolume(ctx)
	if err != nil {
		return nil, nil, hosterr(err, "clip audio volume")
	}
	return map[string]any{"volume": volume}, nil, nil
}

func setAudioVolume(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	volume := args.Float("volume")
	clip, err := currentVideoItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := clip.SetAudioVolume(ctx, volume)
	if err != nil {
		return nil, nil, hosterr(err, "set clip audio volume")
	}
	if !ok {
		// Policy: the schema already bounds the range, so a false is the
		// host rejecting a value inside our bounds but outside its own.
		return nil, nil, outcome.NewError(outcome.InvalidArgument, "host rejected volume %v", volume)
	}
	return map[string]any{"volume": volume}, nil, nil
}

func setTrackVolume(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	index := args.Int("index")
	volume := args.Float("volume")
	timeline, err := currentTimeline(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	ok, err := timeline.SetTrackVolume(ctx, index, volume)
	if err != nil {
		return nil, nil, hosterr(err, "set track %d volume", index)
	}
	if !ok {
		// Policy: false means the audio track index does not exist.
		return nil, nil, outcome.NewError(outcome.NotFound, "audio track %d not found", index)
	}
	return map[string]any{"index": index, "volume": volume}, nil, nil
}
