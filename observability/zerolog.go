package observability

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologObserver emits events through a zerolog.Logger as structured JSON.
// Event levels are mapped onto zerolog levels, the event type becomes the log
// message, and Data keys are flattened as top-level fields.
type ZerologObserver struct {
	logger zerolog.Logger
}

// NewZerologObserver creates a ZerologObserver that emits to the given logger.
func NewZerologObserver(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{logger: logger}
}

func (o *ZerologObserver) OnEvent(ctx context.Context, event Event) {
	o.logger.WithLevel(zerologLevel(event.Level)).
		Str("source", event.Source).
		Fields(event.Data).
		Msg(string(event.Type))
}

func zerologLevel(l Level) zerolog.Level {
	switch {
	case l <= 8:
		return zerolog.DebugLevel
	case l <= 12:
		return zerolog.InfoLevel
	case l <= 16:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
