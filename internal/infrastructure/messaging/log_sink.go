package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/notification"
)

var _ notification.Sink = (*LogSink)(nil)

// LogSink escribe los eventos en el log. Es el canal por defecto cuando no hay NATS ni SMTP.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("sink", "log").Logger()}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, ev notification.Event) error {
	s.log.Info().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("recipient", ev.Recipient).
		Interface("payload", ev.Payload).
		Time("occurred_at", ev.OccurredAt).
		Msg("notificación")
	return nil
}
