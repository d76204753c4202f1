package events

import "github.com/rs/zerolog"

// LogOutput writes each event as a structured log line.
type LogOutput struct {
	logger zerolog.Logger
}

func NewLogOutput(logger zerolog.Logger) *LogOutput {
	return &LogOutput{logger: logger}
}

func (l *LogOutput) WriteMessage(topic string, msg []byte) error {
	l.logger.Info().Str("topic", topic).RawJSON("event", msg).Msg("event")
	return nil
}

func (l *LogOutput) Close() error { return nil }
