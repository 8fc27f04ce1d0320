package mailservice

import "github.com/rs/zerolog"

type zerologLogger struct {
	l zerolog.Logger
}

// NewLogger adapts a zerolog logger to MailLogger.
func NewLogger(l zerolog.Logger) MailLogger {
	return &zerologLogger{l: l.With().Str("service", "mail").Logger()}
}

func (z *zerologLogger) Error(msg string, args ...any) {
	z.l.Error().Fields(args).Msg(msg)
}

func (z *zerologLogger) Info(msg string, args ...any) {
	z.l.Info().Fields(args).Msg(msg)
}
