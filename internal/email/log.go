package email

import (
	"context"
	"log/slog"
)

// LogSender writes emails to the log instead of delivering them. Used in
// development when no SMTP server is configured, so the code can be read
// from the server output.
type LogSender struct{}

// NewLogSender creates a new LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

func (*LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	slog.Info("email (log sender, not delivered)", "to", to, "subject", subject, "body", htmlBody)
	return nil
}
