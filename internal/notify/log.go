package notify

import (
	"context"
	"log/slog"
)

// LogSender writes a summary of each message to the log instead of sending
// it. Meant for local development without mail credentials.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	attachments := make([]string, 0, len(msg.Attachments))
	for _, att := range msg.Attachments {
		attachments = append(attachments, att.Filename)
	}
	l.log.InfoContext(ctx, "notification not sent (log provider)",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", attachments,
		"html_bytes", len(msg.HTMLBody),
	)
	return nil
}
