// Package notify delivers email notifications through one of several
// interchangeable backends chosen by configuration.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/jhillyerd/enmime"
	"quote-backend/internal/config"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Headers     map[string]string
	Attachments []Attachment
}

// Sender delivers a message. A nil error means the backend accepted the
// message, not that it reached the mailbox.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Identity is the From address of outgoing mail.
type Identity struct {
	Name    string
	Address string
}

// DeliveryError wraps a backend failure.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// New builds the sender selected by cfg.NotifyProvider.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (Sender, error) {
	from := Identity{Name: cfg.SenderName, Address: cfg.EmailUser}

	switch cfg.NotifyProvider {
	case config.ProviderSMTP:
		return NewSMTPSender(cfg.SMTPAddr(), cfg.EmailUser, cfg.EmailPass, from), nil
	case config.ProviderGmail:
		return NewGmailSender(ctx, cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, from)
	case config.ProviderLog:
		return NewLogSender(log), nil
	}
	return nil, fmt.Errorf("unknown notification provider %q", cfg.NotifyProvider)
}

func builder(from Identity, msg Message) enmime.MailBuilder {
	b := enmime.Builder().
		From(from.Name, from.Address).
		Subject(msg.Subject).
		HTML([]byte(msg.HTMLBody))
	if msg.TextBody != "" {
		b = b.Text([]byte(msg.TextBody))
	}
	for _, to := range msg.To {
		b = b.To("", to)
	}
	for name, value := range msg.Headers {
		b = b.Header(name, value)
	}
	for _, att := range msg.Attachments {
		b = b.AddAttachment(att.Data, att.ContentType, att.Filename)
	}
	return b
}

// Render encodes msg as an RFC 5322 message.
func Render(from Identity, msg Message) ([]byte, error) {
	part, err := builder(from, msg).Build()
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	buf := bytes.NewBuffer(nil)
	if err := part.Encode(buf); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return buf.Bytes(), nil
}
