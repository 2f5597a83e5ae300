package notify

import (
	"context"
	"net"
	"net/smtp"

	"github.com/jhillyerd/enmime"
)

type SMTPSender struct {
	from      Identity
	transport enmime.Sender
}

// NewSMTPSender sends through an authenticated SMTP relay (STARTTLS when the
// server offers it).
func NewSMTPSender(addr, user, pass string, from Identity) *SMTPSender {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	auth := smtp.PlainAuth("", user, pass, host)
	return NewSMTPSenderWithTransport(enmime.NewSMTP(addr, auth), from)
}

func NewSMTPSenderWithTransport(transport enmime.Sender, from Identity) *SMTPSender {
	return &SMTPSender{from: from, transport: transport}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Provider: "smtp", Err: err}
	}
	if err := builder(s.from, msg).Send(s.transport); err != nil {
		return &DeliveryError{Provider: "smtp", Err: err}
	}
	return nil
}
