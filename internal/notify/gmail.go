package notify

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender posts raw messages through the Gmail API on behalf of the
// account that owns the refresh token.
type GmailSender struct {
	from    Identity
	service *gmail.Service
}

func NewGmailSender(ctx context.Context, clientID, clientSecret, refreshToken string, from Identity) (*GmailSender, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}

	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return NewGmailSenderWithService(svc, from), nil
}

func NewGmailSenderWithService(svc *gmail.Service, from Identity) *GmailSender {
	return &GmailSender{from: from, service: svc}
}

func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	raw, err := Render(g.from, msg)
	if err != nil {
		return &DeliveryError{Provider: "gmail", Err: err}
	}

	_, err = g.service.Users.Messages.
		Send("me", &gmail.Message{Raw: base64.RawURLEncoding.EncodeToString(raw)}).
		Context(ctx).
		Do()
	if err != nil {
		return &DeliveryError{Provider: "gmail", Err: err}
	}
	return nil
}
