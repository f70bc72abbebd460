package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("email delivery not configured")

type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers one message and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Resend sends through the Resend API.
type Resend struct {
	client *resend.Client
}

func NewResend(apiKey string) *Resend {
	return &Resend{client: resend.NewClient(apiKey)}
}

func (m *Resend) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return resp.Id, nil
}

// Disabled is used when no API key is configured; every send fails.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) (string, error) {
	return "", ErrNotConfigured
}
