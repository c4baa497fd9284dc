package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"cadenza/internal/log"
)

// GmailSender delivers reminders as plain-text mail through the Gmail API.
type GmailSender struct {
	svc    *gmail.Service
	from   string
	logger *log.Logger
}

// NewGmailSender builds a sender authenticated with the given credentials
// JSON, or with Application Default Credentials when credentialsJSON is
// empty.
func NewGmailSender(ctx context.Context, from string, credentialsJSON []byte) (*GmailSender, error) {
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("missing sender address")
	}

	opts := []option.ClientOption{option.WithScopes(gmail.GmailSendScope)}
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}

	return &GmailSender{
		svc:    svc,
		from:   from,
		logger: log.Default().WithComponent(log.ComponentNotify),
	}, nil
}

// Send implements scheduler.NotificationSender.
func (g *GmailSender) Send(ctx context.Context, address, subject, body string) error {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		g.from, address, subject, body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := g.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	g.logger.InfoContext(ctx, "Sent reminder mail", "to", address, "subject", subject)
	return nil
}
