package identity

import (
	"context"
	"io"
	"log"
)

// Mailer delivers verification links.
type Mailer interface {
	SendVerification(ctx context.Context, email, link string) error
}

// LogMailer writes the link to the log instead of sending mail.
type LogMailer struct {
	Logger *log.Logger
}

func (m LogMailer) SendVerification(_ context.Context, email, link string) error {
	logger := m.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	logger.Printf("identity: verification email to=%s link=%s", email, link)
	return nil
}
