// Package email sends transactional email through Resend. Bodies are
// rendered from HTML templates embedded in the binary.
package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/request-tour/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Sender is the part of the Resend API the client uses.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and hands the result to a Sender.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient builds a Resend-backed client from the integration config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return NewClientWithSender(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration.EmailFrom, logger)
}

// NewClientWithSender builds a client around any Sender.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, from: from, logger: logger}
}

// SendEmail renders templateName with data and sends it to a single
// recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data any) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	resp, err := c.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().Str("template", string(templateName)).Str("email_id", resp.Id).Msg("email sent")
	return nil
}

// WelcomeData fills the welcome template.
type WelcomeData struct {
	Username string
	Email    string
	FullName string
}

// SendWelcomeEmail greets a newly created user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to string, data WelcomeData) error {
	return c.SendEmail(ctx, to, "Welcome to Request Tour!", TemplateWelcome, data)
}
