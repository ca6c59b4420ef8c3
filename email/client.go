// Package email sends merchant notifications through Resend.
package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"

	"github.com/compra-app/compra-go/email/templates"
	"github.com/compra-app/compra-go/models"
)

type Client struct {
	resend    *resend.Client
	fromEmail string
	fromName  string
}

func NewClient() (*Client, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@compra.app"
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Compra"
	}

	return &Client{
		resend:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendAnalyticsDigest emails a store its survey performance summary.
func (c *Client) SendAnalyticsDigest(store *models.Store, digests []templates.SurveyDigest) error {
	to := store.Settings.NotificationEmail
	if to == "" {
		to = store.Email
	}
	if to == "" {
		return fmt.Errorf("store %s has no notification email", store.ID)
	}

	content := templates.GetDigestContent(templates.DigestProps{
		ShopDomain: store.ShopDomain,
		Frequency:  store.Settings.AnalyticsFrequency,
		Surveys:    digests,
	})
	html := templates.GetEmailLayout(templates.EmailLayoutProps{Content: content})

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: fmt.Sprintf("Survey analytics digest for %s", store.ShopDomain),
		Html:    html,
	}
	if _, err := c.resend.Emails.Send(request); err != nil {
		return fmt.Errorf("failed to send analytics digest: %w", err)
	}
	return nil
}
