package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// MailgunOptions configures the Mailgun sender. APIBase selects the region
// (mg.APIBaseEU for EU domains); Timeout bounds a single send.
type MailgunOptions struct {
	Domain  string
	APIKey  string
	Sender  string
	APIBase string
	Timeout time.Duration
}

// Mailgun sends rendered messages through the Mailgun API. It satisfies Sender.
type Mailgun struct {
	client  *mg.MailgunImpl
	sender  string
	timeout time.Duration
}

func NewMailgun(opts MailgunOptions) *Mailgun {
	client := mg.NewMailgun(opts.Domain, opts.APIKey)
	if opts.APIBase != "" {
		client.SetAPIBase(opts.APIBase)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailgun{client: client, sender: opts.Sender, timeout: timeout}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
