package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	tpl "github.com/oksasatya/lincup/pkg/mailer/templates"
)

// Sender delivers one rendered message; *Mailgun satisfies it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

var ErrNoRecipient = errors.New("email job has no recipient")

// Decode parses a queued job and renders its template when one is named.
func Decode(body []byte) (job EmailJob, subject, text, html string, err error) {
	if err = json.Unmarshal(body, &job); err != nil {
		return job, "", "", "", fmt.Errorf("decode job: %w", err)
	}
	job.To = strings.TrimSpace(job.To)
	if job.To == "" {
		return job, "", "", "", ErrNoRecipient
	}
	if job.Template == "" {
		return job, job.Subject, job.Text, job.HTML, nil
	}
	subject, text, html, err = tpl.Render(job.Template, job.Data)
	return job, subject, text, html, err
}

// Handle processes one delivery. Malformed jobs are dropped; send failures are retried.
func Handle(ctx context.Context, s Sender, body []byte, timeout time.Duration) (Outcome, error) {
	job, subject, text, html, err := Decode(body)
	if err != nil {
		return Drop, err
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Send(c, job.To, subject, text, html); err != nil {
		return Retry, fmt.Errorf("send %s to %s: %w", job.Template, job.To, err)
	}
	return Ack, nil
}
