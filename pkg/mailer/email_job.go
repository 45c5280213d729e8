package mailer

import (
	"time"

	tpl "github.com/oksasatya/lincup/pkg/mailer/templates"
)

// EmailJob is the queued message. A job names a Template rendered by the worker,
// or carries a literal Subject with Text/HTML bodies.
type EmailJob struct {
	To         string         `json:"to"`
	Subject    string         `json:"subject,omitempty"`
	Text       string         `json:"text,omitempty"`
	HTML       string         `json:"html,omitempty"`
	Template   string         `json:"template,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// NewTemplateJob builds a job for one of the account templates.
func NewTemplateJob(to, template string, data tpl.Data) EmailJob {
	return EmailJob{To: to, Template: template, Data: data.Map(), EnqueuedAt: time.Now().UTC()}
}
