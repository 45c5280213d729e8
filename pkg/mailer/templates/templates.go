// Package templates renders the transactional emails.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

const (
	Welcome          = "welcome"
	PasswordRecovery = "password_recovery"
)

//go:embed *.tmpl
var files embed.FS

var subjects = map[string]string{
	Welcome:          "Welcome to Linc-Up",
	PasswordRecovery: "Password recovery for your Linc-Up account",
}

var (
	htmlSet = htmpl.Must(htmpl.ParseFS(files, "*.html.tmpl"))
	textSet = texttpl.Must(texttpl.ParseFS(files, "*.txt.tmpl"))
)

// Data is the template input. Keys mirror the fields used in the .tmpl files.
type Data struct {
	AppName    string
	Email      string
	SupportURL string
	Time       string
}

func (d Data) Map() map[string]any {
	return map[string]any{
		"AppName":    d.AppName,
		"Email":      d.Email,
		"SupportURL": d.SupportURL,
		"Time":       d.Time,
	}
}

// Render returns subject, plain text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	var tb, hb bytes.Buffer
	if err := textSet.ExecuteTemplate(&tb, name+".txt.tmpl", data); err != nil {
		return "", "", "", err
	}
	if err := htmlSet.ExecuteTemplate(&hb, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return subject, tb.String(), hb.String(), nil
}
