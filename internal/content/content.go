// Package content prepares message text for display: GIF-URL
// detection and markdown rendering with strict HTML sanitization.
package content

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	policy = bluemonday.UGCPolicy()

	gifExtRegex = regexp.MustCompile(`(?i)\.gif(\?|$)`)

	md = goldmark.New()
)

// Sanitize removes unsafe HTML from the input string using a strict
// policy. Applied to every message body before it reaches a view.
func Sanitize(input string) string {
	return policy.Sanitize(input)
}

// IsGIFURL reports whether a message body is a GIF link that should be
// rendered as an inline image rather than text.
func IsGIFURL(body string) bool {
	body = strings.TrimSpace(body)
	if body == "" || strings.ContainsAny(body, " \t\n") {
		return false
	}
	if !strings.HasPrefix(body, "http://") && !strings.HasPrefix(body, "https://") {
		return false
	}
	return gifExtRegex.MatchString(body) || strings.Contains(strings.ToLower(body), "giphy.com")
}

// Render converts markdown message text to sanitized HTML. GIF links
// are returned as an image tag instead.
func Render(body string) (template.HTML, error) {
	if IsGIFURL(body) {
		escaped := template.HTMLEscapeString(body)
		return template.HTML(`<img src="` + escaped + `" alt="GIF">`), nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}
