package speciesapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxMessageLen = 200

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("species service returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("species service returned %d: %s", e.Code, e.Message)
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	return &StatusError{
		Code:    resp.StatusCode,
		Message: errorMessage(resp.Header.Get("Content-Type"), body),
	}
}

// errorMessage pulls something readable out of an error body. HTML pages
// (the usual gateway error) are reduced to their title or first heading.
func errorMessage(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if strings.Contains(contentType, "html") || trimmed[0] == '<' {
		if msg := htmlMessage(trimmed); msg != "" {
			return msg
		}
	}
	return truncate(strings.Join(strings.Fields(string(trimmed)), " "), maxMessageLen)
}

func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1", "body"} {
		text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
		if text != "" {
			return truncate(text, maxMessageLen)
		}
	}
	return ""
}

// truncate keeps the first max runes of s.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
