package testutil

import (
	"html"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code, body: %s", resp.Body)
}

// AssertRedirect verifies a 302 to location
func AssertRedirect(t *testing.T, resp *Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode, "expected a redirect, body: %s", resp.Body)
	assert.Equal(t, location, resp.Header.Get("Location"), "unexpected redirect target")
}

// AssertBodyContains checks the unescaped page text for substr
func AssertBodyContains(t *testing.T, resp *Response, substr string) {
	t.Helper()
	assert.Contains(t, html.UnescapeString(resp.Body), substr)
}

func AssertBodyNotContains(t *testing.T, resp *Response, substr string) {
	t.Helper()
	assert.NotContains(t, html.UnescapeString(resp.Body), substr)
}

// AssertErrorMessages verifies every message is listed on the page
func AssertErrorMessages(t *testing.T, resp *Response, messages ...string) {
	t.Helper()
	body := html.UnescapeString(resp.Body)
	assert.Contains(t, body, `class="errors"`, "no error list rendered")
	for _, msg := range messages {
		assert.Contains(t, body, "<li>"+msg+"</li>", "missing error message")
	}
}

// ErrorMessages extracts the rendered error list items in order
func ErrorMessages(resp *Response) []string {
	body := html.UnescapeString(resp.Body)
	start := strings.Index(body, `<ul class="errors">`)
	if start < 0 {
		return nil
	}
	end := strings.Index(body[start:], "</ul>")
	if end < 0 {
		return nil
	}

	var messages []string
	for _, part := range strings.Split(body[start:start+end], "<li>")[1:] {
		if i := strings.Index(part, "</li>"); i >= 0 {
			messages = append(messages, part[:i])
		}
	}
	return messages
}
