package testutil

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// Response is a fully read HTTP response.
type Response struct {
	*http.Response
	Body string
}

// Get issues a GET with client and reads the body.
func Get(t *testing.T, client *http.Client, target string) *Response {
	t.Helper()

	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s failed: %v", target, err)
	}
	return readResponse(t, resp)
}

// PostForm submits form to target as a browser would and reads the body.
func PostForm(t *testing.T, client *http.Client, target string, form url.Values) *Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return readResponse(t, resp)
}

func readResponse(t *testing.T, resp *http.Response) *Response {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return &Response{Response: resp, Body: string(body)}
}

// SessionCookie returns the session cookie client holds for the server, if
// any.
func (ts *TestServer) SessionCookie(t *testing.T, client *http.Client) *http.Cookie {
	t.Helper()

	u, err := url.Parse(ts.Server.URL)
	if err != nil {
		t.Fatalf("failed to parse server url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "movie_session" {
			return c
		}
	}
	return nil
}
