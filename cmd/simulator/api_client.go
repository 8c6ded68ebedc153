package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// CatalogClient drives the catalog through the same HTML forms a browser
// uses. Each client holds its own session cookie.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	Username   string
}

func NewCatalogClient(baseURL string) (*CatalogClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

type Movie struct {
	Name        string
	Description string
	Year        int
	Genres      string
	Rating      string
}

var errorItem = regexp.MustCompile(`<li>([^<]*)</li>`)

// Register creates an account with a unique name derived from baseName and
// keeps the resulting session.
func (c *CatalogClient) Register(baseName, password string) error {
	username := fmt.Sprintf("%s_%d", baseName, time.Now().UnixNano()%100000)

	resp, err := c.postForm("/register", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	if err := expectRedirect(resp); err != nil {
		return fmt.Errorf("register failed: %w", err)
	}

	c.Username = username
	return nil
}

func (c *CatalogClient) Login(username, password string) error {
	resp, err := c.postForm("/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	if err := expectRedirect(resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.Username = username
	return nil
}

// AddMovie submits the add form as the logged in user.
func (c *CatalogClient) AddMovie(m Movie) error {
	resp, err := c.postForm("/movies/add", url.Values{
		"name":        {m.Name},
		"description": {m.Description},
		"year":        {fmt.Sprint(m.Year)},
		"genres":      {m.Genres},
		"rating":      {m.Rating},
	})
	if err != nil {
		return fmt.Errorf("add movie request failed: %w", err)
	}
	if err := expectRedirect(resp); err != nil {
		return fmt.Errorf("add movie failed: %w", err)
	}
	return nil
}

// Watch subscribes to catalog events and calls fn with each raw message
// until the connection closes.
func (c *CatalogClient) Watch(fn func(msg []byte)) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		fn(msg)
	}
}

func (c *CatalogClient) postForm(path string, form url.Values) (*http.Response, error) {
	return c.httpClient.PostForm(c.baseURL+path, form)
}

func expectRedirect(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusFound {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	var messages []string
	for _, m := range errorItem.FindAllStringSubmatch(string(body), -1) {
		messages = append(messages, m[1])
	}
	if len(messages) == 0 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.Join(messages, "; "))
}
