package spotify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIBase   = "https://api.spotify.com/v1"
	defaultAuthBase  = "https://accounts.spotify.com"
	defaultUserAgent = "resonify"
)

// Client is a lightweight HTTP client for the Spotify Web API.
type Client struct {
	apiBase    string
	authBase   string
	httpClient *http.Client

	clientID     string
	clientSecret string
	redirectURI  string
	tokenPath    string

	mu    sync.Mutex
	token *token
}

// NewClient creates a Spotify API client. tokenPath is where the OAuth token
// is cached between runs.
func NewClient(clientID, clientSecret, redirectURI, tokenPath string) *Client {
	return &Client{
		apiBase:      defaultAPIBase,
		authBase:     defaultAuthBase,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  strings.TrimRight(redirectURI, "/"),
		tokenPath:    tokenPath,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// get performs an authenticated GET request and decodes the JSON response
// into dst. A nil dst discards the body. Endpoints that answer 204 leave dst
// untouched and return errNoContent.
func (c *Client) get(path string, query url.Values, dst interface{}) error {
	req, err := c.newRequest("GET", path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

// put performs an authenticated PUT request. Most player endpoints answer
// 204 with no body.
func (c *Client) put(path string, query url.Values, body io.Reader) error {
	req, err := c.newRequest("PUT", path, query, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	err = c.do(req, nil)
	if err == errNoContent {
		return nil
	}
	return err
}

// post performs an authenticated POST request with no body.
func (c *Client) post(path string, query url.Values) error {
	req, err := c.newRequest("POST", path, query, nil)
	if err != nil {
		return err
	}
	err = c.do(req, nil)
	if err == errNoContent {
		return nil
	}
	return err
}

func (c *Client) newRequest(method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := c.apiBase + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	return req, nil
}

var errNoContent = fmt.Errorf("no content")

func (c *Client) do(req *http.Request, dst interface{}) error {
	access, err := c.accessToken()
	if err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if dst == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
