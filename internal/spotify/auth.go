package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scopes requested during authorization. Playback control and library access
// cover every websocket command.
const scopes = "user-library-modify user-library-read user-read-currently-playing " +
	"user-read-playback-position user-read-playback-state user-modify-playback-state " +
	"app-remote-control streaming playlist-read-private playlist-modify-private " +
	"playlist-modify-public playlist-read-collaborative"

type token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	Expiry       time.Time `json:"expiry"`
}

func (t *token) expired() bool {
	// Refresh a little early so in-flight requests don't hit a stale token.
	return time.Now().After(t.Expiry.Add(-30 * time.Second))
}

// Authorize ensures the client holds a usable token. A cached token is
// reused (and refreshed when stale); otherwise the full authorization-code
// flow runs: the auth URL is printed and a temporary local server on the
// redirect URI's port catches the callback.
func (c *Client) Authorize(ctx context.Context) error {
	if tok, err := c.loadToken(); err == nil {
		c.mu.Lock()
		c.token = tok
		c.mu.Unlock()
		if !tok.expired() {
			return nil
		}
		if err := c.refreshToken(); err == nil {
			return nil
		}
		// Refresh failed; fall through to a fresh authorization.
	}

	code, err := c.awaitAuthCode(ctx)
	if err != nil {
		return fmt.Errorf("authorization: %w", err)
	}

	tok, err := c.exchange(url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
	})
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
	c.saveToken(tok)
	return nil
}

// AuthURL is the page the user opens to grant access.
func (c *Client) AuthURL() string {
	q := url.Values{
		"client_id":     {c.clientID},
		"response_type": {"code"},
		"redirect_uri":  {c.redirectURI},
		"scope":         {scopes},
	}
	return c.authBase + "/authorize?" + q.Encode()
}

// awaitAuthCode serves the redirect URI until the callback delivers a code.
func (c *Client) awaitAuthCode(ctx context.Context) (string, error) {
	redirect, err := url.Parse(c.redirectURI)
	if err != nil {
		return "", fmt.Errorf("parse redirect URI: %w", err)
	}

	fmt.Printf("Open this page to connect your Spotify account:\n\n  %s\n\n", c.AuthURL())

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		if e := r.URL.Query().Get("error"); e != "" {
			http.Error(w, "Authorization denied.", http.StatusForbidden)
			errCh <- fmt.Errorf("authorization denied: %s", e)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Missing code.", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Connected! You can close this tab.")
		codeCh <- code
	})

	srv := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer srv.Close()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// accessToken returns a valid access token, refreshing first when needed.
func (c *Client) accessToken() (string, error) {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()

	if tok == nil {
		return "", fmt.Errorf("not authorized")
	}
	if tok.expired() {
		if err := c.refreshToken(); err != nil {
			return "", err
		}
		c.mu.Lock()
		tok = c.token
		c.mu.Unlock()
	}
	return tok.AccessToken, nil
}

func (c *Client) refreshToken() error {
	c.mu.Lock()
	refresh := ""
	if c.token != nil {
		refresh = c.token.RefreshToken
	}
	c.mu.Unlock()

	if refresh == "" {
		return fmt.Errorf("no refresh token")
	}

	tok, err := c.exchange(url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refresh},
	})
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	// Spotify often omits the refresh token on renewal; keep the old one.
	if tok.RefreshToken == "" {
		tok.RefreshToken = refresh
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
	c.saveToken(tok)
	return nil
}

// exchange posts a form to the token endpoint with basic client auth.
func (c *Client) exchange(form url.Values) (*token, error) {
	req, err := http.NewRequest("POST", c.authBase+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	creds := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	tok := &token{}
	if err := json.NewDecoder(resp.Body).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	tok.Expiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return tok, nil
}

func (c *Client) loadToken() (*token, error) {
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return nil, err
	}
	tok := &token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, err
	}
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("cached token has no refresh token")
	}
	return tok, nil
}

// saveToken persists the token for the next run. Best effort: losing it only
// means authorizing again.
func (c *Client) saveToken(tok *token) {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return
	}
	os.MkdirAll(filepath.Dir(c.tokenPath), 0o755)
	os.WriteFile(c.tokenPath, data, 0o600)
}
