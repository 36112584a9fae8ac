// Package api is the CLI's HTTP client for the auth server. It keeps the
// session and challenge cookies in a jar, mirroring what a browser would do.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/server/models"
)

var (
	ErrUnauthorized = errors.New("authentication rejected by server")
	ErrUnavailable  = errors.New("server or chain node unavailable")
)

// LoginRequest mirrors the login endpoint's JSON body. Signatures is keyed by
// key type name; the server consults the entry matching KeyType.
type LoginRequest struct {
	Username   string            `json:"username"`
	Signatures map[string]string `json:"signatures"`
	LoginType  string            `json:"loginType"`
	KeyType    string            `json:"keyType"`
}

// Client talks to one auth server and carries its cookies between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar init: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// Session fetches the current user. As a side effect the server issues a
// login challenge cookie if the client does not hold one yet.
func (c *Client) Session(ctx context.Context) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/session", nil)
	if err != nil {
		return nil, err
	}
	return c.doUser(req)
}

// Challenge returns the readable challenge cookie the jar currently holds,
// or empty when none has been issued.
func (c *Client) Challenge() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == common.ChallengeCookieName {
			return cookie.Value
		}
	}
	return ""
}

// Login submits a signed challenge. On success the jar picks up the session
// cookie and the returned user is logged in.
func (c *Client) Login(ctx context.Context, login *LoginRequest) (*models.User, error) {
	return c.postUser(ctx, "/api/auth/login", login)
}

// Logout destroys the server-side session cookie.
func (c *Client) Logout(ctx context.Context) (*models.User, error) {
	return c.postUser(ctx, "/api/auth/logout", struct{}{})
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) postUser(ctx context.Context, path string, body any) (*models.User, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.CsrfHeaderName, "1")
	return c.doUser(req)
}

func (c *Client) doUser(req *http.Request) (*models.User, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusServiceUnavailable:
		return nil, ErrUnavailable
	default:
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &user, nil
}
