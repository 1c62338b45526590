package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/finovabank/client-go/users"
)

// Client talks to the FinovaBank authentication endpoints. Login and
// register are sent before a credential exists, so the gateway has nothing
// to attach; logout rides the same HTTP client so the server can revoke the
// session it issued.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all calls. Wire the
// gateway-equipped client here so authenticated calls carry the token.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates an auth API client rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[authapi.New] invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[authapi.New] base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// AuthResponse is the payload returned by login and register.
type AuthResponse struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

// Registration is the register request body. Client-side validation happens
// before this is built; the confirmation field never reaches the wire.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account. The server returns a session immediately, so
// a successful registration authenticates without a second login.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "/auth/register", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout tells the server to revoke the current session. Best effort: the
// caller clears local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

// Verify asks the server whether a stored token is still honoured.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	var res verifyResponse
	if err := c.post(ctx, "/auth/verify", verifyRequest{Token: token}, &res); err != nil {
		return false, err
	}
	return res.Valid, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String()+path, payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.rejection(path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// rejection turns an error response into a RejectedError carrying the
// server-provided message when one is present.
func (c *Client) rejection(path string, resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		body.Message = fmt.Sprintf("request failed: %s", resp.Status)
	}
	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Str("message", body.Message).Msg("auth request rejected")
	return &RejectedError{StatusCode: resp.StatusCode, Message: body.Message}
}
