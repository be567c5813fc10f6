package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wricardo/kalambury/game/protocol"
)

// maxTokenSize bounds the login response body
const maxTokenSize = 16 * 1024

var (
	ErrInvalidCredentials = errors.New("username and password are required")
	ErrLoginFailed        = errors.New("login failed")
	ErrNullToken          = errors.New("token was null")
	ErrNoUsername         = errors.New("token carries no username")
)

var validate = validator.New()

// LoginClient performs the REST login exchange
type LoginClient struct {
	url        string
	httpClient *http.Client
}

// NewLoginClient creates a client posting to url. A nil httpClient gets a
// client with a 30 second timeout.
func NewLoginClient(url string, httpClient *http.Client) *LoginClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &LoginClient{url: url, httpClient: httpClient}
}

// URL returns the login endpoint
func (c *LoginClient) URL() string {
	return c.url
}

// Login exchanges credentials for a session token. There is no retry.
func (c *LoginClient) Login(ctx context.Context, creds protocol.Credentials) (string, error) {
	if err := validate.Struct(creds); err != nil {
		return "", ErrInvalidCredentials
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenSize))
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(body))
	if token == "" || token == "null" {
		return "", ErrNullToken
	}
	return token, nil
}

// UsernameFromToken reads the username claim without verifying the
// signature; only the backend holds the signing secret.
func UsernameFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", ErrNoUsername
	}
	return username, nil
}
