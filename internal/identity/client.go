package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure the caller should map
// to 401; anything else from Verify is a provider dependency failure.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Client verifies bearer credentials against the external identity
// provider. With a shared HS256 secret configured, tokens are verified
// locally and the provider is never called on the request path.
type Client struct {
	verifyURL  string
	profileURL string
	jwtSecret  []byte
	httpClient *http.Client
}

func NewClient(verifyURL, profileURL string, jwtSecret []byte) *Client {
	return &Client{
		verifyURL:  verifyURL,
		profileURL: profileURL,
		jwtSecret:  jwtSecret,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) Verify(ctx context.Context, bearer string) (*Claims, error) {
	if bearer == "" {
		return nil, ErrInvalidToken
	}
	if len(c.jwtSecret) > 0 {
		return c.verifyLocal(bearer)
	}
	return c.verifyRemote(ctx, bearer)
}

type jwtClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func (c *Client) verifyLocal(bearer string) (*Claims, error) {
	var claims jwtClaims
	_, err := jwt.ParseWithClaims(bearer, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return &Claims{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

func (c *Client) verifyRemote(ctx context.Context, bearer string) (*Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("verify failed with status: %d", resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// UpdateProfile mirrors profile fields to the provider's profile document.
// The primary store remains the source of truth; callers treat failures
// here as non-fatal.
func (c *Client) UpdateProfile(ctx context.Context, subject, email, name string) error {
	if c.profileURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"subject": subject,
		"email":   email,
		"name":    name,
	})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.profileURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("profile update failed with status: %d", resp.StatusCode)
	}
	return nil
}
