// Package userdir reads contact details from the users service.
package userdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"loanflow/internal/domain/user"

	"github.com/hashicorp/go-retryablehttp"
)

var ErrNotConfigured = errors.New("user directory not configured")

type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

var _ user.Directory = (*Client)(nil)

func NewClient(baseURL string, hc *retryablehttp.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// GetUser fetches GET {base}/users/{id}.
func (c *Client) GetUser(ctx context.Context, userID string) (*user.User, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/users/%s", base, url.PathEscape(userID)), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, user.ErrNotFound
	default:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	// the users service is loose about id types, so only contact fields are read
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &user.User{ID: userID, Name: body.Name, Email: strings.TrimSpace(body.Email)}, nil
}
