package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UserInfo is the subset of the Google userinfo payload the storefront
// needs to create or refresh an account.
type UserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client verifies Google OAuth access tokens by exchanging them for the
// owner's profile at the userinfo endpoint.
type Client interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

type client struct {
	httpClient  *http.Client
	userInfoURL string
}

func NewClient(userInfoURL string) Client {
	return &client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userInfoURL: userInfoURL,
	}
}

// FetchUserInfo returns the token owner's profile. A non-200 response
// means the token is invalid or expired.
func (c *client) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info UserInfo

	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response did not contain an email")
	}

	return &info, nil
}
