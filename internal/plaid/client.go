// Package plaid is a small client for the Plaid REST endpoints used by the
// intake prefill: link tokens, public token exchange, accounts, identity and
// liabilities.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

const clientName = "Ohio Dissolution App"

// APIError is Plaid's error body.
type APIError struct {
	Status       int    `json:"-"`
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plaid %d %s/%s: %s", e.Status, e.ErrorType, e.ErrorCode, e.ErrorMessage)
}

type Config struct {
	ClientID string
	Secret   string
	// Env is sandbox, development or production.
	Env string
	// BaseURL overrides Env.
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		env := cfg.Env
		if env == "" {
			env = "sandbox"
		}
		var ok bool
		if base, ok = environments[env]; !ok {
			return nil, fmt.Errorf("plaid: unknown environment %q", env)
		}
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base, clientID: cfg.ClientID, secret: cfg.Secret, http: hc}, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plaid %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("plaid %s: read body: %w", path, err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.ErrorMessage == "" {
			apiErr.ErrorMessage = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("plaid %s: decode: %w", path, err)
	}
	return nil
}

// CreateLinkToken starts a Link session for userID with the given products.
func (c *Client) CreateLinkToken(ctx context.Context, userID string, products []string) (string, error) {
	var out struct {
		LinkToken string `json:"link_token"`
	}
	err := c.post(ctx, "/link/token/create", map[string]any{
		"user":          map[string]any{"client_user_id": userID},
		"client_name":   clientName,
		"products":      products,
		"country_codes": []string{"US"},
		"language":      "en",
	}, &out)
	return out.LinkToken, err
}

// ExchangePublicToken trades the Link public token for an access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.post(ctx, "/item/public_token/exchange", map[string]any{"public_token": publicToken}, &out)
	return out.AccessToken, err
}

func (c *Client) Accounts(ctx context.Context, accessToken string) ([]Account, error) {
	var out struct {
		Accounts []Account `json:"accounts"`
	}
	err := c.post(ctx, "/accounts/get", map[string]any{"access_token": accessToken}, &out)
	return out.Accounts, err
}

// Identity returns accounts with their owners populated.
func (c *Client) Identity(ctx context.Context, accessToken string) ([]Account, error) {
	var out struct {
		Accounts []Account `json:"accounts"`
	}
	err := c.post(ctx, "/identity/get", map[string]any{"access_token": accessToken}, &out)
	return out.Accounts, err
}

func (c *Client) Liabilities(ctx context.Context, accessToken string) (LiabilitiesResult, error) {
	var out LiabilitiesResult
	err := c.post(ctx, "/liabilities/get", map[string]any{"access_token": accessToken}, &out)
	return out, err
}
