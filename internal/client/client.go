// Package client calls the intake HTTP API. *Client satisfies
// wizard.Backend and wizard.Prefiller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/prefill"
)

const (
	defaultTimeout    = 30 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("intake api: status %d", e.Status)
	}
	return fmt.Sprintf("intake api: status %d: %s", e.Status, e.Message)
}

type Client struct {
	base string
	http *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the admin bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) Save(ctx context.Context, caseID string, state models.FormState) (string, error) {
	var resp struct {
		SavedAt string `json:"saved_at"`
	}
	err := c.do(ctx, http.MethodPost, "/api/autosave", nil, map[string]any{"caseId": caseID, "data": state}, &resp)
	return resp.SavedAt, err
}

func (c *Client) Load(ctx context.Context, caseID string) (models.FormState, bool, error) {
	var resp struct {
		Found bool           `json:"found"`
		Data  map[string]any `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/autosave?caseId="+url.QueryEscape(caseID), nil, nil, &resp); err != nil {
		return nil, false, err
	}
	if !resp.Found {
		return nil, false, nil
	}
	return models.FromAny(resp.Data), true, nil
}

// Defaults returns the server's pre-filled answers for caseID and the
// autosave delay it advertises.
func (c *Client) Defaults(ctx context.Context, caseID string) (models.FormState, time.Duration, error) {
	var resp struct {
		Data    map[string]any `json:"data"`
		DelayMs int64          `json:"autosaveDelayMs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/defaults?caseId="+url.QueryEscape(caseID), nil, nil, &resp); err != nil {
		return nil, 0, err
	}
	return models.FromAny(resp.Data), time.Duration(resp.DelayMs) * time.Millisecond, nil
}

func (c *Client) Submit(ctx context.Context, state models.FormState, idempotencyKey string) (string, error) {
	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{idempotencyHeader: {idempotencyKey}}
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/submit", header, state, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) linkToken(ctx context.Context, path, userID string) (string, error) {
	var resp struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"userId": userID}, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

func (c *Client) BankLinkToken(ctx context.Context, userID string) (string, error) {
	return c.linkToken(ctx, "/api/plaid/create-link-token", userID)
}

func (c *Client) CreditLinkToken(ctx context.Context, userID string) (string, error) {
	return c.linkToken(ctx, "/api/credit-check/create-link-token", userID)
}

func (c *Client) ExchangeBank(ctx context.Context, publicToken string) (*prefill.BankResult, error) {
	var res prefill.BankResult
	if err := c.do(ctx, http.MethodPost, "/api/plaid/exchange-token", nil, map[string]string{"public_token": publicToken}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreditCheck(ctx context.Context, publicToken string) (*prefill.CreditResult, error) {
	var res prefill.CreditResult
	if err := c.do(ctx, http.MethodPost, "/api/credit-check", nil, map[string]string{"public_token": publicToken}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login exchanges the admin password for a token, which later admin calls
// send.
func (c *Client) Login(ctx context.Context, password string) (expiresAt time.Time, err error) {
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", nil, map[string]string{"password": password}, &resp); err != nil {
		return time.Time{}, err
	}
	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return resp.ExpiresAt, nil
}

// Submissions lists every submission, newest first, flattened to
// {id, ...fields}.
func (c *Client) Submissions(ctx context.Context) ([]map[string]string, error) {
	var resp struct {
		Submissions []map[string]string `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/submissions", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Submissions, nil
}

// ExportCSV downloads one submission as CSV.
func (c *Client) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/admin/submissions/"+url.PathEscape(id)+"/export.csv", nil)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	req.Header.Set("Authorization", "Bearer "+c.token)
	c.mu.RUnlock()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode}
	}
	return raw, nil
}
