package upapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"upsync/internal/apperrors"
)

// Client is an authenticated Up API client. The base URL and token are fixed
// at construction; nothing is read from the environment afterwards.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given API base URL and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Ping probes the token against /util/ping. Any non-2xx response or
// transport failure is an *apperrors.AuthenticationError.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("util/ping"), nil)
	if err != nil {
		return &apperrors.AuthenticationError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return &apperrors.AuthenticationError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &apperrors.AuthenticationError{Status: res.StatusCode}
	}
	return nil
}

// Accounts returns a pager over the full account listing. No filter is
// applied; accounts are always refetched in full.
func (c *Client) Accounts() *Pager {
	return newPager(c, c.endpoint("accounts"), nil)
}

// Transactions returns a pager over one account's transactions created on or
// after the since watermark.
func (c *Client) Transactions(accountID, since string) *Pager {
	params := url.Values{}
	if since != "" {
		params.Set("filter[since]", since)
	}
	return newPager(c, c.endpoint(fmt.Sprintf("accounts/%s/transactions", accountID)), params)
}

// getPage issues one authenticated GET and decodes the page. params are
// appended to pageURL; the pager passes them on the first request only, since
// server-supplied next URLs already encode the filters.
func (c *Client) getPage(ctx context.Context, pageURL string, params url.Values) (*Page, error) {
	if len(params) > 0 {
		pageURL = pageURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &apperrors.FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &apperrors.FetchError{URL: pageURL, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &apperrors.FetchError{Status: res.StatusCode, URL: pageURL, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &apperrors.FetchError{Status: res.StatusCode, URL: pageURL, Body: string(body)}
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &apperrors.FetchError{Status: res.StatusCode, URL: pageURL, Err: fmt.Errorf("failed to decode page: %w", err)}
	}
	return &page, nil
}
