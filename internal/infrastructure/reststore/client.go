// Package reststore implements the repository interfaces against the
// relational backend's REST surface (/rest/v1/<table> with PostgREST-style
// query filters and row-level security).
package reststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/simonbeirouti/aura/internal/errs"
)

// TokenSource supplies the bearer token attached to every request. The
// session store implements it.
type TokenSource interface {
	AccessToken() (string, error)
}

type Client struct {
	baseURL string
	anonKey string
	tokens  TokenSource
	http    *http.Client
}

func NewClient(baseURL, anonKey string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		tokens:  tokens,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Query accumulates PostgREST query-string parameters.
type Query struct {
	values url.Values
}

func NewQuery() Query {
	return Query{values: url.Values{}}
}

// Eq adds a <column>=eq.<value> filter.
func (q Query) Eq(column, value string) Query {
	q.values.Set(column, "eq."+value)
	return q
}

func (q Query) Select(columns string) Query {
	q.values.Set("select", columns)
	return q
}

func (q Query) Order(expr string) Query {
	q.values.Set("order", expr)
	return q
}

func (q Query) Limit(n int) Query {
	q.values.Set("limit", fmt.Sprintf("%d", n))
	return q
}

// OnConflict names the column used for upsert conflict resolution.
func (q Query) OnConflict(column string) Query {
	q.values.Set("on_conflict", column)
	return q
}

func (q Query) encode() string {
	return q.values.Encode()
}

// Get issues a filtered SELECT and decodes the row array into dest.
func (c *Client) Get(ctx context.Context, table string, q Query, dest any) error {
	return c.do(ctx, http.MethodGet, table, q, nil, dest, "")
}

// Insert POSTs payload. When dest is non-nil the created rows are returned
// (Prefer: return=representation), otherwise return=minimal is requested.
func (c *Client) Insert(ctx context.Context, table string, payload, dest any) error {
	prefer := "return=minimal"
	if dest != nil {
		prefer = "return=representation"
	}
	return c.do(ctx, http.MethodPost, table, NewQuery(), payload, dest, prefer)
}

// Upsert POSTs payload with merge-duplicates conflict resolution.
func (c *Client) Upsert(ctx context.Context, table string, q Query, payload, dest any) error {
	prefer := "resolution=merge-duplicates"
	if dest != nil {
		prefer += ",return=representation"
	}
	return c.do(ctx, http.MethodPost, table, q, payload, dest, prefer)
}

// Update PATCHes the rows matched by q.
func (c *Client) Update(ctx context.Context, table string, q Query, payload, dest any) error {
	prefer := "return=minimal"
	if dest != nil {
		prefer = "return=representation"
	}
	return c.do(ctx, http.MethodPatch, table, q, payload, dest, prefer)
}

// Delete removes the rows matched by q.
func (c *Client) Delete(ctx context.Context, table string, q Query) error {
	return c.do(ctx, http.MethodDelete, table, q, nil, nil, "")
}

func (c *Client) do(ctx context.Context, method, table string, q Query, payload, dest any, prefer string) error {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return errs.Wrap(errs.KindAuthRequired, err, "no access token available")
	}

	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if encoded := q.encode(); encoded != "" {
		u += "?" + encoded
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", table, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", table, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.anonKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(errs.KindRemoteStore, err, "%s request to %s failed", method, table)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp, table)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", table, err)
		}
	}
	return nil
}

func classifyStatus(resp *http.Response, table string) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.New(errs.KindAuthRequired, "%s query unauthorized: HTTP %d - %s", table, resp.StatusCode, detail)
	case http.StatusNotFound, http.StatusNotAcceptable:
		return errs.New(errs.KindNotFound, "%s not found: HTTP %d - %s", table, resp.StatusCode, detail)
	case http.StatusUnprocessableEntity:
		return errs.New(errs.KindValidation, "%s payload rejected: HTTP %d - %s", table, resp.StatusCode, detail)
	default:
		return errs.New(errs.KindRemoteStore, "%s query failed: HTTP %d - %s", table, resp.StatusCode, detail)
	}
}
