// Package restapi talks to the remote employee service over JSON/HTTP.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/csg33k/employee-directory/internal/domain"
	"github.com/csg33k/employee-directory/internal/logger"
)

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("request %s: %v", e.URL, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("request %s: unexpected status %d: %s", e.URL, e.Status, e.Body)
}

// DecodeError is a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.URL, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Client implements ports.EmployeeAPI.
type Client struct {
	base string
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API rooted at baseURL, for example
// "http://localhost:8000/api/v1".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: strings.TrimRight(u.String(), "/"), http: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalised root the client was built with.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) ListEmployees(ctx context.Context, p domain.ListParams) (*domain.EmployeePage, error) {
	q := url.Values{}
	q.Set("search", p.Search)
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(p.Offset))
	target := c.base + "/employees?" + q.Encode()

	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}
	page, err := decodeList(body)
	if err != nil {
		return nil, &DecodeError{URL: target, Err: err}
	}
	logger.DebugLog(ctx, "listed %d employees for %q at offset %d", len(page.Items), p.Search, p.Offset)
	return page, nil
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	target := c.base + "/employees/" + strconv.FormatInt(id, 10)

	body, err := c.get(ctx, target)
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.Status == http.StatusNotFound {
			return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	e, err := decodeOne(body)
	if err != nil {
		return nil, &DecodeError{URL: target, Err: err}
	}
	return e, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{URL: target, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	return body, nil
}

// listEnvelope covers the wrapped shapes seen from different backends.
type listEnvelope struct {
	Data      []domain.Employee `json:"data"`
	Items     []domain.Employee `json:"items"`
	Employees []domain.Employee `json:"employees"`
	Total     *int              `json:"total"`
}

func decodeList(body []byte) (*domain.EmployeePage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}

	if body[0] == '[' {
		var items []domain.Employee
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return &domain.EmployeePage{Items: nonNil(items), Total: domain.TotalUnknown}, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	page := &domain.EmployeePage{Total: domain.TotalUnknown}
	switch {
	case env.Data != nil:
		page.Items = env.Data
	case env.Items != nil:
		page.Items = env.Items
	case env.Employees != nil:
		page.Items = env.Employees
	default:
		return nil, errors.New("no employee list in response")
	}
	if env.Total != nil && *env.Total >= 0 {
		page.Total = *env.Total
	}
	return page, nil
}

func decodeOne(body []byte) (*domain.Employee, error) {
	var env struct {
		Data *domain.Employee `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Data != nil {
		return env.Data, nil
	}
	var e domain.Employee
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, err
	}
	if e.ID == 0 && e.Name == "" {
		return nil, errors.New("no employee in response")
	}
	return &e, nil
}

func nonNil(items []domain.Employee) []domain.Employee {
	if items == nil {
		return []domain.Employee{}
	}
	return items
}
