// Package provider contains the HTTP plumbing shared by the data sources of
// the ETL jobs.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/etnz/inflation/date"
)

// Client performs requests against remote data sources.
type Client struct {
	HTTP *http.Client
}

// Options configure a Client.
type Options struct {
	Timeout time.Duration
	// DiskCache keeps successful responses on disk for the day. Useful while
	// developing against rate limited services.
	DiskCache bool
	CacheDir  string
	Logger    *zap.Logger
}

func New(opts Options) *Client {
	client := &http.Client{Timeout: opts.Timeout}
	if opts.DiskCache {
		log := opts.Logger
		if log == nil {
			log = zap.NewNop()
		}
		client.Transport = &diskCache{base: http.DefaultTransport, dir: opts.CacheDir, log: log, today: date.Today}
	}
	return &Client{HTTP: client}
}

// Get performs an HTTP GET request and returns the response body.
func (c *Client) Get(ctx context.Context, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into
// data.
func (c *Client) GetJSON(ctx context.Context, addr string, data any) error {
	body, err := c.Get(ctx, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// PostJSON posts payload as JSON and unmarshals the JSON response into data.
// The response body is returned too, the caller may need to inspect it.
func (c *Client) PostJSON(ctx context.Context, addr string, payload, data any) ([]byte, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return body, json.Unmarshal(body, data)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http %s %v%v: %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
