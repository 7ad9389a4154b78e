package provider

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/etnz/inflation/date"
)

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base  http.RoundTripper
	dir   string // os.TempDir() if empty
	log   *zap.Logger
	today func() date.Date
}

// RoundTrip serves a response cached on disk today for the same request, or
// performs the request and caches its response when it is successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key, err := c.key(req)
	if err != nil {
		return nil, err
	}

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug("http", zap.String("method", req.Method), zap.String("host", req.URL.Host), zap.String("path", req.URL.Path), zap.String("status", resp.Status))
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.Warn("cache write failed (ignored)", zap.Error(err))
	}
	return resp, nil
}

// key is unique per day, method, URL and body, so that the cache expires every
// day.
func (c *diskCache) key(req *http.Request) (string, error) {
	h := sha1.New()
	fmt.Fprintf(h, "%s %s %s", c.today(), req.Method, req.URL.String())
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return "", err
		}
		defer body.Close()
		if _, err := io.Copy(h, body); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("inflation-%x", h.Sum(nil)), nil
}

func (c *diskCache) path(key string) string {
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), content, 0o600)
}
