package cmd

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/corey/rfcguide/internal/adapters/web"
	"github.com/corey/rfcguide/internal/app"
)

// apiClient talks to a running `rfcguide serve` discovered through its port file.
type apiClient struct {
	base string
	http *http.Client
}

// discoverServer returns a client for the running server, or nil when the
// port file is missing or nothing answers on it. Any HTTP response counts as
// a live server, including 429 from the rate limiter.
func discoverServer(paths *app.Paths) *apiClient {
	data, err := os.ReadFile(paths.PortFile)
	if err != nil {
		return nil
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || port <= 0 {
		return nil
	}

	host := ""
	if settings != nil {
		host = settings.Server.Host
	}
	c := &apiClient{
		base: serverBaseURL(host, port),
		http: &http.Client{Timeout: 2 * time.Second},
	}
	resp, err := c.http.Get(c.base + "/api/health")
	if err != nil {
		return nil
	}
	resp.Body.Close()
	return c
}

// serverBaseURL builds the URL a local client dials for a server bound to
// host. Wildcard and empty hosts are reached over loopback.
func serverBaseURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::", "[::]":
		host = "::1"
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

func (c *apiClient) do(method, path string, out any) error {
	req, err := http.NewRequest(method, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e web.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %s %s", method, path, resp.Status, e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Health fetches GET /api/health.
func (c *apiClient) Health() (*web.HealthResult, error) {
	var h web.HealthResult
	if err := c.do(http.MethodGet, "/api/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Stats fetches GET /api/stats with the top n hits and misses.
func (c *apiClient) Stats(n int) (*web.StatsResult, error) {
	var s web.StatsResult
	if err := c.do(http.MethodGet, "/api/stats?n="+strconv.Itoa(n), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ResetStats calls DELETE /api/stats.
func (c *apiClient) ResetStats() error {
	return c.do(http.MethodDelete, "/api/stats", nil)
}
