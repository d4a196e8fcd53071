package arr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Kind identifies which manager a record came from.
type Kind string

const (
	KindSeries Kind = "series"
	KindMovie  Kind = "movie"
)

// Record is one title tracked by Sonarr or Radarr together with its on-disk
// path as the manager reports it (usually a container path).
type Record struct {
	Title     string
	Path      string
	Monitored bool
}

type seriesPayload struct {
	Title     string `json:"title"`
	Path      string `json:"path"`
	Monitored bool   `json:"monitored"`
}

// Client talks to the v3 API of one Sonarr or Radarr instance.
type Client struct {
	host       string
	apiKey     string
	kind       Kind
	httpClient *http.Client
}

// NewSonarr builds a client for a Sonarr instance.
func NewSonarr(host, apiKey string) (*Client, error) {
	return newClient(host, apiKey, KindSeries)
}

// NewRadarr builds a client for a Radarr instance.
func NewRadarr(host, apiKey string) (*Client, error) {
	return newClient(host, apiKey, KindMovie)
}

func newClient(host, apiKey string, kind Kind) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("%s host must be provided", kind)
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid %s host: %w", kind, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{
		host:   strings.TrimSuffix(u.String(), "/"),
		apiKey: strings.TrimSpace(apiKey),
		kind:   kind,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Kind returns which manager this client queries.
func (c *Client) Kind() Kind { return c.kind }

func (c *Client) baseURL(p string) string {
	return c.host + path.Clean("/"+p)
}

func (c *Client) endpoint() string {
	if c.kind == KindSeries {
		return "/api/v3/series"
	}
	return "/api/v3/movie"
}

// ListPaths fetches every tracked title with its reported path. An empty API
// key returns an empty result so callers degrade to limited functionality
// instead of failing the whole run.
func (c *Client) ListPaths(ctx context.Context) ([]Record, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL(c.endpoint()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", c.kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s returned status %d: %s", c.kind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []seriesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", c.kind, err)
	}

	records := make([]Record, 0, len(payload))
	for _, item := range payload {
		if item.Title == "" || item.Path == "" {
			continue
		}
		records = append(records, Record{
			Title:     item.Title,
			Path:      item.Path,
			Monitored: item.Monitored,
		})
	}
	return records, nil
}
