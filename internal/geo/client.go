package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	maxAttempts  = 3
	maxBodyBytes = 1 << 20
)

// sleepFunc is swappable so retry tests run without real backoff delays.
var sleepFunc = time.Sleep

// Place is one search hit from the map-data API.
type Place struct {
	Name      string  `json:"display_name"`
	Latitude  float64 `json:"lat,string"`
	Longitude float64 `json:"lon,string"`
	Type      string  `json:"type"`
}

// Client queries a Nominatim-style search endpoint. Responses are cached by
// query, and requests are rate limited to one per second per the public API
// usage policy.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *gocache.Cache
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		cache:      gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// Search finds places matching the query, e.g. "cardiologist near Pune".
// Transient upstream failures (5xx, 429, transport errors) are retried with
// backoff up to maxAttempts; other statuses fail immediately.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	key := query + "|" + strconv.Itoa(limit)
	if cached, found := c.cache.Get(key); found {
		return cached.([]Place), nil
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			sleepFunc(time.Duration(attempt-1) * 500 * time.Millisecond)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		places, retryable, err := c.search(ctx, query, limit)
		if err == nil {
			c.cache.Set(key, places, gocache.DefaultExpiration)
			return places, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("geo search failed after retries: %w", lastErr)
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]Place, bool, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=%d",
		c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return places, false, nil
}
