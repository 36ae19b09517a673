package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andy/jobtrack/internal/domain"
	"go.uber.org/zap"
)

// Kind selects which remote catalog to fetch.
type Kind string

const (
	KindParts  Kind = "parts"
	KindLabour Kind = "labour"
)

// ItemType returns the line-item type for items from this catalog.
func (k Kind) ItemType() domain.ItemType {
	if k == KindLabour {
		return domain.ItemTypeLabour
	}
	return domain.ItemTypePart
}

const (
	fetchTimeout   = 10 * time.Second
	maxAttempts    = 3
	retryBaseDelay = time.Second
)

// Result is what Fetch always resolves to. Err being set means Data is
// fallback data (stale cache or the built-in sample catalog) and the
// message should be surfaced as a warning; Data is renderable either way.
type Result struct {
	Data      []domain.CatalogItem
	FromCache bool
	Err       error
}

// Client fetches the parts and labour catalogs with time-bounded
// caching, bounded retries, and fallback to stale or sample data. It
// never fails past its boundary.
type Client struct {
	urls  map[Kind]string
	http  *http.Client
	cache *Cache
	log   *zap.Logger

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a catalog client over the given cache and endpoint URLs.
func New(cache *Cache, partsURL, labourURL string, log *zap.Logger) *Client {
	return &Client{
		urls: map[Kind]string{
			KindParts:  partsURL,
			KindLabour: labourURL,
		},
		http:  &http.Client{Timeout: fetchTimeout},
		cache: cache,
		log:   log,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// SetURL updates the endpoint for one catalog kind (settings changes
// take effect without rebuilding the client).
func (c *Client) SetURL(kind Kind, u string) {
	c.urls[kind] = u
}

// Invalidate drops the cached entry for a kind, forcing the next Fetch
// to hit the network.
func (c *Client) Invalidate(kind Kind) {
	c.cache.invalidate(kind)
}

// IsValidURL reports whether s parses as an absolute http(s) URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the catalog of the given kind. Fresh cache entries are
// returned without a network call; otherwise the endpoint is fetched
// with retries, and on total failure the result falls back to stale
// cache data, then to the built-in sample catalog.
func (c *Client) Fetch(ctx context.Context, kind Kind) Result {
	now := c.now()

	if data, fetchedAt, ok := c.cache.get(kind); ok && now.Sub(fetchedAt) < TTL {
		return Result{Data: data, FromCache: true}
	}

	data, err := c.fetchWithRetry(ctx, kind)
	if err == nil {
		c.cache.put(kind, data, now)
		return Result{Data: data}
	}

	c.log.Warn("catalog fetch failed",
		zap.String("kind", string(kind)),
		zap.Error(err))

	// Stale cache beats sample data
	if data, _, ok := c.cache.get(kind); ok {
		return Result{
			Data:      data,
			FromCache: true,
			Err:       &FetchError{Kind: kind, Fallback: FallbackCache, Cause: err},
		}
	}

	return Result{
		Data: sampleData(kind),
		Err:  &FetchError{Kind: kind, Fallback: FallbackSample, Cause: err},
	}
}

// fetchWithRetry makes up to maxAttempts requests with exponential
// backoff (1s, 2s) between attempts. A timeout is not retried.
func (c *Client) fetchWithRetry(ctx context.Context, kind Kind) ([]domain.CatalogItem, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		data, err := c.fetchOnce(ctx, kind)
		if err == nil {
			return data, nil
		}
		lastErr = err

		c.log.Warn("catalog fetch attempt failed",
			zap.String("kind", string(kind)),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if errors.Is(err, ErrTimeout) || ctx.Err() != nil || attempt == maxAttempts-1 {
			break
		}

		c.sleep(retryBaseDelay << attempt)
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, kind Kind) ([]domain.CatalogItem, error) {
	endpoint, ok := c.urls[kind]
	if !ok || endpoint == "" {
		return nil, fmt.Errorf("no URL configured for %s catalog", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var items []domain.CatalogItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return items, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
