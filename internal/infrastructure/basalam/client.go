package basalam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/salamyar/backend/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const (
	// MaxSimilarProducts caps a single more-like-this lookup
	MaxSimilarProducts = 100

	defaultPageSize    = 24
	defaultTimeout     = 15 * time.Second
	maxErrorBodyLength = 512
)

// ClientConfig configures the Basalam API client
type ClientConfig struct {
	SearchURL         string
	SimilarURL        string
	Timeout           time.Duration
	PageSize          int
	RequestsPerSecond float64
}

// Client handles communication with the Basalam search and more-like-this APIs
type Client struct {
	httpClient  *resty.Client
	searchURL   string
	similarURL  string
	pageSize    int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Basalam API client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	// Non-positive rate disables outbound limiting
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := int(math.Ceil(cfg.RequestsPerSecond))
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Salamyar/1.0")

	return &Client{
		httpClient:  httpClient,
		searchURL:   cfg.SearchURL,
		similarURL:  cfg.SimilarURL,
		pageSize:    pageSize,
		rateLimiter: limiter,
	}
}

// SetDebug enables resty request/response dumps and verbose client logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
	c.httpClient.SetDebug(debug)
}

// Close releases idle connections held by the underlying HTTP client
func (c *Client) Close() error {
	return c.httpClient.Close()
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Debugf("[BASALAM] "+format, args...)
	}
}

// get executes one rate-limited GET and decodes the Basalam envelope
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) (*domain.BasalamSearchResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s",
			domain.ErrUpstream, resp.StatusCode(), truncate(resp.String(), maxErrorBodyLength))
	}

	var payload domain.BasalamSearchResponse
	if err := json.Unmarshal(resp.Bytes(), &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrUpstream, err)
	}

	c.debugLog("GET %s -> %d products in %s", endpoint, len(payload.Products), resp.Duration())
	return &payload, nil
}

// SearchProducts runs a paginated keyword search
func (c *Client) SearchProducts(ctx context.Context, query string, from, size int) (*domain.SearchResponse, error) {
	log.WithFields(log.Fields{"query": query, "from": from, "size": size}).Info("[BASALAM] searching products")

	payload, err := c.get(ctx, c.searchURL, map[string]string{
		"from":                 strconv.Itoa(from),
		"q":                    query,
		"size":                 strconv.Itoa(size),
		"adsImpressionDisable": "true",
	})
	if err != nil {
		return nil, err
	}

	return MapSearchResponse(payload, from, size), nil
}

// FetchSimilar pages through the more-like-this API until limit products are
// collected or the API runs out. Any failed page fails the whole lookup.
func (c *Client) FetchSimilar(ctx context.Context, selection *domain.Selection, limit int) ([]domain.SimilarProduct, error) {
	if limit <= 0 || limit > MaxSimilarProducts {
		limit = MaxSimilarProducts
	}

	similar := make([]domain.SimilarProduct, 0, limit)
	from := 0

	for len(similar) < limit {
		size := min(c.pageSize, limit-len(similar))

		page, err := c.get(ctx, c.similarURL, map[string]string{
			"fromCard":  "true",
			"ads":       "false",
			"title":     selection.ProductName,
			"productId": strconv.FormatInt(selection.ProductID, 10),
			"status":    strconv.FormatInt(selection.StatusID, 10),
			"from":      strconv.Itoa(from),
			"size":      strconv.Itoa(size),
		})
		if err != nil {
			return nil, &domain.FetchError{ProductID: selection.ProductID, Err: err}
		}

		if len(page.Products) == 0 {
			break
		}

		similar = append(similar, MapSimilarProducts(page.Products, selection.ProductID)...)
		from += len(page.Products)

		c.debugLog("product %d: fetched %d, total %d", selection.ProductID, len(page.Products), len(similar))

		// A short page means the API has no more results
		if len(page.Products) < size {
			break
		}
	}

	if len(similar) > limit {
		similar = similar[:limit]
	}

	return similar, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
