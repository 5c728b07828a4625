// Package serpnews implements the news-provider ingestion adapter against
// a SerpApi-compatible Google News endpoint.
package serpnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"MarketFeed/internal/config"
	"MarketFeed/internal/content"
	"MarketFeed/internal/datetext"
	"MarketFeed/internal/domain"
	"MarketFeed/internal/source"
)

const (
	defaultPageSize = 100
	maxRetries      = 4

	// Terminal "no results" marker; not an error.
	noResultsMessage = "Google hasn't returned any results for this query."
)

// errTransient marks network errors and 5xx answers. Once retries are
// exhausted the query keeps whatever was collected so far; only permanent
// provider errors fail the cycle.
var errTransient = errors.New("transient provider failure")

type searchResponse struct {
	Error       string       `json:"error"`
	NewsResults []newsResult `json:"news_results"`
	Pagination  *pagination  `json:"serpapi_pagination"`
}

type newsResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

type pagination struct {
	Next string `json:"next"`
}

// Client pages through provider results for a single query.
type Client struct {
	endpoint   string
	apiKey     string
	client     *http.Client
	limiter    *rate.Limiter
	dates      *datetext.Normalizer
	logger     *slog.Logger
	pageSize   int
	now        func() time.Time
	newBackOff func() backoff.BackOff
}

// NewClient wires an HTTP client; pageSize defaults to 100 and page
// requests are throttled to one per second toward the provider.
func NewClient(cfg config.SerpAPIConfig, client *http.Client, log *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		dates:    datetext.New(),
		logger:   log,
		pageSize: defaultPageSize,
		now:      time.Now,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Search pages through the provider until a page returns fewer results
// than the page size or the provider reports no further pagination token.
// A provider "no results" answer yields an empty slice, not an error, and
// transient failures that survive all retries degrade to whatever was
// collected before them. Only permanent provider errors are returned.
func (c *Client) Search(ctx context.Context, query string, window source.Window) ([]domain.Article, error) {
	c.debug("fetching news", "query", query, "from", window.Start, "to", window.End)

	var collected []domain.Article
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.fetchPage(ctx, query, window, page)
		if err != nil {
			if errors.Is(err, errTransient) {
				c.warn("provider unavailable, keeping partial results",
					"query", query, "page", page, "error", err)
				return collected, nil
			}
			return nil, fmt.Errorf("query %q page %d: %w", query, page, err)
		}

		if resp.Error != "" {
			if resp.Error == noResultsMessage {
				c.debug("no results for query", "query", query)
				return collected, nil
			}
			return nil, fmt.Errorf("provider error for query %q: %s", query, resp.Error)
		}

		reference := c.now().UTC()
		for _, result := range resp.NewsResults {
			collected = append(collected, c.toArticle(result, reference))
		}

		if len(resp.NewsResults) < c.pageSize {
			break
		}
		if resp.Pagination == nil || resp.Pagination.Next == "" {
			break
		}
	}

	c.debug("fetched news", "query", query, "total", len(collected))
	return collected, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, window source.Window, page int) (searchResponse, error) {
	pageURL, err := c.buildPageURL(query, window, page)
	if err != nil {
		return searchResponse{}, err
	}

	var resp searchResponse
	operation := func() error {
		var opErr error
		resp, opErr = c.getJSON(ctx, pageURL)
		return opErr
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return searchResponse{}, err
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, pageURL string) (searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return searchResponse{}, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("%w: request page: %w", errTransient, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusInternalServerError {
		return searchResponse{}, fmt.Errorf("%w: provider returned %s", errTransient, httpResp.Status)
	}
	if httpResp.StatusCode != http.StatusOK {
		// Auth failures and quota exhaustion do not heal on retry.
		return searchResponse{}, backoff.Permanent(fmt.Errorf("provider returned %s", httpResp.Status))
	}

	var resp searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return searchResponse{}, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return resp, nil
}

func (c *Client) buildPageURL(query string, window source.Window, page int) (string, error) {
	parsed, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}

	values := parsed.Query()
	values.Set("q", query)
	values.Set("tbm", "nws")
	values.Set("num", strconv.Itoa(c.pageSize))
	values.Set("api_key", c.apiKey)
	values.Set("tbs", fmt.Sprintf("cdr:1,cd_min:%s,cd_max:%s",
		window.Start.Format("01/02/2006"), window.End.Format("01/02/2006")))
	if page > 1 {
		values.Set("start", strconv.Itoa((page-1)*c.pageSize))
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (c *Client) toArticle(result newsResult, reference time.Time) domain.Article {
	ts, _ := c.dates.Normalize(result.Date, reference)
	return content.Clean(domain.Article{
		Title:     result.Title,
		Link:      result.Link,
		Snippet:   result.Snippet,
		Source:    result.Source,
		Timestamp: ts,
		UTCTime:   domain.UTCTimeFromUnix(ts),
		Tag:       domain.TagIndependentNews,
	})
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
