package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"copilot-usage-dashboard/config"
	"copilot-usage-dashboard/metrics"
	"copilot-usage-dashboard/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/go-github/v61/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	userAgent           = "copilot-usage-dashboard/1.0"
	responseKeyPrefix   = "copilot:"
	maxRateLimitRetries = 2
	maxRateLimitWait    = 2 * time.Minute
)

var ErrNoOrganization = errors.New("github organization is not configured")

// Client fetches Copilot daily usage snapshots from the GitHub REST API.
// Raw responses are cached in redis under keys derived from the request
// parameters and kept until explicitly invalidated (or until the configured
// TTL, when one is set). Concurrent identical requests share one upstream
// call.
type Client struct {
	gh          *github.Client
	rdb         *redis.Client
	org         string
	responseTTL time.Duration

	mu       sync.Mutex
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done  chan struct{}
	snaps []*model.DailySnapshot
	err   error
}

// NewClient builds a client from configuration. An empty token yields an
// unauthenticated client, which GitHub rejects for Copilot metrics but is
// useful against a test server.
func NewClient(cfg config.GitHubConfig, rdb *redis.Client) (*Client, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(httpClient)
	gh.UserAgent = userAgent

	if cfg.APIBaseURL != "" {
		base := cfg.APIBaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github api_base_url: %w", err)
		}
		gh.BaseURL = parsed
	}

	return &Client{
		gh:          gh,
		rdb:         rdb,
		org:         cfg.Organization,
		responseTTL: time.Duration(cfg.ResponseTTLSeconds) * time.Second,
		inflight:    make(map[string]*inflightCall),
	}, nil
}

// OrgMetrics returns the organization's daily snapshots for the range.
func (c *Client) OrgMetrics(ctx context.Context, dateRange metrics.DateRange) ([]*model.DailySnapshot, error) {
	if c.org == "" {
		return nil, ErrNoOrganization
	}
	path := fmt.Sprintf("orgs/%s/copilot/metrics?since=%s&until=%s",
		c.org, dateRange.FormattedStart(), dateRange.FormattedEnd())
	key := responseKeyPrefix + strings.Join([]string{"org", c.org, dateRange.FormattedStart(), dateRange.FormattedEnd()}, ":")
	return c.fetch(ctx, path, key)
}

// TeamMetrics returns a team's daily snapshots for the range.
func (c *Client) TeamMetrics(ctx context.Context, teamSlug string, dateRange metrics.DateRange) ([]*model.DailySnapshot, error) {
	if c.org == "" {
		return nil, ErrNoOrganization
	}
	path := fmt.Sprintf("orgs/%s/team/%s/copilot/metrics?since=%s&until=%s",
		c.org, teamSlug, dateRange.FormattedStart(), dateRange.FormattedEnd())
	key := responseKeyPrefix + strings.Join([]string{"team", c.org, teamSlug, dateRange.FormattedStart(), dateRange.FormattedEnd()}, ":")
	return c.fetch(ctx, path, key)
}

// InvalidateResponses deletes cached responses whose key matches pattern
// ("*" for all). Returns the number of deleted keys.
func (c *Client) InvalidateResponses(ctx context.Context, pattern string) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}
	if pattern == "" {
		pattern = "*"
	}

	deleted := 0
	iter := c.rdb.Scan(ctx, 0, responseKeyPrefix+pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}

	log.Info().Str("pattern", pattern).Int("deleted", deleted).Msg("Invalidated cached responses")
	return deleted, nil
}

func (c *Client) fetch(ctx context.Context, path, key string) ([]*model.DailySnapshot, error) {
	if snaps, ok := c.cachedResponse(ctx, key); ok {
		log.Debug().Str("key", key).Msg("Upstream response served from redis")
		return snaps, nil
	}

	c.mu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.snaps, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	call.snaps, call.err = c.fetchUpstream(ctx, path)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	close(call.done)

	if call.err == nil {
		c.storeResponse(ctx, key, call.snaps)
	}
	return call.snaps, call.err
}

func (c *Client) cachedResponse(ctx context.Context, key string) ([]*model.DailySnapshot, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis read failed, fetching upstream")
		return nil, false
	}

	var snaps []*model.DailySnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cached response")
		c.rdb.Del(ctx, key)
		return nil, false
	}
	return snaps, true
}

func (c *Client) storeResponse(ctx context.Context, key string, snaps []*model.DailySnapshot) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(snaps)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal snapshots for caching")
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.responseTTL).Err(); err != nil {
		// Caching is best-effort; the response is already in hand.
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache upstream response")
	}
}

func (c *Client) fetchUpstream(ctx context.Context, path string) ([]*model.DailySnapshot, error) {
	attempts := 0
	for {
		req, err := c.gh.NewRequest(http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var snaps []*model.DailySnapshot
		if _, err = c.gh.Do(ctx, req, &snaps); err == nil {
			return snaps, nil
		}

		wait, rateLimited := rateLimitWait(err)
		attempts++
		if !rateLimited || attempts > maxRateLimitRetries {
			return nil, fmt.Errorf("github copilot metrics request failed: %w", err)
		}

		log.Warn().
			Dur("wait", wait).
			Int("attempt", attempts).
			Msg("GitHub rate limit hit, waiting before retry")

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// rateLimitWait extracts the wait duration from a go-github rate-limit
// error, capped so a far-off reset cannot stall a request indefinitely.
func rateLimitWait(err error) (time.Duration, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		wait := time.Until(rateErr.Rate.Reset.Time)
		if wait <= 0 {
			wait = 5 * time.Second
		}
		if wait > maxRateLimitWait {
			wait = maxRateLimitWait
		}
		return wait, true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		wait := 30 * time.Second
		if abuseErr.RetryAfter != nil {
			wait = *abuseErr.RetryAfter
		}
		if wait > maxRateLimitWait {
			wait = maxRateLimitWait
		}
		return wait, true
	}

	return 0, false
}
