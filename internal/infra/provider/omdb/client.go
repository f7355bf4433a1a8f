// Package omdb implements the OMDB movie metadata provider client.
package omdb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"movie-search-service/internal/domain"
	"movie-search-service/internal/infra/provider"
	"movie-search-service/internal/metrics"
)

// Name is the provider identifier.
const Name = "omdb"

// Endpoint is the single OMDB API path; the operation is chosen by query parameters.
const Endpoint = "/"

// Client implements domain.MovieProvider for OMDB.
type Client struct {
	name    string
	apiKey  string
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[*resty.Response]
	limiter *provider.Limiter
	logger  *zap.Logger
}

// New creates a new OMDB client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		name:    Name,
		apiKey:  cfg.APIKey,
		client:  provider.NewRestyClient(cfg),
		cb:      provider.NewCircuitBreaker[*resty.Response](Name, cfg.CB, logger),
		limiter: provider.NewLimiter(cfg.RateLimit),
		logger:  logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// Search runs a keyword search.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	params := map[string]string{"s": query.Term}
	if query.Year != "" {
		params["y"] = query.Year
	}
	if query.Type != "" {
		params["type"] = string(query.Type)
	}
	if query.Page > 1 {
		params["page"] = strconv.Itoa(query.Page)
	}

	var result SearchResponse
	if err := c.get(ctx, "search", params, &result); err != nil {
		return nil, err
	}

	if !result.Succeeded() {
		c.count("search", metrics.OutcomeRejected)
		c.logger.Debug("omdb search rejected",
			zap.String("term", query.Term),
			zap.String("reason", result.Error),
		)

		return nil, &domain.RejectedError{Message: rejectionMessage(result.Error)}
	}

	page := result.ToDomain()
	c.count("search", metrics.OutcomeSuccess)

	c.logger.Debug("omdb search completed",
		zap.String("term", query.Term),
		zap.Int("count", len(page.Movies)),
		zap.Int("total", page.TotalResults),
	)

	return page, nil
}

// Detail fetches the full record for one IMDb identifier.
func (c *Client) Detail(ctx context.Context, id string, plot domain.PlotLength) (*domain.Movie, error) {
	params := map[string]string{"i": id}
	if plot == domain.PlotFull {
		params["plot"] = string(domain.PlotFull)
	}

	var result DetailResponse
	if err := c.get(ctx, "detail", params, &result); err != nil {
		return nil, err
	}

	if !result.Succeeded() {
		c.count("detail", metrics.OutcomeRejected)
		c.logger.Debug("omdb detail rejected",
			zap.String("imdb_id", id),
			zap.String("reason", result.Error),
		)

		return nil, &domain.RejectedError{Message: rejectionMessage(result.Error)}
	}

	c.count("detail", metrics.OutcomeSuccess)

	return result.ToDomain(), nil
}

// get performs one rate-limited, circuit-broken GET and decodes the body into result.
func (c *Client) get(ctx context.Context, operation string, params map[string]string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		c.count(operation, metrics.OutcomeFailure)

		return fmt.Errorf("%w: omdb %s: rate limiter: %w", domain.ErrUpstreamUnavailable, operation, err)
	}

	start := time.Now()
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("apikey", c.apiKey).
			SetQueryParams(params).
			ForceContentType("application/json").
			SetResult(result).
			Get(Endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("omdb returned status %d", r.StatusCode())
		}

		return r, nil
	})
	metrics.UpstreamRequestDuration.WithLabelValues(c.name, operation).Observe(time.Since(start).Seconds())

	if err != nil {
		c.count(operation, metrics.OutcomeFailure)
		c.logger.Warn("omdb request failed",
			zap.String("operation", operation),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return fmt.Errorf("%w: omdb %s: %w", domain.ErrUpstreamUnavailable, operation, err)
	}

	return nil
}

// count records a call outcome.
func (c *Client) count(operation, outcome string) {
	metrics.UpstreamRequestsTotal.WithLabelValues(c.name, operation, outcome).Inc()
}

func rejectionMessage(msg string) string {
	if msg == "" {
		return "empty response"
	}
	return msg
}
