package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"golang.org/x/time/rate"

	"animeshow/internal/metrics"
	"animeshow/internal/shared"
)

const (
	DefaultAPIURL  = "https://graphql.anilist.co"
	DefaultPerPage = 5
	DefaultTimeout = 10 * time.Second

	// AniList allows ~90 requests per minute
	defaultRateLimit = 1
	defaultRateBurst = 5

	// upper bound on how much of an error body ends up in messages
	maxErrorBody = 512
)

// characterSearchQuery is the fixed query sent for every search.
// media is capped to 3 entries server-side.
const characterSearchQuery = `
query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    characters(search: $search, sort: FAVOURITES_DESC) {
      id
      name {
        first
        middle
        last
        full
        native
        alternative
      }
      image {
        large
        medium
      }
      description
      gender
      dateOfBirth {
        year
        month
        day
      }
      age
      bloodType
      favourites
      siteUrl
      media(page: 1, perPage: 3, sort: POPULARITY_DESC) {
        edges {
          node {
            id
            title {
              romaji
              english
              native
            }
            type
          }
        }
      }
    }
  }
}
`

// ClientConfig holds the tunables of the AniList client
type ClientConfig struct {
	APIURL    string
	Timeout   time.Duration
	PerPage   int
	RateLimit float64 // requests per second
	RateBurst int

	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// AniListClient sends GraphQL requests to AniList with rate limiting
type AniListClient struct {
	apiURL      string
	perPage     int
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewClient creates a new AniList API client. Zero values in cfg fall
// back to the package defaults.
func NewClient(cfg ClientConfig) (*AniListClient, error) {
	if err := validateQuery(characterSearchQuery); err != nil {
		return nil, err
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &AniListClient{
		apiURL:      cfg.APIURL,
		perPage:     cfg.PerPage,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}, nil
}

// validateQuery parses the query document and checks it declares the
// variables the client sends.
func validateQuery(query string) error {
	doc, err := parser.ParseQuery(&ast.Source{Name: "characterSearch", Input: query})
	if err != nil {
		return fmt.Errorf("parse character search query: %w", err)
	}
	if len(doc.Operations) != 1 {
		return fmt.Errorf("character search query: want 1 operation, got %d", len(doc.Operations))
	}
	for _, name := range []string{"search", "page", "perPage"} {
		if doc.Operations[0].VariableDefinitions.ForName(name) == nil {
			return fmt.Errorf("character search query: missing variable $%s", name)
		}
	}
	return nil
}

// GraphQLRequest represents a GraphQL query request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message   string                 `json:"message"`
	Locations []GraphQLErrorLocation `json:"locations,omitempty"`
}

// GraphQLErrorLocation represents error location
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PerPage returns the configured default page size
func (c *AniListClient) PerPage() int {
	return c.perPage
}

// SearchCharacters fetches the first page of characters matching search,
// most favourited first. perPage <= 0 uses the configured default.
// Records are returned unflattened.
func (c *AniListClient) SearchCharacters(ctx context.Context, search string, perPage int) ([]RawCharacter, error) {
	if perPage <= 0 {
		perPage = c.perPage
	}

	variables := map[string]interface{}{
		"search":  search,
		"page":    1,
		"perPage": perPage,
	}

	var result CharacterPageResponse
	if err := c.doRequest(ctx, characterSearchQuery, variables, &result); err != nil {
		return nil, err
	}

	if result.Page == nil || result.Page.Characters == nil {
		return []RawCharacter{}, nil
	}
	return result.Page.Characters, nil
}

// doRequest performs one rate limited GraphQL request. Failures are
// never retried.
func (c *AniListClient) doRequest(ctx context.Context, query string, variables map[string]interface{}, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveUpstream(outcome(err), time.Since(start))
	}()

	bodyJSON, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &shared.UpstreamError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("anilist_request_failed", "error", err)
		return &shared.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &shared.UpstreamError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("anilist_bad_status", "status", resp.StatusCode)
		return &shared.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(truncate(string(respBody), maxErrorBody)),
		}
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return &shared.UpstreamError{Err: fmt.Errorf("parse GraphQL response: %w", err)}
	}

	if len(gqlResp.Errors) > 0 {
		errMsgs := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			errMsgs[i] = e.Message
		}
		return &shared.UpstreamError{Err: fmt.Errorf("GraphQL errors: %v", errMsgs)}
	}

	// a missing data member is an empty result, not a failure
	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(gqlResp.Data, result); err != nil {
		if errors.Is(err, shared.ErrInvalidUpstreamShape) {
			return fmt.Errorf("decode characters: %w", err)
		}
		return &shared.UpstreamError{Err: fmt.Errorf("parse data: %w", err)}
	}

	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, shared.ErrInvalidUpstreamShape):
		return "invalid_shape"
	default:
		return "error"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
