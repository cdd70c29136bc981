// Package places wraps the mapping provider's place search API. Two search
// modes are exposed: category-scoped and free-text, both paginated.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// ErrProviderRequest marks mapping-API failures. Callers treat it as "this
// slice is exhausted" and move on; requests are never retried.
var ErrProviderRequest = errors.New("provider request failed")

// maxPageSize is the largest page the provider returns per request.
const maxPageSize = 20

// fieldMask limits the response to the fields the pipeline consumes,
// keeping per-request cost down.
var fieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.types",
	"places.rating",
	"places.userRatingCount",
	"places.websiteUri",
	"places.internationalPhoneNumber",
	"places.googleMapsUri",
	"nextPageToken",
}, ",")

// Place is one result record from either search mode.
type Place struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress         string   `json:"formattedAddress"`
	Types                    []string `json:"types"`
	Rating                   float64  `json:"rating"`
	UserRatingCount          int      `json:"userRatingCount"`
	WebsiteURI               string   `json:"websiteUri"`
	InternationalPhoneNumber string   `json:"internationalPhoneNumber"`
	GoogleMapsURI            string   `json:"googleMapsUri"`
}

// Config controls the search client.
type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	PageDelay time.Duration
}

// Client issues search requests against the provider.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a search client. BaseURL defaults to the production
// endpoint; override it in tests.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("places api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://places.googleapis.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = 300 * time.Millisecond
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type searchBody struct {
	TextQuery      string       `json:"textQuery,omitempty"`
	IncludedTypes  []string     `json:"includedTypes,omitempty"`
	LocationBias   locationBias `json:"locationBias"`
	MaxResultCount int          `json:"maxResultCount"`
	PageToken      string       `json:"pageToken,omitempty"`
}

type searchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken"`
}

// TextSearch runs a free-text query biased around center, following page
// tokens until the provider stops returning them.
func (c *Client) TextSearch(ctx context.Context, query string, center orb.Point, radiusMeters float64) ([]Place, error) {
	body := searchBody{
		TextQuery:      query,
		LocationBias:   bias(center, radiusMeters),
		MaxResultCount: maxPageSize,
	}
	return c.paginate(ctx, "/v1/places:searchText", body)
}

// CategorySearch runs a category-scoped query biased around center,
// likewise paginated to exhaustion.
func (c *Client) CategorySearch(ctx context.Context, category string, center orb.Point, radiusMeters float64) ([]Place, error) {
	body := searchBody{
		IncludedTypes:  []string{category},
		LocationBias:   bias(center, radiusMeters),
		MaxResultCount: maxPageSize,
	}
	return c.paginate(ctx, "/v1/places:searchNearby", body)
}

// paginate repeats the request with the token from the prior response and
// stops on a missing token, an empty page, or a non-success status. A small
// fixed delay separates pages.
func (c *Client) paginate(ctx context.Context, path string, body searchBody) ([]Place, error) {
	var all []Place
	for page := 1; ; page++ {
		resp, err := c.post(ctx, path, body)
		if err != nil {
			return all, err
		}
		if len(resp.Places) == 0 {
			return all, nil
		}
		all = append(all, resp.Places...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		body.PageToken = resp.NextPageToken
		c.logger.Debug("Following page token", zap.String("path", path), zap.Int("page", page))
		if err := pause(ctx, c.cfg.PageDelay); err != nil {
			return all, err
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body searchBody) (searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return searchResponse{}, fmt.Errorf("marshal search body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return searchResponse{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("%w: %v", ErrProviderRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return searchResponse{}, fmt.Errorf("%w: status %s", ErrProviderRequest, resp.Status)
	}
	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return searchResponse{}, fmt.Errorf("decode search response: %w", err)
	}
	return decoded, nil
}

func bias(center orb.Point, radiusMeters float64) locationBias {
	return locationBias{Circle: circle{
		Center: latLng{Latitude: center.Lat(), Longitude: center.Lon()},
		Radius: radiusMeters,
	}}
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("pagination pause canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
