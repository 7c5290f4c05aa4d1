package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/healthmate/healthmate-api/internal/model"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

const (
	defaultLookupTimeout = 10 * time.Second
	cacheTTL             = 10 * time.Minute
	cacheCleanup         = 30 * time.Minute
)

// ResolverConfig configures the free-text geocoding lookup. BaseURL points
// at a Nominatim-compatible search endpoint.
type ResolverConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Resolver turns free-text place names into coordinates. Successful lookups
// are cached for ten minutes so repeated searches for the same place do not
// hammer the upstream service.
type Resolver struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     *cache.Cache
	metrics   *metrics.Metrics
}

func NewResolver(cfg ResolverConfig, m *metrics.Metrics) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &Resolver{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
		cache:     cache.New(cacheTTL, cacheCleanup),
		metrics:   m,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// ResolveByName geocodes a free-text place name and returns the first
// result's coordinate. Returns a not-found error when the result set is
// empty and a network error when the lookup itself fails.
func (r *Resolver) ResolveByName(ctx context.Context, placeName string) (model.Coordinate, error) {
	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return model.Coordinate{}, apperrors.Validation("place name is required", nil)
	}

	cacheKey := strings.ToLower(placeName)
	if cached, ok := r.cache.Get(cacheKey); ok {
		if r.metrics != nil {
			r.metrics.GeocodeCacheHits.Inc()
		}
		return cached.(model.Coordinate), nil
	}

	lookupURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", r.baseURL, url.QueryEscape(placeName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("failed to build geocode request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.countLookup("network_error")
		return model.Coordinate{}, apperrors.Network(fmt.Errorf("geocode lookup failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.countLookup("upstream_error")
		return model.Coordinate{}, apperrors.Upstream("geocoding service", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		r.countLookup("decode_error")
		return model.Coordinate{}, apperrors.Upstream("geocoding service", fmt.Errorf("failed to decode response: %w", err))
	}

	if len(results) == 0 {
		r.countLookup("not_found")
		return model.Coordinate{}, apperrors.NotFound("place", fmt.Errorf("no geocoding results for %q", placeName))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		r.countLookup("decode_error")
		return model.Coordinate{}, apperrors.Upstream("geocoding service", fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		r.countLookup("decode_error")
		return model.Coordinate{}, apperrors.Upstream("geocoding service", fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err))
	}

	coord := model.Coordinate{Latitude: lat, Longitude: lon}
	r.cache.Set(cacheKey, coord, cache.DefaultExpiration)
	r.countLookup("success")
	return coord, nil
}

func (r *Resolver) countLookup(outcome string) {
	if r.metrics != nil {
		r.metrics.GeocodeLookups.WithLabelValues(outcome).Inc()
	}
}
