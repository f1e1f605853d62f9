package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/geoheight/internal/models"
	"golang.org/x/time/rate"
)

// DefaultNominatimURL is the public search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// nominatimUserAgent identifies the service as the Nominatim usage policy
// requires.
const nominatimUserAgent = "geoheight/1.0 (https://github.com/UnknownOlympus/geoheight)"

// ErrInvalidCoords is returned when Nominatim answers with coordinates that do
// not parse.
var ErrInvalidCoords = errors.New("nominatim API returned invalid coordinates")

// HTTPClient is the part of *http.Client the provider uses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NominatimProvider geocodes through an OpenStreetMap Nominatim instance.
// Requests are spaced by a rate limiter, one per second by default as the
// public instance asks.
type NominatimProvider struct {
	client  HTTPClient
	baseURL string
	limiter *rate.Limiter
	log     *slog.Logger
}

// NominatimOption configures a NominatimProvider.
type NominatimOption func(*NominatimProvider)

// WithHTTPClient replaces the default client with a 10 second timeout.
func WithHTTPClient(c HTTPClient) NominatimOption {
	return func(np *NominatimProvider) { np.client = c }
}

// WithBaseURL points the provider at another Nominatim instance.
func WithBaseURL(u string) NominatimOption {
	return func(np *NominatimProvider) { np.baseURL = u }
}

// WithRateLimit allows perSecond requests per second.
func WithRateLimit(perSecond int) NominatimOption {
	return func(np *NominatimProvider) {
		np.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimProvider creates a provider for the public Nominatim endpoint
// unless options say otherwise.
func NewNominatimProvider(log *slog.Logger, opts ...NominatimOption) *NominatimProvider {
	const timeout = 10 * time.Second
	np := &NominatimProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: DefaultNominatimURL,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log,
	}
	for _, opt := range opts {
		opt(np)
	}

	return np
}

// Geocode returns the location of the top search result for address.
func (np *NominatimProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "address", address)

	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	query := reqURL.Query()
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("countrycodes", "jp")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)
	req.Header.Set("Accept-Language", "ja,en")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResult
	}

	top := results[0]
	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrInvalidCoords, top.Lat)
	}
	lon, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrInvalidCoords, top.Lon)
	}
	np.log.DebugContext(ctx, "Nominatim found result", "display_name", top.DisplayName, "lat", lat, "lon", lon)

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
