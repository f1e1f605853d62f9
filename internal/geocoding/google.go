package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/geoheight/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider geocodes through the Google Maps Geocoding API, biased to
// Japanese results since the height grids cover Japan.
type GoogleProvider struct {
	client GoogleAPIClient
	log    *slog.Logger
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

const (
	googleRegion   = "jp"
	googleLanguage = "ja"
)

// NewGoogleProvider wraps an already configured Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode returns the location of the best match for address.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address, Region: googleRegion, Language: googleLanguage}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResult
	}

	loc := results[0].Geometry.Location
	gp.log.DebugContext(ctx, "Google Maps found result",
		"formatted_address", results[0].FormattedAddress, "lat", loc.Lat, "lon", loc.Lng)

	return &models.Coordinates{Longitude: loc.Lng, Latitude: loc.Lat}, nil
}
