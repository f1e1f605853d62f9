// Package geocoding resolves addresses to coordinates for height queries by
// address.
package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/geoheight/internal/models"
)

// Provider is an interface that defines a method for geocoding an address.
// The Geocode method takes a context and an address string as input,
// and returns the corresponding coordinates and an error if any occurs.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// ErrNoResult is returned when a provider knows no location for an address.
var ErrNoResult = errors.New("geocoding provider returned no result")
