// Package service answers height queries against a loaded grid.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/geoheight/internal/geocoding"
	"github.com/UnknownOlympus/geoheight/internal/grid"
	"github.com/UnknownOlympus/geoheight/internal/metrics"
	"github.com/UnknownOlympus/geoheight/internal/models"
)

var (
	// ErrGeocodingDisabled is returned by address queries when no provider is
	// configured.
	ErrGeocodingDisabled = errors.New("geocoding provider is not configured")
	// ErrGeocoding wraps every failure of the geocoding provider.
	ErrGeocoding = errors.New("geocoding failed")
)

// Height is the answer to a height query.
type Height struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    float64 `json:"height"`
}

// HeightService is the facade the API and export commands use. It is safe
// for concurrent use: the grid is read-only and the point cloud is built
// once on first request.
type HeightService struct {
	log      *slog.Logger
	src      grid.Source
	interp   *grid.Interpolator
	provider geocoding.Provider // nil disables address queries
	metrics  *metrics.Metrics

	cloudOnce sync.Once
	cloud     []models.Point
}

// NewHeightService creates a service over src. provider may be nil.
func NewHeightService(
	log *slog.Logger,
	src grid.Source,
	provider geocoding.Provider,
	metrics *metrics.Metrics,
) *HeightService {
	return &HeightService{
		log:      log,
		src:      src,
		interp:   grid.NewInterpolator(src),
		provider: provider,
		metrics:  metrics,
	}
}

// Metadata returns the geometry of the served grid.
func (hs *HeightService) Metadata() grid.Metadata {
	return hs.src.Metadata()
}

// HeightAt interpolates the height at a point given in decimal degrees.
func (hs *HeightService) HeightAt(ctx context.Context, lat, lon float64) (Height, error) {
	start := time.Now()
	h, err := hs.heightAt(ctx, lat, lon)
	hs.observe(metrics.KindPoint, start, err)

	return h, err
}

// HeightAtDMS interpolates the height at a point given in degrees, minutes
// and seconds.
func (hs *HeightService) HeightAtDMS(
	ctx context.Context,
	latD, latM int, latS float64,
	lonD, lonM int, lonS float64,
) (Height, error) {
	start := time.Now()
	h, err := hs.heightAt(ctx, grid.ToDegrees(latD, latM, latS), grid.ToDegrees(lonD, lonM, lonS))
	hs.observe(metrics.KindDMS, start, err)

	return h, err
}

// HeightAtAddress geocodes address and interpolates the height there.
func (hs *HeightService) HeightAtAddress(ctx context.Context, address string) (Height, error) {
	if hs.provider == nil {
		return Height{}, ErrGeocodingDisabled
	}

	start := time.Now()
	coords, err := hs.provider.Geocode(ctx, address)
	if err != nil {
		hs.log.ErrorContext(ctx, "Failed to geocode", "address", address, "error", err)
		hs.metrics.GeocodeErrors.Inc()
		err = fmt.Errorf("%w: %w", ErrGeocoding, err)
		hs.observe(metrics.KindAddress, start, err)
		return Height{}, err
	}

	h, err := hs.heightAt(ctx, coords.Latitude, coords.Longitude)
	hs.observe(metrics.KindAddress, start, err)

	return h, err
}

// PointCloud returns every valid sample of the grid. Sources that know their
// own sample coordinates and categories, such as meshes, provide them;
// other grids use the row-major stride walk.
func (hs *HeightService) PointCloud() []models.Point {
	hs.cloudOnce.Do(func() {
		if tagged, ok := hs.src.(interface{ Points() []models.Point }); ok {
			hs.cloud = tagged.Points()
		} else {
			hs.cloud = grid.PointCloud(hs.src)
		}
		hs.log.Info("Point cloud built", "points", len(hs.cloud))
	})

	return hs.cloud
}

// Scatter2D returns the point cloud as parallel longitude and latitude slices.
func (hs *HeightService) Scatter2D() ([]float64, []float64) {
	start := time.Now()
	cloud := hs.PointCloud()
	lons := make([]float64, len(cloud))
	lats := make([]float64, len(cloud))
	for i, p := range cloud {
		lons[i], lats[i] = p.Lon, p.Lat
	}
	hs.observe(metrics.KindScatter, start, nil)

	return lons, lats
}

func (hs *HeightService) heightAt(ctx context.Context, lat, lon float64) (Height, error) {
	z, err := hs.interp.HeightAt(lat, lon)
	if err != nil {
		var oor *grid.OutOfRangeError
		if errors.As(err, &oor) {
			hs.log.InfoContext(ctx, "Query outside the grid", "axis", oor.Axis.String(), "value", oor.Value)
		}
		return Height{}, err
	}
	hs.log.DebugContext(ctx, "Height interpolated", "lat", lat, "lon", lon, "height", z)

	return Height{Latitude: lat, Longitude: lon, Height: z}, nil
}

func (hs *HeightService) observe(kind string, start time.Time, err error) {
	status := metrics.StatusOK
	switch {
	case errors.Is(err, grid.ErrOutOfRange):
		status = metrics.StatusOutOfRange
	case err != nil:
		status = metrics.StatusError
	}
	hs.metrics.Queries.WithLabelValues(kind, status).Inc()
	hs.metrics.QuerySeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
