// Package api serves height queries over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/geoheight/internal/geocoding"
	"github.com/UnknownOlympus/geoheight/internal/grid"
	"github.com/UnknownOlympus/geoheight/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HeightService is what the API needs from service.HeightService.
type HeightService interface {
	Metadata() grid.Metadata
	HeightAt(ctx context.Context, lat, lon float64) (service.Height, error)
	HeightAtDMS(ctx context.Context, latD, latM int, latS float64, lonD, lonM int, lonS float64) (service.Height, error)
	HeightAtAddress(ctx context.Context, address string) (service.Height, error)
	Scatter2D() ([]float64, []float64)
}

// maxBodyBytes bounds request bodies; every request is a small JSON object.
const maxBodyBytes = 1 << 16

type server struct {
	log *slog.Logger
	svc HeightService
}

// NewRouter builds the HTTP handler. gatherer backs /metrics. The router
// recovers from panics and compresses responses.
func NewRouter(log *slog.Logger, svc HeightService, gatherer prometheus.Gatherer) http.Handler {
	s := &server{log: log, svc: svc}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/grid", s.gridInfo).Methods(http.MethodGet)
	router.HandleFunc("/height", s.height).Methods(http.MethodPost)
	router.HandleFunc("/height/dms", s.heightDMS).Methods(http.MethodPost)
	router.HandleFunc("/height/address", s.heightAddress).Methods(http.MethodGet)
	router.HandleFunc("/height/{lat}/{lon}", s.heightPath).Methods(http.MethodGet)
	router.HandleFunc("/scatter2d_data", s.scatter2D).Methods(http.MethodPost, http.MethodGet)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(log.Handler(), slog.LevelError)),
	)

	return recovery(handlers.CompressHandler(router))
}

type errorResponse struct {
	Error string `json:"error"`
}

type pointRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type dmsValue struct {
	Degrees int     `json:"degrees"`
	Minutes int     `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

type dmsRequest struct {
	Latitude  *dmsValue `json:"latitude"`
	Longitude *dmsValue `json:"longitude"`
}

type gridResponse struct {
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	OriginLat float64 `json:"origin_lat"`
	OriginLon float64 `json:"origin_lon"`
	DeltaLat  float64 `json:"delta_lat"`
	DeltaLon  float64 `json:"delta_lon"`
	MaxLat    float64 `json:"max_lat"`
	MaxLon    float64 `json:"max_lon"`
}

type scatterResponse struct {
	Data [2][]float64 `json:"data"`
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) gridInfo(w http.ResponseWriter, r *http.Request) {
	meta := s.svc.Metadata()
	s.writeJSON(r.Context(), w, http.StatusOK, gridResponse{
		Rows:      meta.Rows,
		Cols:      meta.Cols,
		OriginLat: meta.OriginLat,
		OriginLon: meta.OriginLon,
		DeltaLat:  meta.DeltaLat,
		DeltaLon:  meta.DeltaLon,
		MaxLat:    meta.MaxLat,
		MaxLon:    meta.MaxLon,
	})
}

func (s *server) height(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(w, r, &req); err != nil {
		s.badRequest(r.Context(), w, err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		s.badRequest(r.Context(), w, "latitude and longitude are required")
		return
	}

	h, err := s.svc.HeightAt(r.Context(), *req.Latitude, *req.Longitude)
	s.respond(r.Context(), w, h, err)
}

func (s *server) heightPath(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(mux.Vars(r)["lat"], 64)
	if err != nil {
		s.badRequest(r.Context(), w, "invalid latitude")
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(r)["lon"], 64)
	if err != nil {
		s.badRequest(r.Context(), w, "invalid longitude")
		return
	}

	h, err := s.svc.HeightAt(r.Context(), lat, lon)
	s.respond(r.Context(), w, h, err)
}

func (s *server) heightDMS(w http.ResponseWriter, r *http.Request) {
	var req dmsRequest
	if err := decode(w, r, &req); err != nil {
		s.badRequest(r.Context(), w, err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		s.badRequest(r.Context(), w, "latitude and longitude are required")
		return
	}

	lat, lon := req.Latitude, req.Longitude
	h, err := s.svc.HeightAtDMS(r.Context(),
		lat.Degrees, lat.Minutes, lat.Seconds,
		lon.Degrees, lon.Minutes, lon.Seconds,
	)
	s.respond(r.Context(), w, h, err)
}

func (s *server) heightAddress(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("q"))
	if address == "" {
		s.badRequest(r.Context(), w, "query parameter q is required")
		return
	}

	h, err := s.svc.HeightAtAddress(r.Context(), address)
	s.respond(r.Context(), w, h, err)
}

func (s *server) scatter2D(w http.ResponseWriter, r *http.Request) {
	lons, lats := s.svc.Scatter2D()
	s.writeJSON(r.Context(), w, http.StatusOK, scatterResponse{Data: [2][]float64{lons, lats}})
}

func (s *server) respond(ctx context.Context, w http.ResponseWriter, h service.Height, err error) {
	switch {
	case err == nil:
		s.writeJSON(ctx, w, http.StatusOK, h)
	case errors.Is(err, grid.ErrOutOfRange):
		s.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "no data at this location"})
	case errors.Is(err, geocoding.ErrNoResult):
		s.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "address not found"})
	case errors.Is(err, service.ErrGeocodingDisabled):
		s.writeJSON(ctx, w, http.StatusNotImplemented, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrGeocoding):
		s.writeJSON(ctx, w, http.StatusBadGateway, errorResponse{Error: "geocoding provider failed"})
	default:
		s.log.ErrorContext(ctx, "Height query failed", "error", err)
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *server) badRequest(ctx context.Context, w http.ResponseWriter, msg string) {
	s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (s *server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return errors.New("invalid request body")
	}

	return nil
}
