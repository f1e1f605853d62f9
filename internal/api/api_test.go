package api_test

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/UnknownOlympus/geoheight/internal/api"
	"github.com/UnknownOlympus/geoheight/internal/geocoding"
	"github.com/UnknownOlympus/geoheight/internal/grid"
	"github.com/UnknownOlympus/geoheight/internal/metrics"
	"github.com/UnknownOlympus/geoheight/internal/models"
	"github.com/UnknownOlympus/geoheight/internal/service"
	"github.com/UnknownOlympus/geoheight/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, provider geocoding.Provider) http.Handler {
	t.Helper()

	meta := grid.Metadata{
		OriginLat: 20, OriginLon: 120,
		DeltaLat: 1, DeltaLon: 1,
		Rows: 3, Cols: 4,
		MaxLat: 22, MaxLon: 123,
		NoData:      grid.PresentBelow(999),
		Orientation: grid.Ascending,
	}
	samples := make([]float64, 0, meta.Rows*meta.Cols)
	for row := range meta.Rows {
		for col := range meta.Cols {
			samples = append(samples, float64(row*10+col))
		}
	}
	g, err := grid.New(meta, samples)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc := service.NewHeightService(slog.Default(), g, provider, metrics.NewMetrics(reg))

	return api.NewRouter(slog.Default(), svc, reg)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Height(t *testing.T) {
	t.Parallel()
	router := newRouter(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		want   string
	}{
		{"post height", http.MethodPost, "/height", `{"latitude":21,"longitude":121.5}`, http.StatusOK,
			`{"latitude":21,"longitude":121.5,"height":11.5}`},
		{"path height", http.MethodGet, "/height/20/122", "", http.StatusOK,
			`{"latitude":20,"longitude":122,"height":2}`},
		{"dms height", http.MethodPost, "/height/dms",
			`{"latitude":{"degrees":21,"minutes":0,"seconds":0},"longitude":{"degrees":121,"minutes":30,"seconds":0}}`,
			http.StatusOK, `{"latitude":21,"longitude":121.5,"height":11.5}`},
		{"out of range", http.MethodPost, "/height", `{"latitude":35,"longitude":121}`, http.StatusNotFound,
			`{"error":"no data at this location"}`},
		{"ceiling is out of range", http.MethodGet, "/height/22/121", "", http.StatusNotFound,
			`{"error":"no data at this location"}`},
		{"malformed body", http.MethodPost, "/height", `{"latitude":`, http.StatusBadRequest,
			`{"error":"invalid request body"}`},
		{"missing longitude", http.MethodPost, "/height", `{"latitude":21}`, http.StatusBadRequest,
			`{"error":"latitude and longitude are required"}`},
		{"bad path latitude", http.MethodGet, "/height/north/121", "", http.StatusBadRequest,
			`{"error":"invalid latitude"}`},
		{"bad path longitude", http.MethodGet, "/height/21/east", "", http.StatusBadRequest,
			`{"error":"invalid longitude"}`},
		{"missing dms", http.MethodPost, "/height/dms", `{"latitude":{"degrees":21}}`, http.StatusBadRequest,
			`{"error":"latitude and longitude are required"}`},
		{"address without provider", http.MethodGet, "/height/address?q=Tokyo", "", http.StatusNotImplemented,
			`{"error":"geocoding provider is not configured"}`},
		{"address without query", http.MethodGet, "/height/address", "", http.StatusBadRequest,
			`{"error":"query parameter q is required"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(router, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRouter_HeightAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		coords *models.Coordinates
		err    error
		status int
		want   string
	}{
		{"success", &models.Coordinates{Latitude: 21, Longitude: 121}, nil, http.StatusOK,
			`{"latitude":21,"longitude":121,"height":11}`},
		{"address not found", nil, geocoding.ErrNoResult, http.StatusNotFound, `{"error":"address not found"}`},
		{"provider failure", nil, assert.AnError, http.StatusBadGateway, `{"error":"geocoding provider failed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := mocks.NewProvider(t)
			provider.On("Geocode", mock.Anything, "東京駅").Return(tt.coords, tt.err).Once()
			router := newRouter(t, provider)

			rec := serve(router, http.MethodGet, "/height/address?q="+url.QueryEscape("東京駅"), "")

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestRouter_Scatter2D(t *testing.T) {
	t.Parallel()
	rec := serve(newRouter(t, nil), http.MethodPost, "/scatter2d_data", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data [][]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Len(t, resp.Data[0], 12)
	assert.Len(t, resp.Data[1], 12)
	assert.InDelta(t, 123.0, resp.Data[0][3], 0)
	assert.InDelta(t, 22.0, resp.Data[1][11], 0)
}

func TestRouter_Service(t *testing.T) {
	t.Parallel()
	router := newRouter(t, nil)

	t.Run("healthz", func(t *testing.T) {
		t.Parallel()
		rec := serve(router, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("grid", func(t *testing.T) {
		t.Parallel()
		rec := serve(router, http.MethodGet, "/grid", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"rows":3,"cols":4,"origin_lat":20,"origin_lon":120,"delta_lat":1,"delta_lon":1,
			"max_lat":22,"max_lon":123}`, rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()
		serve(router, http.MethodGet, "/height/20/120", "")
		rec := serve(router, http.MethodGet, "/metrics", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "geoheight_queries_total")
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		rec := serve(router, http.MethodDelete, "/height", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("gzip", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/scatter2d_data", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"data":[[120,121`)
	})
}

// panicking fails every call to exercise panic recovery.
type panicking struct {
	api.HeightService
}

func (panicking) Metadata() grid.Metadata {
	panic("boom")
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	t.Parallel()
	router := api.NewRouter(slog.Default(), panicking{}, prometheus.NewRegistry())

	rec := serve(router, http.MethodGet, "/grid", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
