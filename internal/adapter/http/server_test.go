package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/quake-map/internal/adapter/http"
	"github.com/couchcryptid/quake-map/internal/adapter/leaflet"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRenderer struct{}

func (failingRenderer) RenderHTML(mapview.Spec) ([]byte, error) {
	return nil, errors.New("template exploded")
}

func newTestServer() *httpadapter.Server {
	return httpadapter.NewServer(":0", leaflet.NewRenderer(), slog.Default())
}

func testSpec() mapview.Spec {
	markers := domain.RenderMarkers([]domain.Event{{
		ID:        "us7000abcd",
		Place:     "10km N of Testville",
		Time:      time.UnixMilli(1700000000000),
		Magnitude: 4.5,
		Longitude: -100,
		Latitude:  35,
		Depth:     20,
	}}, time.UTC)
	return mapview.Compose(markers, mapview.WithGeneratedAt(time.Date(2023, time.November, 15, 6, 0, 0, 0, time.UTC)))
}

func serve(srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503BeforePublish(t *testing.T) {
	rec := serve(newTestServer(), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no map has been published yet", body["error"])
}

func TestReadyzReturns200AfterPublish(t *testing.T) {
	srv := newTestServer()
	require.NoError(t, srv.Publish(context.Background(), testSpec()))

	rec := serve(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestPageReturns503BeforePublish(t *testing.T) {
	srv := newTestServer()

	assert.Equal(t, http.StatusServiceUnavailable, serve(srv, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(srv, "/map.json").Code)
}

func TestPageServesPublishedMap(t *testing.T) {
	srv := newTestServer()
	require.NoError(t, srv.Publish(context.Background(), testSpec()))

	rec := serve(srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Wed, 15 Nov 2023 06:00:00 GMT", rec.Header().Get("Last-Modified"))
	assert.Contains(t, rec.Body.String(), "Earthquake Depth")
	assert.Contains(t, rec.Body.String(), "rgb(76,130,78)")
}

func TestSpecServesPublishedJSON(t *testing.T) {
	srv := newTestServer()
	require.NoError(t, srv.Publish(context.Background(), testSpec()))

	rec := serve(srv, "/map.json")

	assert.Equal(t, http.StatusOK, rec.Code)
	var spec mapview.Spec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, 1, spec.MarkerCount())
	assert.Equal(t, 22.5, spec.Overlays[0].Markers[0].Radius)
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer()
	require.NoError(t, srv.Publish(context.Background(), testSpec()))

	assert.Equal(t, http.StatusNotFound, serve(srv, "/nope").Code)
}

func TestPublishRenderError(t *testing.T) {
	srv := httpadapter.NewServer(":0", failingRenderer{}, slog.Default())

	err := srv.Publish(context.Background(), testSpec())
	require.Error(t, err)
	require.Error(t, srv.CheckReadiness(context.Background()))
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
