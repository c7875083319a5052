package mapview_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2023, time.November, 15, 6, 0, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	mapview.SetClock(clockwork.NewFakeClockAt(fixedNow))
	t.Cleanup(func() { mapview.SetClock(nil) })
}

func expectedLegend() mapview.Legend {
	return mapview.Legend{
		Position: "bottomright",
		Title:    "Earthquake Depth",
		Min:      "-10-10",
		Max:      "90+",
		Entries: []domain.LegendEntry{
			{Label: "-10-10", Depth: 10, Color: "rgb(56,139,81)"},
			{Label: "10-30", Depth: 20, Color: "rgb(76,130,78)"},
			{Label: "30-50", Depth: 40, Color: "rgb(117,113,72)"},
			{Label: "50-70", Depth: 60, Color: "rgb(158,95,65)"},
			{Label: "70-90", Depth: 80, Color: "rgb(199,77,58)"},
			{Label: "90+", Depth: 90, Color: "rgb(219,68,55)"},
		},
	}
}

func TestCompose_NoEvents(t *testing.T) {
	freezeClock(t)

	spec := mapview.Compose(nil)

	expected := mapview.Spec{
		Container:   "map",
		Title:       "Earthquake Map",
		GeneratedAt: fixedNow,
		View:        mapview.View{Center: mapview.LatLng{Lat: 37.09, Lng: -95.71}, Zoom: 5},
		BaseLayers: []mapview.TileLayer{
			{
				Name:        "Street Map",
				URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: mapview.StreetLayer.Attribution,
				Active:      true,
			},
			{
				Name:        "Topographic Map",
				URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: mapview.TopoLayer.Attribution,
			},
		},
		Overlays:     []mapview.Overlay{{Name: "Earthquakes", Active: true, Markers: []domain.Marker{}}},
		LayerControl: mapview.LayerControl{Collapsed: false},
		Legend:       expectedLegend(),
	}

	if diff := cmp.Diff(expected, spec); diff != "" {
		t.Errorf("Compose() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, spec.MarkerCount())
}

func TestCompose_WithMarkers(t *testing.T) {
	freezeClock(t)

	markers := domain.RenderMarkers([]domain.Event{{
		ID:        "us7000abcd",
		Place:     "10km N of Testville",
		Time:      time.UnixMilli(1700000000000),
		Magnitude: 4.5,
		Longitude: -100,
		Latitude:  35,
		Depth:     20,
	}}, time.UTC)

	spec := mapview.Compose(markers,
		mapview.WithTitle("USGS All Earthquakes, Past Week"),
		mapview.WithSource("https://example.test/feed.geojson"),
		mapview.WithRunID("run-1"),
	)

	require.Len(t, spec.Overlays, 1)
	require.Len(t, spec.Overlays[0].Markers, 1)
	assert.Equal(t, 22.5, spec.Overlays[0].Markers[0].Radius)
	assert.Equal(t, 1, spec.MarkerCount())
	assert.Equal(t, "USGS All Earthquakes, Past Week", spec.Title)
	assert.Equal(t, "https://example.test/feed.geojson", spec.Source)
	assert.Equal(t, "run-1", spec.RunID)
	assert.Equal(t, fixedNow, spec.GeneratedAt)
}

func TestCompose_CopiesMarkers(t *testing.T) {
	markers := []domain.Marker{{EventID: "a"}}
	spec := mapview.Compose(markers)

	markers[0].EventID = "mutated"
	assert.Equal(t, "a", spec.Overlays[0].Markers[0].EventID)
}

func TestCompose_EmptyTitleKeepsDefault(t *testing.T) {
	spec := mapview.Compose(nil, mapview.WithTitle(""))
	assert.Equal(t, mapview.DefaultTitle, spec.Title)
}

func TestCompose_GeneratedAtOverride(t *testing.T) {
	at := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	spec := mapview.Compose(nil, mapview.WithGeneratedAt(at))
	assert.True(t, spec.GeneratedAt.Equal(at))
	assert.Equal(t, time.UTC, spec.GeneratedAt.Location())
}

func TestSpec_JSONShape(t *testing.T) {
	freezeClock(t)

	data, err := json.Marshal(mapview.Compose(nil))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	overlays := doc["overlays"].([]any)
	require.Len(t, overlays, 1)
	assert.Equal(t, []any{}, overlays[0].(map[string]any)["markers"])
	assert.Equal(t, false, doc["layer_control"].(map[string]any)["collapsed"])
	assert.Len(t, doc["legend"].(map[string]any)["entries"], 6)
	assert.NotContains(t, doc, "run_id")
}
