// Command validate checks a rendered map.json against the feed it was built
// from. It re-derives every marker's style from the feed, confirms the
// static legend, and verifies the view and layer settings.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed internal/pipeline/testdata/feed.geojson \
//	  -map public/map.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to the USGS GeoJSON feed")
	mapPath := flag.String("map", "", "path to the rendered map.json")
	tz := flag.String("tz", "UTC", "display zone the map was rendered with")
	flag.Parse()

	if *feedPath == "" || *mapPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *mapPath, *tz); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath, mapPath, tz string) int {
	fmt.Println("=== Quake Map Validation ===")
	fmt.Println()

	loc, err := time.LoadLocation(tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load zone: %v\n", err)
		return 1
	}

	feed, err := loadFeed(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load feed: %v\n", err)
		return 1
	}

	spec, err := loadSpec(mapPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load map: %v\n", err)
		return 1
	}

	events, rejects := domain.ParseFeed(feed)

	phases := []*phase{
		validateLayout(spec),
		validateLegend(spec.Legend),
		validateMarkers(spec, events, loc),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Features: %d in feed, %d accepted, %d rejected, %d markers on map\n",
		len(feed.Features), len(events), len(rejects), spec.MarkerCount())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadFeed(path string) (domain.Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Feed{}, err
	}
	defer f.Close()
	return domain.DecodeFeed(f)
}

func loadSpec(path string) (mapview.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mapview.Spec{}, err
	}
	var spec mapview.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return mapview.Spec{}, fmt.Errorf("decode map spec: %w", err)
	}
	return spec, nil
}

// ── Phases ──

func validateLayout(spec mapview.Spec) *phase {
	p := &phase{name: "Phase 1: View and layers"}

	if spec.View.Center != (mapview.LatLng{Lat: mapview.CenterLat, Lng: mapview.CenterLng}) {
		p.errorf("center = %+v", spec.View.Center)
	}
	if spec.View.Zoom != mapview.DefaultZoom {
		p.errorf("zoom = %d, want %d", spec.View.Zoom, mapview.DefaultZoom)
	}
	if len(spec.BaseLayers) != 2 {
		p.errorf("base layers = %d, want 2", len(spec.BaseLayers))
	} else {
		if spec.BaseLayers[0].URL != mapview.StreetLayer.URL || !spec.BaseLayers[0].Active {
			p.errorf("street layer missing or inactive: %+v", spec.BaseLayers[0])
		}
		if spec.BaseLayers[1].URL != mapview.TopoLayer.URL || spec.BaseLayers[1].Active {
			p.errorf("topographic layer missing or active: %+v", spec.BaseLayers[1])
		}
	}
	if len(spec.Overlays) != 1 || spec.Overlays[0].Name != mapview.OverlayName || !spec.Overlays[0].Active {
		p.errorf("expected one active %q overlay", mapview.OverlayName)
	}
	if spec.LayerControl.Collapsed {
		p.errorf("layer control is collapsed")
	}
	return p
}

func validateLegend(legend mapview.Legend) *phase {
	p := &phase{name: "Phase 2: Legend"}

	want := mapview.NewLegend()
	if legend.Position != want.Position {
		p.errorf("position = %q, want %q", legend.Position, want.Position)
	}
	if legend.Min != want.Min || legend.Max != want.Max {
		p.errorf("min/max = %q/%q, want %q/%q", legend.Min, legend.Max, want.Min, want.Max)
	}
	if len(legend.Entries) != len(want.Entries) {
		p.errorf("entries = %d, want %d", len(legend.Entries), len(want.Entries))
		return p
	}
	for i, e := range legend.Entries {
		if e != want.Entries[i] {
			p.errorf("entry %d = %+v, want %+v", i, e, want.Entries[i])
		}
	}
	return p
}

func validateMarkers(spec mapview.Spec, events []domain.Event, loc *time.Location) *phase {
	p := &phase{name: "Phase 3: Marker encoding"}

	if len(spec.Overlays) == 0 {
		p.errorf("no overlay")
		return p
	}
	markers := spec.Overlays[0].Markers
	if len(markers) != len(events) {
		p.errorf("markers = %d, accepted events = %d", len(markers), len(events))
	}

	n := min(len(markers), len(events))
	for i := range n {
		compareMarker(p, i, markers[i], domain.NewMarker(events[i], loc))
	}
	return p
}

func compareMarker(p *phase, i int, got, want domain.Marker) {
	pf := func(format string, args ...any) {
		p.errorf("[%d %s] %s", i, want.EventID, fmt.Sprintf(format, args...))
	}

	if got.EventID != want.EventID {
		pf("event_id = %q", got.EventID)
	}
	if !floatEq(got.Lat, want.Lat) || !floatEq(got.Lon, want.Lon) {
		pf("position = %v,%v want %v,%v", got.Lat, got.Lon, want.Lat, want.Lon)
	}
	if !floatEq(got.Radius, want.Radius) {
		pf("radius = %v want %v", got.Radius, want.Radius)
	}
	if got.FillColor != want.FillColor {
		pf("fill_color = %q want %q", got.FillColor, want.FillColor)
	}
	if !floatEq(got.FillOpacity, want.FillOpacity) {
		pf("fill_opacity = %v want %v", got.FillOpacity, want.FillOpacity)
	}
	if got.Color != want.Color {
		pf("color = %q want %q", got.Color, want.Color)
	}
	if got.Popup != want.Popup {
		pf("popup = %+v want %+v", got.Popup, want.Popup)
	}
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
