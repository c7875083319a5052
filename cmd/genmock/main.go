// Command genmock generates a deterministic USGS-style GeoJSON feed and the
// map.json the pipeline renders from it. It runs the real domain and mapview
// packages so the fixture pair always matches pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -feed-out data/mock/feed.geojson \
//	  -map-out data/mock/map.json \
//	  -count 200 -seed 42
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/quake-map/internal/adapter/leaflet"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/jonboulle/clockwork"
)

const mockFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"

var (
	generatedAt = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	windowStart = generatedAt.Add(-7 * 24 * time.Hour)
)

// region is a rough bounding box that mock events are scattered within.
type region struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
	maxDepth       float64
	network        string
}

var regions = []region{
	{name: "CA", minLat: 32.5, maxLat: 41.9, minLon: -124.3, maxLon: -114.2, maxDepth: 25, network: "nc"},
	{name: "Alaska", minLat: 51.2, maxLat: 65.0, minLon: -179.0, maxLon: -141.0, maxDepth: 150, network: "ak"},
	{name: "Nevada", minLat: 35.0, maxLat: 42.0, minLon: -120.0, maxLon: -114.0, maxDepth: 15, network: "nn"},
	{name: "Oklahoma", minLat: 33.6, maxLat: 37.0, minLon: -103.0, maxLon: -94.4, maxDepth: 10, network: "ok"},
	{name: "Puerto Rico", minLat: 17.5, maxLat: 19.5, minLon: -68.0, maxLon: -64.5, maxDepth: 120, network: "pr"},
	{name: "Fiji Islands region", minLat: -21.0, maxLat: -15.0, minLon: -180.0, maxLon: -175.0, maxDepth: 650, network: "us"},
}

var directions = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feedOut := flag.String("feed-out", "", "output path for the GeoJSON feed fixture")
	mapOut := flag.String("map-out", "", "output path for the rendered map.json fixture")
	count := flag.Int("count", 200, "number of features to generate")
	malformed := flag.Int("malformed", 2, "number of features with a null magnitude")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *feedOut == "" || *mapOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -feed-out, -map-out")
	}
	if *count < 0 || *malformed < 0 || *malformed > *count {
		return fmt.Errorf("invalid counts: -count %d, -malformed %d", *count, *malformed)
	}

	// Fixed clock for a reproducible generated_at.
	mapview.SetClock(clockwork.NewFakeClockAt(generatedAt))
	defer mapview.SetClock(nil)

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)) //nolint:gosec // fixture data
	feed := generateFeed(rng, *count, *malformed)

	if err := writeJSON(*feedOut, feed); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s (%d features)", *feedOut, len(feed.Features))

	events, rejects := domain.ParseFeed(feed)
	for _, r := range rejects {
		log.Printf("rejected: %v", r)
	}

	spec := mapview.Compose(domain.RenderMarkers(events, time.UTC),
		mapview.WithTitle(feed.Metadata.Title),
		mapview.WithSource(mockFeedURL),
		mapview.WithRunID(fmt.Sprintf("genmock-%d", *seed)),
	)
	data, err := leaflet.RenderJSON(spec)
	if err != nil {
		return fmt.Errorf("rendering map spec: %w", err)
	}
	if err := writeFile(*mapOut, data); err != nil {
		return fmt.Errorf("writing map fixture: %w", err)
	}
	log.Printf("wrote map fixture: %s (%d markers)", *mapOut, spec.MarkerCount())

	printStats(events, len(rejects))
	return nil
}

func generateFeed(rng *rand.Rand, count, malformed int) domain.Feed {
	features := make([]domain.Feature, 0, count)
	span := generatedAt.Sub(windowStart)

	for i := range count {
		r := regions[rng.IntN(len(regions))]
		lat := round(between(rng, r.minLat, r.maxLat), 4)
		lon := round(between(rng, r.minLon, r.maxLon), 4)
		depth := round(between(rng, -3, r.maxDepth), 2)
		mag := round(magnitude(rng), 1)
		t := windowStart.Add(time.Duration(rng.Int64N(int64(span)))).UnixMilli()
		place := fmt.Sprintf("%dkm %s of %s", 1+rng.IntN(120), directions[rng.IntN(len(directions))], r.name)
		id := fmt.Sprintf("%s%08d", r.network, 70000000+i)

		f := domain.Feature{
			Type: "Feature",
			ID:   id,
			Properties: domain.FeatureProperties{
				Place: &place,
				Time:  &t,
				Mag:   &mag,
				URL:   "https://earthquake.usgs.gov/earthquakes/eventpage/" + id,
			},
			Geometry: domain.FeatureGeometry{
				Type:        "Point",
				Coordinates: []*float64{&lon, &lat, &depth},
			},
		}
		// The last features get a null magnitude so the reject path is covered.
		if i >= count-malformed {
			f.Properties.Mag = nil
		}
		features = append(features, f)
	}

	sort.Slice(features, func(i, j int) bool {
		return *features[i].Properties.Time > *features[j].Properties.Time
	})

	return domain.Feed{
		Type: "FeatureCollection",
		Metadata: domain.FeedMetadata{
			Generated: generatedAt.UnixMilli(),
			URL:       mockFeedURL,
			Title:     "USGS All Earthquakes, Past Week",
			Count:     len(features),
		},
		Features: features,
	}
}

// magnitude roughly follows Gutenberg-Richter: small events dominate.
func magnitude(rng *rand.Rand) float64 {
	return math.Min(-0.5+rng.ExpFloat64()*1.1, 8.2)
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(events []domain.Event, rejected int) {
	entries := mapview.NewLegend().Entries
	buckets := make([]int, len(entries))
	opacity := map[float64]int{}
	var maxRadius float64

	for i := range events {
		e := &events[i]
		buckets[depthBucket(e.Depth)]++
		opacity[domain.DepthOpacity(e.Depth)]++
		maxRadius = math.Max(maxRadius, domain.MagnitudeRadius(e.Magnitude))
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Accepted: %d, rejected: %d\n", len(events), rejected)
	fmt.Println("By legend bucket:")
	for i, e := range entries {
		fmt.Printf("  %-8s %d\n", e.Label, buckets[i])
	}
	fmt.Printf("By fill opacity: 1.0=%d, 0.8=%d, 0.6=%d\n", opacity[1], opacity[0.8], opacity[0.6])
	fmt.Printf("Max radius: %g\n", maxRadius)
}

// depthBucket maps a depth onto the legend row whose range contains it.
func depthBucket(depth float64) int {
	switch {
	case depth < 10:
		return 0
	case depth < 30:
		return 1
	case depth < 50:
		return 2
	case depth < 70:
		return 3
	case depth < 90:
		return 4
	default:
		return 5
	}
}
