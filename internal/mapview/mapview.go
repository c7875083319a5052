// Package mapview composes rendered markers into an immutable map
// specification: view, base layers, overlays, layer switcher, and legend.
// Rendering adapters realize a Spec against a concrete map widget.
package mapview

import (
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// Fixed view and layer settings.
const (
	ContainerID = "map"

	CenterLat   = 37.09
	CenterLng   = -95.71
	DefaultZoom = 5

	DefaultTitle   = "Earthquake Map"
	OverlayName    = "Earthquakes"
	LegendTitle    = "Earthquake Depth"
	LegendPosition = "bottomright"
)

// Base tile layers, street first.
var (
	StreetLayer = TileLayer{
		Name:        "Street Map",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	}
	TopoLayer = TileLayer{
		Name:        "Topographic Map",
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: `Map data: &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, <a href="https://creativecommons.org/licenses/by-sa/3.0/">CC-BY-SA</a>`,
	}
)

// LatLng is a WGS-84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// View is the initial viewport.
type View struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// TileLayer is a base layer drawn from an XYZ tile template.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Active      bool   `json:"active"`
}

// Overlay is a toggleable marker layer.
type Overlay struct {
	Name    string          `json:"name"`
	Active  bool            `json:"active"`
	Markers []domain.Marker `json:"markers"`
}

// LayerControl configures the base/overlay switcher.
type LayerControl struct {
	Collapsed bool `json:"collapsed"`
}

// Legend is the depth color key.
type Legend struct {
	Position string               `json:"position"`
	Title    string               `json:"title"`
	Min      string               `json:"min"`
	Max      string               `json:"max"`
	Entries  []domain.LegendEntry `json:"entries"`
}

// Spec is everything a rendering adapter needs to draw the map.
type Spec struct {
	Container    string       `json:"container"`
	Title        string       `json:"title"`
	Source       string       `json:"source,omitempty"`
	RunID        string       `json:"run_id,omitempty"`
	GeneratedAt  time.Time    `json:"generated_at"`
	View         View         `json:"view"`
	BaseLayers   []TileLayer  `json:"base_layers"`
	Overlays     []Overlay    `json:"overlays"`
	LayerControl LayerControl `json:"layer_control"`
	Legend       Legend       `json:"legend"`
}

// MarkerCount totals markers across all overlays.
func (s Spec) MarkerCount() int {
	n := 0
	for _, o := range s.Overlays {
		n += len(o.Markers)
	}
	return n
}

// Option adjusts page metadata on a composed Spec.
type Option func(*Spec)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Spec) {
		if title != "" {
			s.Title = title
		}
	}
}

// WithSource records the feed URL the markers came from.
func WithSource(url string) Option {
	return func(s *Spec) { s.Source = url }
}

// WithRunID tags the spec with the load that produced it.
func WithRunID(id string) Option {
	return func(s *Spec) { s.RunID = id }
}

// WithGeneratedAt overrides the composition timestamp.
func WithGeneratedAt(t time.Time) Option {
	return func(s *Spec) { s.GeneratedAt = t.UTC() }
}

// Compose assembles the map: both base layers with the street layer active,
// one active overlay holding markers (possibly none), an expanded layer
// switcher, and the static depth legend.
func Compose(markers []domain.Marker, opts ...Option) Spec {
	overlay := make([]domain.Marker, len(markers))
	copy(overlay, markers)

	street := StreetLayer
	street.Active = true

	s := Spec{
		Container:   ContainerID,
		Title:       DefaultTitle,
		GeneratedAt: clock.Now().UTC(),
		View: View{
			Center: LatLng{Lat: CenterLat, Lng: CenterLng},
			Zoom:   DefaultZoom,
		},
		BaseLayers:   []TileLayer{street, TopoLayer},
		Overlays:     []Overlay{{Name: OverlayName, Active: true, Markers: overlay}},
		LayerControl: LayerControl{Collapsed: false},
		Legend:       NewLegend(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewLegend builds the bottom-right depth legend from domain.LegendLabels.
func NewLegend() Legend {
	labels := domain.LegendLabels
	entries := make([]domain.LegendEntry, len(labels))
	for i, label := range labels {
		entries[i] = domain.NewLegendEntry(label)
	}
	return Legend{
		Position: LegendPosition,
		Title:    LegendTitle,
		Min:      labels[0],
		Max:      labels[len(labels)-1],
		Entries:  entries,
	}
}
