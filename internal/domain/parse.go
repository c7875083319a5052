package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrMalformedFeature is matched by every *FeatureError.
var ErrMalformedFeature = errors.New("malformed feature")

// FeatureError reports a feature rejected at the ingestion boundary.
type FeatureError struct {
	Index  int    // position in the features array
	ID     string // feed feature id, may be empty
	Field  string // dotted path, e.g. "properties.mag"
	Reason string
}

func (e *FeatureError) Error() string {
	id := e.ID
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("feature %d (%s): %s: %s", e.Index, id, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedFeature) true for any FeatureError.
func (e *FeatureError) Is(target error) bool {
	return target == ErrMalformedFeature
}

// DecodeFeed reads a GeoJSON feed document.
func DecodeFeed(r io.Reader) (Feed, error) {
	var feed Feed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return Feed{}, fmt.Errorf("decode feed: %w", err)
	}
	if feed.Type != "" && feed.Type != "FeatureCollection" {
		return Feed{}, fmt.Errorf("decode feed: unexpected type %q", feed.Type)
	}
	return feed, nil
}

// ParseFeature validates a feed feature and converts it into an Event.
// The first missing required field is reported as a *FeatureError.
func ParseFeature(index int, f Feature) (Event, error) {
	reject := func(field, reason string) (Event, error) {
		return Event{}, &FeatureError{Index: index, ID: f.ID, Field: field, Reason: reason}
	}

	p := f.Properties
	if p.Place == nil {
		return reject("properties.place", "missing")
	}
	if p.Time == nil {
		return reject("properties.time", "missing")
	}
	if p.Mag == nil {
		return reject("properties.mag", "missing")
	}

	coords := f.Geometry.Coordinates
	if len(coords) < 3 {
		return reject("geometry.coordinates", fmt.Sprintf("want [lon, lat, depth], got %d values", len(coords)))
	}
	for i, name := range []string{"longitude", "latitude", "depth"} {
		if coords[i] == nil {
			return reject(fmt.Sprintf("geometry.coordinates[%d]", i), name+" is null")
		}
	}

	return Event{
		ID:        f.ID,
		Place:     strings.TrimSpace(*p.Place),
		Time:      time.UnixMilli(*p.Time).UTC(),
		Magnitude: *p.Mag,
		Longitude: *coords[0],
		Latitude:  *coords[1],
		Depth:     *coords[2],
		URL:       p.URL,
	}, nil
}

// ParseFeed converts every feature it can and collects the rejects. Event
// order follows feed order.
func ParseFeed(feed Feed) ([]Event, []error) {
	events := make([]Event, 0, len(feed.Features))
	var rejects []error
	for i, f := range feed.Features {
		e, err := ParseFeature(i, f)
		if err != nil {
			rejects = append(rejects, err)
			continue
		}
		events = append(events, e)
	}
	return events, rejects
}
