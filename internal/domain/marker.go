package domain

import "time"

// PopupTimeLayout matches the browser's default Date string,
// e.g. "Tue Nov 14 2023 22:13:20 GMT+0000 (UTC)".
const PopupTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// markerOutline disables the circle stroke.
const markerOutline = "none"

// FormatEventTime renders an event time for display in loc. A nil loc means UTC.
func FormatEventTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(PopupTimeLayout)
}

// NewMarker derives the styled marker for an event.
func NewMarker(e Event, loc *time.Location) Marker {
	return Marker{
		EventID:     e.ID,
		Lat:         e.Latitude,
		Lon:         e.Longitude,
		Radius:      MagnitudeRadius(e.Magnitude),
		FillColor:   DepthColor(e.Depth),
		FillOpacity: DepthOpacity(e.Depth),
		Color:       markerOutline,
		Popup: Popup{
			Title: e.Place,
			Time:  FormatEventTime(e.Time, loc),
		},
	}
}

// RenderMarkers builds one marker per event, preserving order.
func RenderMarkers(events []Event, loc *time.Location) []Marker {
	markers := make([]Marker, len(events))
	for i := range events {
		markers[i] = NewMarker(events[i], loc)
	}
	return markers
}
