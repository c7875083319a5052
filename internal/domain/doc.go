// Package domain models USGS earthquake feed data and its visual encoding.
//
// # Data Source
//
// Events come from the USGS Earthquake Hazards Program GeoJSON summary feeds,
// e.g. https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Each feature carries:
//
//	properties.place   "10km N of Testville"
//	properties.time    epoch milliseconds, UTC
//	properties.mag     magnitude, real number (may be null upstream)
//	geometry.coordinates [longitude, latitude, depth-km]
//
// Depth is kilometers below the surface and can be slightly negative for
// events above the reference ellipsoid.
//
// # Visual Encoding
//
// Marker style is a pure function of the event:
//
//	radius       magnitude * 5
//	fill color   linear RGB interpolation from rgb(15,157,88) at -10 km
//	             to rgb(219,68,55) at 90 km; not clamped outside that range
//	fill opacity depth < 10 → 1 | depth < 90 → 0.8 | otherwise 0.6
//
// Legend rows are labelled with depth ranges ("-10-10", "90+"). A row's
// swatch color is looked up at the mean of the digit runs in its label. Signs
// are not part of a digit run, so "-10-10" resolves to depth 10. See
// [LegendDepth].
//
// # Ingestion Boundary
//
// The feed is untyped upstream. [ParseFeature] rejects features with a missing
// place, time, magnitude, or coordinate and reports a [*FeatureError] instead
// of passing zero values into the encoders.
package domain
