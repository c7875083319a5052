package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Depth range covered by the color ramp, in kilometers.
const (
	MinDepth = -10.0
	MaxDepth = 90.0
)

// Opacity steps by depth.
const (
	shallowDepthLimit = 10.0
	deepDepthLimit    = 90.0

	shallowOpacity      = 1.0
	intermediateOpacity = 0.8
	deepOpacity         = 0.6
)

// radiusScale converts magnitude to marker radius in pixels.
const radiusScale = 5.0

var (
	// MinColor is the swatch at MinDepth (green).
	MinColor = RGB{R: 15, G: 157, B: 88}
	// MaxColor is the swatch at MaxDepth (red).
	MaxColor = RGB{R: 219, G: 68, B: 55}

	digitRunRe = regexp.MustCompile(`\d+`)
)

// RGB is a color with integer channels. Channels are not clamped, so
// extrapolated depths may carry values outside 0..255.
type RGB struct {
	R, G, B int
}

// String renders the color as a CSS rgb() value, e.g. "rgb(15,157,88)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// DepthRGB interpolates each channel linearly between MinColor and MaxColor.
// Depths outside [MinDepth, MaxDepth] extrapolate.
func DepthRGB(depth float64) RGB {
	return RGB{
		R: interpolateChannel(MinColor.R, MaxColor.R, depth),
		G: interpolateChannel(MinColor.G, MaxColor.G, depth),
		B: interpolateChannel(MinColor.B, MaxColor.B, depth),
	}
}

// DepthColor returns the CSS fill color for a depth.
func DepthColor(depth float64) string {
	return DepthRGB(depth).String()
}

func interpolateChannel(lo, hi int, depth float64) int {
	v := float64(hi-lo)*(depth-MinDepth)/(MaxDepth-MinDepth) + float64(lo)
	return int(roundHalfUp(v))
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// MagnitudeRadius scales magnitude to a marker radius. Negative or NaN input
// passes through.
func MagnitudeRadius(magnitude float64) float64 {
	return magnitude * radiusScale
}

// DepthOpacity steps fill opacity down as events get deeper.
func DepthOpacity(depth float64) float64 {
	switch {
	case depth < shallowDepthLimit:
		return shallowOpacity
	case depth < deepDepthLimit:
		return intermediateOpacity
	default:
		return deepOpacity
	}
}

// LegendDepth derives a representative depth from a range label. Two digit
// runs yield their mean, one run yields its value, anything else yields 0.
// Minus signs are not captured: "-10-10" is read as 10 and 10.
func LegendDepth(label string) float64 {
	runs := digitRunRe.FindAllString(label, -1)
	switch len(runs) {
	case 2:
		return (parseRun(runs[0]) + parseRun(runs[1])) / 2
	case 1:
		return parseRun(runs[0])
	default:
		return 0
	}
}

func parseRun(s string) float64 {
	// s is all ASCII digits, so the only possible failure is overflow to Inf.
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// LegendLabels are the fixed depth ranges shown in the legend, shallow first.
var LegendLabels = []string{"-10-10", "10-30", "30-50", "50-70", "70-90", "90+"}

// NewLegendEntry resolves a label to its representative depth and swatch.
func NewLegendEntry(label string) LegendEntry {
	depth := LegendDepth(label)
	return LegendEntry{
		Label: label,
		Depth: depth,
		Color: DepthColor(depth),
	}
}
