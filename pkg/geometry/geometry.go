// Package geometry provides the angle-to-pixel mapping used to place
// viewports on an equirectangular panorama.
//
// An equirectangular panorama covers 360 degrees horizontally and 180
// degrees vertically, so a W x H image maps angles to pixels linearly:
// one degree of yaw spans W/360 columns and one degree of pitch spans
// H/180 rows.
package geometry

// Degree spans of an equirectangular projection.
const (
	FullCircleDeg = 360
	HalfCircleDeg = 180
)

// NormalizeAngle wraps an angle in degrees into [0, 360).
func NormalizeAngle(deg int) int {
	deg %= FullCircleDeg
	if deg < 0 {
		deg += FullCircleDeg
	}
	return deg
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Mapping converts between viewing angles and pixel coordinates for a
// panorama of a given size.
type Mapping struct {
	Width  int
	Height int
}

// NewMapping creates a Mapping for a W x H panorama.
func NewMapping(width, height int) Mapping {
	return Mapping{Width: width, Height: height}
}

// AnglePerColumn returns how many columns one degree of yaw spans.
func (m Mapping) AnglePerColumn() float64 {
	return float64(m.Width) / float64(FullCircleDeg)
}

// AnglePerRow returns how many rows one degree of pitch spans.
func (m Mapping) AnglePerRow() float64 {
	return float64(m.Height) / float64(HalfCircleDeg)
}

// ColumnOf maps a normalized yaw angle to a column index. The result
// is truncated, matching the column math of the crop window so that
// forward and inverse transforms agree on boundaries.
func (m Mapping) ColumnOf(deg int) int {
	return int(float64(deg) * m.AnglePerColumn())
}

// RowOf maps a pitch angle to a row index, truncated.
func (m Mapping) RowOf(deg int) int {
	return int(float64(deg) * m.AnglePerRow())
}

// SpanColumns returns the column width of a horizontal angular span.
func (m Mapping) SpanColumns(deg int) int {
	return int(float64(deg) * m.AnglePerColumn())
}

// SpanRows returns the row height of a vertical angular span.
func (m Mapping) SpanRows(deg int) int {
	return int(float64(deg) * m.AnglePerRow())
}
