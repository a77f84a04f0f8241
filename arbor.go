package arbor

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to a surface.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA returns the color as a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// WithAlpha returns a copy of c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// ColorFrom converts any color.Color to a straight-alpha Color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for points, offsets and directions.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a closed min/max interval.
type Range struct {
	Min, Max float64
}

// Len returns Max - Min.
func (r Range) Len() float64 { return r.Max - r.Min }

// OuterRect places a node inside its parent's coordinate space.
//
// (X, Y) is where the pivot sits in parent coordinates. CX and CY locate the
// pivot inside the box, normalized to [0, 1] against the unflipped box: (0, 0)
// is the top-left corner, (0.5, 0.5) the center. Width and Height may be
// negative, which flips the box. Rot rotates the box about the pivot, in
// radians.
type OuterRect struct {
	X, Y          float64
	Width, Height float64
	CX, CY        float64
	Rot           float64
}

// Bounds returns the box in its own outer-local coordinates, where the pivot
// is the origin.
func (o OuterRect) Bounds() Rect {
	return Rect{X: -o.Width * o.CX, Y: -o.Height * o.CY, Width: o.Width, Height: o.Height}
}

// Corners returns the four box corners in outer-local coordinates, ordered
// top-left, bottom-left, bottom-right, top-right.
func (o OuterRect) Corners() [4]Vec2 {
	x0, y0 := -o.Width*o.CX, -o.Height*o.CY
	x1, y1 := o.Width*(1-o.CX), o.Height*(1-o.CY)
	return [4]Vec2{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}}
}

// InnerRect remaps the coordinate system a node's children are laid out in.
//
// (X, Y) offsets the inner origin from the outer pivot. Width and Height give
// the inner extent of the outer box: an inner width of 100 on a 400 pixel box
// makes one inner unit four outer units wide. Zero means "same as outer",
// i.e. unit scale on that axis. Rot rotates the inner frame about its origin.
type InnerRect struct {
	X, Y          float64
	Width, Height float64
	Rot           float64
}

// Style holds the fill, stroke and text attributes a painter draws with.
// Props carries free-form attributes (font, text alignment, ...) that only
// specific painters interpret.
type Style struct {
	Fill      Color
	Stroke    Color
	LineWidth float64
	Props     map[string]string
}

// Prop returns the value of a free-form property and whether it was set.
func (s Style) Prop(key string) (string, bool) {
	v, ok := s.Props[key]
	return v, ok
}

// SetProp sets a free-form property, allocating the map on first use.
func (s *Style) SetProp(key, value string) {
	if s.Props == nil {
		s.Props = make(map[string]string)
	}
	s.Props[key] = value
}
