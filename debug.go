package arbor

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// maxGridLines caps the lines drawn per axis so a tiny inner scale cannot
// turn one debug overlay into millions of path segments.
const maxGridLines = 2048

// flashRand drives the flashing highlight. Replaced in tests.
var flashRand = rand.Float64

// DrawDebugGrid draws the debug overlay for n: a highlight over the area the
// outer box covers in inner space, gridlines aligned so that one passes
// through cfg.Align, and arrows along the inner X and Y axes at the inner
// origin. Nil cfg uses DefaultDebugGridConfig.
//
// Gridlines are laid out in inner space but stroked in absolute space, so
// their width does not depend on the node's scale. The surface transform and
// style are restored on return. Returns ErrTransformNotCached if n has never
// been drawn.
func DrawDebugGrid(n *Node, s Surface, cfg *DebugGridConfig) error {
	if !n.cached {
		return fmt.Errorf("debug grid %q: %w", n.Name, ErrTransformNotCached)
	}
	if cfg == nil {
		cfg = DefaultDebugGridConfig()
	}
	s.Save()
	defer s.Restore()

	extX, extY := gridExtent(n.Outer, n.outerTransform, n.innerTransform)
	ix, iy := extX, extY
	if cfg.IntervalX != nil {
		ix = normalizeRange(*cfg.IntervalX)
	}
	if cfg.IntervalY != nil {
		iy = normalizeRange(*cfg.IntervalY)
	}
	ix = alignRange(ix, cfg.Align.X, cfg.Spacing.X)
	iy = alignRange(iy, cfg.Align.Y, cfg.Spacing.Y)

	n.GoIn(s)
	st := cfg.GridStyle
	if cfg.Flashing && flashRand() > 0.5 {
		st.Fill = cfg.FlashFill
	}
	s.SetStyle(st)
	s.FillRect(extX.Min, extY.Min, extX.Len(), extY.Len())

	s.BeginPath()
	for _, x := range GridLines(ix, cfg.Spacing.X) {
		s.MoveTo(x, iy.Min)
		s.LineTo(x, iy.Max)
	}
	for _, y := range GridLines(iy, cfg.Spacing.Y) {
		s.MoveTo(ix.Min, y)
		s.LineTo(ix.Max, y)
	}
	n.GoAbs(s)
	s.Stroke()

	drawAxes(s, n.innerTransform, cfg.Origin)
	return nil
}

// DrawDebugOrigin draws only the axis arrows and origin marker of n's outer
// frame, i.e. at its pivot. Nil cfg uses the default origin configuration.
func DrawDebugOrigin(n *Node, s Surface, cfg *OriginConfig) error {
	if !n.cached {
		return fmt.Errorf("debug origin %q: %w", n.Name, ErrTransformNotCached)
	}
	if cfg == nil {
		def := DefaultDebugGridConfig().Origin
		cfg = &def
	}
	s.Save()
	defer s.Restore()
	drawAxes(s, n.outerTransform, *cfg)
	return nil
}

// GridExtent returns the bounding intervals, in n's inner coordinates, of
// the four corners of n's outer box. Returns ErrTransformNotCached if n has
// never been drawn.
func GridExtent(n *Node) (x, y Range, err error) {
	if !n.cached {
		return Range{}, Range{}, fmt.Errorf("grid extent %q: %w", n.Name, ErrTransformNotCached)
	}
	x, y = gridExtent(n.Outer, n.outerTransform, n.innerTransform)
	return x, y, nil
}

func gridExtent(o OuterRect, outer, inner Affine) (x, y Range) {
	outToIn := inner.Invert().Multiply(outer)
	x = Range{Min: math.Inf(1), Max: math.Inf(-1)}
	y = x
	for _, c := range o.Corners() {
		p := outToIn.Apply(c)
		x.Min, x.Max = min(x.Min, p.X), max(x.Max, p.X)
		y.Min, y.Max = min(y.Min, p.Y), max(y.Max, p.Y)
	}
	return x, y
}

// AlignOffset returns how far below lo the first gridline must start so that
// a line passes through align: ((lo - align) mod spacing + spacing) mod
// spacing, using a true modulo so the result is never negative.
func AlignOffset(lo, align, spacing float64) float64 {
	return math.Mod(math.Mod(lo-align, spacing)+spacing, spacing)
}

// alignRange widens r by the alignment offset on both ends.
func alignRange(r Range, align, spacing float64) Range {
	off := AlignOffset(r.Min, align, spacing)
	if math.IsNaN(off) {
		return r
	}
	return Range{Min: r.Min - off, Max: r.Max + off}
}

// GridLines returns the coordinates r.Min, r.Min+spacing, ... up to r.Max.
// Non-positive or non-finite spacing yields no lines.
func GridLines(r Range, spacing float64) []float64 {
	if !(spacing > 0) || math.IsInf(spacing, 0) || math.IsNaN(r.Min) || math.IsNaN(r.Max) ||
		math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) || r.Max < r.Min {
		return nil
	}
	// Clamp before converting: a huge ratio overflows int.
	count := int(min(math.Floor((r.Max-r.Min)/spacing+1e-9)+1, maxGridLines))
	lines := make([]float64, count)
	for i := range lines {
		lines[i] = r.Min + float64(i)*spacing
	}
	return lines
}

func normalizeRange(r Range) Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// drawAxes strokes fixed-length arrows along the X and Y axes of frame,
// starting from its origin mapped to absolute coordinates, and fills a dot
// at the origin.
func drawAxes(s Surface, frame Affine, cfg OriginConfig) {
	s.ResetTransform()
	origin := frame.Apply(Vec2{})
	for _, axis := range [2]struct {
		dir   Vec2
		style Style
	}{
		{Vec2{1, 0}, cfg.AxisXStyle},
		{Vec2{0, 1}, cfg.AxisYStyle},
	} {
		u := frame.ApplyVector(axis.dir)
		l := u.Len()
		if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			continue
		}
		tip := origin.Add(u.Scale(cfg.ArrowLength / l))
		s.SetStyle(axis.style)
		s.BeginPath()
		s.MoveTo(origin.X, origin.Y)
		s.LineTo(tip.X, tip.Y)
		s.Stroke()
	}
	if cfg.Radius > 0 {
		s.SetStyle(cfg.AxisXStyle)
		s.BeginPath()
		s.Arc(origin.X, origin.Y, cfg.Radius, 0, 2*math.Pi)
		s.ClosePath()
		s.Fill()
	}
}
