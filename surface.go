package arbor

import "image"

// Surface is the rendering target a node tree draws onto. It behaves like an
// HTML canvas 2D context: it carries an active affine transform and a current
// style, path points are mapped through the transform active when they are
// added, and stroke widths are scaled by the transform active at stroke time.
//
// Both EbitenSurface and test recorders implement it.
type Surface interface {
	// Transform returns the active transform.
	Transform() Affine
	// SetTransform replaces the active transform.
	SetTransform(m Affine)
	// ResetTransform sets the active transform to the identity.
	ResetTransform()

	// Save pushes the active transform and style; Restore pops them.
	Save()
	Restore()

	// Style returns the current style; SetStyle replaces it.
	Style() Style
	SetStyle(st Style)

	// Path construction.
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc centered at (x, y) from angle a0 to a1 (radians,
	// clockwise on screen).
	Arc(x, y, radius, a0, a1 float64)
	ClosePath()

	// Stroke and Fill paint the current path with the current style.
	Stroke()
	Fill()

	// FillRect and StrokeRect paint a rectangle in the active frame without
	// touching the current path.
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)

	// DrawImage blits img scaled into the rectangle (x, y, w, h) of the
	// active frame.
	DrawImage(img image.Image, x, y, w, h float64)
}
