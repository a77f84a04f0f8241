package arbor

import "github.com/hajimehoshi/ebiten/v2"

// PointerToSurface converts a pointer position in display coordinates into
// surface coordinates. display is where the surface is shown (for example
// the window region it occupies) and backing is the surface's own pixel
// size; the offset from display's origin is scaled by the backing-to-display
// ratio on each axis. A display with zero extent on an axis leaves that axis
// unscaled.
func PointerToSurface(p Vec2, display, backing Rect) Vec2 {
	sx, sy := 1.0, 1.0
	if display.Width != 0 {
		sx = backing.Width / display.Width
	}
	if display.Height != 0 {
		sy = backing.Height / display.Height
	}
	return Vec2{
		X: backing.X + sx*(p.X-display.X),
		Y: backing.Y + sy*(p.Y-display.Y),
	}
}

// Pointer returns the cursor position in surface coordinates. ebiten reports
// the cursor in the layout's logical pixels, which are the surface's.
func (s *Scene) Pointer() Vec2 {
	x, y := ebiten.CursorPosition()
	return Vec2{X: float64(x), Y: float64(y)}
}

// PointerInOuterSpace maps the cursor into n's outer-box space, using the
// transforms cached by the last draw.
func (s *Scene) PointerInOuterSpace(n *Node) (Vec2, error) {
	return n.AbsPointInOuterSpace(s.Pointer())
}

// PointerInInnerSpace maps the cursor into n's inner space, using the
// transforms cached by the last draw.
func (s *Scene) PointerInInnerSpace(n *Node) (Vec2, error) {
	return n.AbsPointInInnerSpace(s.Pointer())
}
