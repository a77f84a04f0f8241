package arbor

// RectPainter fills the node's outer box with Style.Fill. When
// Style.LineWidth is positive the box is outlined with Style.Stroke after the
// children are drawn, so the outline stays on top. Both hooks restore the
// surface style they found.
type RectPainter struct{}

// NewRect creates a solid rectangle node filled with fill.
func NewRect(name string, fill Color) *Node {
	n := NewNode(name, RectPainter{})
	n.Style.Fill = fill
	return n
}

func (RectPainter) DrawSelf(n *Node, s Surface) error {
	s.Save()
	defer s.Restore()
	b := n.Outer.Bounds()
	st := s.Style()
	st.Fill = n.Style.Fill
	s.SetStyle(st)
	s.FillRect(b.X, b.Y, b.Width, b.Height)
	return nil
}

func (RectPainter) DrawOverlay(n *Node, s Surface) error {
	if n.Style.LineWidth <= 0 {
		return nil
	}
	s.Save()
	defer s.Restore()
	b := n.Outer.Bounds()
	st := s.Style()
	st.Stroke = n.Style.Stroke
	st.LineWidth = n.Style.LineWidth
	s.SetStyle(st)
	s.StrokeRect(b.X, b.Y, b.Width, b.Height)
	return nil
}
