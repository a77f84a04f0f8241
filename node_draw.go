package arbor

import (
	"fmt"
	"weak"
)

// Draw renders n and its subtree onto s, starting from the surface's active
// transform. When parent is non-nil it replaces n's parent link, which lets a
// node be drawn ad hoc under a different parent than the one it was added to.
//
// The traversal order is: own content (DrawSelf), the debug grid if enabled,
// each child in insertion order inside n's inner space, then the overlay
// (DrawOverlay). The surface transform is restored before Draw returns,
// including when a hook or child fails. Errors stop the traversal and are
// returned wrapped with the node name.
//
// Transforms are recomputed when n is dirty or when the transform active on
// entry differs from the one the cache was built under, so moving a parent
// refreshes its whole subtree on the next frame.
func (n *Node) Draw(s Surface, parent *Node) error {
	original := s.Transform()
	defer s.SetTransform(original)

	if parent != nil {
		n.parent = weak.Make(parent)
	}
	if n.dirty || !n.cached || n.base != original {
		n.updateTransforms(original)
	}

	if n.Painter != nil {
		n.GoOut(s)
		if err := n.Painter.DrawSelf(n, s); err != nil {
			return fmt.Errorf("draw %q: %w", n.Name, err)
		}
	}

	if n.Debug {
		if err := DrawDebugGrid(n, s, n.DebugConfig); err != nil {
			return fmt.Errorf("debug grid %q: %w", n.Name, err)
		}
	}

	for _, child := range n.children {
		n.GoIn(s)
		if err := child.Draw(s, n); err != nil {
			return err
		}
	}

	if n.Painter != nil {
		n.GoOut(s)
		if err := n.Painter.DrawOverlay(n, s); err != nil {
			return fmt.Errorf("overlay %q: %w", n.Name, err)
		}
	}
	return nil
}

// updateTransforms rebuilds the cached outer and inner transforms against
// base and clears the dirty flag.
func (n *Node) updateTransforms(base Affine) {
	n.outerTransform = base.Multiply(OuterTransform(n.Outer))
	n.innerTransform = base.Multiply(InnerTransform(n.Inner, n.Outer))
	n.base = base
	n.cached = true
	n.dirty = false
}

// --- Frame switching ---

// GoOut sets the surface transform to n's outer-box space.
func (n *Node) GoOut(s Surface) {
	s.SetTransform(n.outerTransform)
}

// GoIn sets the surface transform to n's inner space, the space its
// children are placed in.
func (n *Node) GoIn(s Surface) {
	s.SetTransform(n.innerTransform)
}

// GoAbs resets the surface transform to absolute surface coordinates.
func (n *Node) GoAbs(s Surface) {
	s.ResetTransform()
}

// --- Cached transforms and point mapping ---

// OuterMatrix returns the cached outer transform (outer-box space to surface
// space) and whether it has been computed.
func (n *Node) OuterMatrix() (Affine, bool) {
	return n.outerTransform, n.cached
}

// InnerMatrix returns the cached inner transform (inner space to surface
// space) and whether it has been computed.
func (n *Node) InnerMatrix() (Affine, bool) {
	return n.innerTransform, n.cached
}

// AbsPointInOuterSpace maps a point in absolute surface coordinates into n's
// outer-box space. Returns ErrTransformNotCached before the first Draw.
func (n *Node) AbsPointInOuterSpace(p Vec2) (Vec2, error) {
	if !n.cached {
		return Vec2{}, fmt.Errorf("outer point %q: %w", n.Name, ErrTransformNotCached)
	}
	return n.outerTransform.Invert().Apply(p), nil
}

// AbsPointInInnerSpace maps a point in absolute surface coordinates into n's
// inner space. Returns ErrTransformNotCached before the first Draw.
func (n *Node) AbsPointInInnerSpace(p Vec2) (Vec2, error) {
	if !n.cached {
		return Vec2{}, fmt.Errorf("inner point %q: %w", n.Name, ErrTransformNotCached)
	}
	return n.innerTransform.Invert().Apply(p), nil
}
