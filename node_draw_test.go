package arbor

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tracePainter appends "<name>.self" and "<name>.overlay" to a shared log and
// remembers the surface transform each hook was entered with.
type tracePainter struct {
	log       *[]string
	selfT     Affine
	overlayT  Affine
	selfErr   error
	overlayFn func(s Surface)
}

func (p *tracePainter) DrawSelf(n *Node, s Surface) error {
	*p.log = append(*p.log, n.Name+".self")
	p.selfT = s.Transform()
	// Leave the surface somewhere unrelated to prove the traversal resets it.
	s.SetTransform(Scaling(9, 9))
	return p.selfErr
}

func (p *tracePainter) DrawOverlay(n *Node, s Surface) error {
	*p.log = append(*p.log, n.Name+".overlay")
	p.overlayT = s.Transform()
	if p.overlayFn != nil {
		p.overlayFn(s)
	}
	return nil
}

func traced(name string, log *[]string) (*Node, *tracePainter) {
	p := &tracePainter{log: log}
	return NewNode(name, p), p
}

func TestDrawOrderOverlayAfterChildren(t *testing.T) {
	var log []string
	root, _ := traced("root", &log)
	a, _ := traced("a", &log)
	b, _ := traced("b", &log)
	a1, _ := traced("a1", &log)
	root.Add(a, b)
	a.Add(a1)

	if err := root.Draw(newRecordingSurface(), nil); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"root.self",
		"a.self", "a1.self", "a1.overlay", "a.overlay",
		"b.self", "b.overlay",
		"root.overlay",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("draw order (-want +got):\n%s", diff)
	}
}

func TestDrawHooksEnteredInOuterSpace(t *testing.T) {
	var log []string
	root, rp := traced("root", &log)
	root.Outer = OuterRect{X: 100, Y: 50, Width: 40, Height: 20, CX: 0.5, CY: 0.5, Rot: 0.3}
	root.Inner = InnerRect{X: 5, Y: -5, Width: 20, Height: 10}
	child, cp := traced("child", &log)
	child.Outer = OuterRect{X: 3, Y: 4, Width: 2, Height: 2}
	root.Add(child)

	s := newRecordingSurface()
	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}

	outer, _ := root.OuterMatrix()
	inner, _ := root.InnerMatrix()
	assertMatrix(t, "root self", rp.selfT, outer)
	assertMatrix(t, "root overlay", rp.overlayT, outer)
	assertMatrix(t, "child self", cp.selfT, inner.Multiply(OuterTransform(child.Outer)))
	assertMatrix(t, "child overlay", cp.overlayT, cp.selfT)
}

func TestDrawRestoresSurfaceTransform(t *testing.T) {
	var log []string
	root, _ := traced("root", &log)
	root.Outer = OuterRect{X: 10, Y: 10, Width: 10, Height: 10, Rot: 1}
	child, _ := traced("child", &log)
	root.Add(child)

	s := newRecordingSurface()
	start := Translation(5, 7)
	s.SetTransform(start)
	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	assertMatrix(t, "after draw", s.Transform(), start)
}

func TestDrawErrorStopsTraversalAndRestores(t *testing.T) {
	sentinel := errors.New("boom")
	var log []string
	root, _ := traced("root", &log)
	bad, bp := traced("bad", &log)
	bp.selfErr = sentinel
	after, _ := traced("after", &log)
	root.Add(bad, after)

	s := newRecordingSurface()
	start := Translation(1, 1)
	s.SetTransform(start)
	err := root.Draw(s, nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapping %v", err, sentinel)
	}
	if want := `draw "bad": boom`; err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
	if diff := cmp.Diff([]string{"root.self", "bad.self"}, log); diff != "" {
		t.Errorf("hooks after failure (-want +got):\n%s", diff)
	}
	assertMatrix(t, "after failed draw", s.Transform(), start)
}

func TestDrawChildTopLeftInDefaultInnerSpace(t *testing.T) {
	root := NewContainer("root")
	root.Outer = OuterRect{X: 0, Y: 0, Width: 200, Height: 100, CX: 0.5, CY: 0.5}
	child := NewRect("child", ColorWhite)
	child.Outer = OuterRect{X: 50, Y: 0, Width: 20, Height: 20, CX: 0.5, CY: 0.5}
	root.Add(child)

	s := newRecordingSurface()
	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	om, _ := child.OuterMatrix()
	// The default inner origin is the root's pivot.
	assertVec(t, "top-left", om.Apply(child.Outer.Corners()[0]), Vec2{40, -10})

	fills := s.opsNamed("fillRect")
	if len(fills) != 1 {
		t.Fatalf("fillRect calls = %d, want 1", len(fills))
	}
	if diff := cmp.Diff([]float64{-10, -10, 20, 20}, fills[0].Args, approx); diff != "" {
		t.Errorf("fillRect args (-want +got):\n%s", diff)
	}
	assertMatrix(t, "fillRect transform", fills[0].T, om)
}

func TestDrawChildTopLeftWithCornerInnerOrigin(t *testing.T) {
	root := NewContainer("root")
	root.Outer = OuterRect{X: 0, Y: 0, Width: 200, Height: 100, CX: 0.5, CY: 0.5}
	// Move the inner origin from the pivot to the box's top-left corner.
	b := root.Outer.Bounds()
	root.Inner = InnerRect{X: b.X, Y: b.Y}
	child := NewRect("child", ColorWhite)
	child.Outer = OuterRect{X: 50, Y: 0, Width: 20, Height: 20, CX: 0.5, CY: 0.5}
	root.Add(child)

	if err := root.Draw(newRecordingSurface(), nil); err != nil {
		t.Fatal(err)
	}
	om, _ := child.OuterMatrix()
	assertVec(t, "top-left", om.Apply(child.Outer.Corners()[0]), Vec2{-60, -60})
}

func TestDrawQuarterTurnMapsXToY(t *testing.T) {
	n := NewContainer("n")
	n.Outer = OuterRect{X: 10, Y: 20, Width: 4, Height: 4, CX: 0.5, CY: 0.5, Rot: math.Pi / 2}
	if err := n.Draw(newRecordingSurface(), nil); err != nil {
		t.Fatal(err)
	}
	om, _ := n.OuterMatrix()
	assertVec(t, "(1,0)", om.ApplyVector(Vec2{1, 0}), Vec2{0, 1})
	assertVec(t, "pivot", om.Apply(Vec2{}), Vec2{10, 20})
}

func TestDrawTwiceIsIdempotent(t *testing.T) {
	root := NewContainer("root")
	root.Outer = OuterRect{X: 3, Y: 4, Width: 50, Height: 30, CX: 0.2, CY: 0.7, Rot: 0.4}
	root.Inner = InnerRect{X: 1, Y: 2, Width: 5, Height: 10, Rot: -0.2}
	s := newRecordingSurface()

	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	o1, _ := root.OuterMatrix()
	i1, _ := root.InnerMatrix()
	if root.IsDirty() {
		t.Fatal("dirty should be cleared after Draw")
	}
	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	o2, _ := root.OuterMatrix()
	i2, _ := root.InnerMatrix()
	if o1 != o2 || i1 != i2 {
		t.Errorf("cached transforms changed between identical draws")
	}
}

func TestDrawParentMoveRefreshesCleanChild(t *testing.T) {
	root := NewContainer("root")
	root.Outer = OuterRect{Width: 100, Height: 100}
	child := NewContainer("child")
	child.Outer = OuterRect{X: 10, Y: 10, Width: 5, Height: 5}
	root.Add(child)
	s := newRecordingSurface()

	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	root.SetPosition(30, 0)
	if child.IsDirty() {
		t.Fatal("moving the parent should not touch the child's dirty flag")
	}
	if err := root.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	om, _ := child.OuterMatrix()
	assertVec(t, "child origin", om.Apply(Vec2{}), Vec2{40, 10})
}

func TestDrawSurfaceBaseChangeRefreshesCache(t *testing.T) {
	n := NewContainer("n")
	n.Outer = OuterRect{X: 1, Y: 2, Width: 3, Height: 4}
	s := newRecordingSurface()
	if err := n.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	s.SetTransform(Scaling(2, 2))
	if err := n.Draw(s, nil); err != nil {
		t.Fatal(err)
	}
	om, _ := n.OuterMatrix()
	assertVec(t, "origin", om.Apply(Vec2{}), Vec2{2, 4})
}

func TestDrawWithExplicitParentRelinks(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	c := NewContainer("c")
	p1.Add(c)

	if err := c.Draw(newRecordingSurface(), p2); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != p2 {
		t.Error("Draw with a parent should replace the parent link")
	}
	if p1.NumChildren() != 1 || p2.NumChildren() != 0 {
		t.Error("Draw with a parent should not change child lists")
	}
}

func TestPointQueriesBeforeDraw(t *testing.T) {
	n := NewContainer("n")
	if _, err := n.AbsPointInOuterSpace(Vec2{}); !errors.Is(err, ErrTransformNotCached) {
		t.Errorf("outer err = %v, want ErrTransformNotCached", err)
	}
	if _, err := n.AbsPointInInnerSpace(Vec2{}); !errors.Is(err, ErrTransformNotCached) {
		t.Errorf("inner err = %v, want ErrTransformNotCached", err)
	}
}

func TestPointQueriesAfterDraw(t *testing.T) {
	n := NewContainer("n")
	n.Outer = OuterRect{X: 100, Y: 100, Width: 200, Height: 200, CX: 0.5, CY: 0.5}
	n.Inner = InnerRect{Width: 100, Height: 100}
	if err := n.Draw(newRecordingSurface(), nil); err != nil {
		t.Fatal(err)
	}
	out, err := n.AbsPointInOuterSpace(Vec2{120, 80})
	if err != nil {
		t.Fatal(err)
	}
	assertVec(t, "outer", out, Vec2{20, -20})

	in, err := n.AbsPointInInnerSpace(Vec2{120, 80})
	if err != nil {
		t.Fatal(err)
	}
	assertVec(t, "inner", in, Vec2{10, -10})
}

func TestGoAbsResetsTransform(t *testing.T) {
	n := NewContainer("n")
	s := newRecordingSurface()
	s.SetTransform(Translation(4, 4))
	n.GoAbs(s)
	if !s.Transform().IsIdentity() {
		t.Errorf("GoAbs should reset to identity, got %v", s.Transform())
	}
}

func BenchmarkDrawTree(b *testing.B) {
	root := NewContainer("root")
	root.Outer = OuterRect{Width: 800, Height: 600}
	for i := range 10 {
		branch := NewContainer("branch")
		branch.Outer = OuterRect{X: float64(i * 50), Width: 40, Height: 40, Rot: 0.1}
		root.Add(branch)
		for range 10 {
			branch.Add(NewRect("leaf", ColorWhite))
		}
	}
	s := newRecordingSurface()
	for b.Loop() {
		root.MarkDirty()
		s.ops = s.ops[:0]
		_ = root.Draw(s, nil)
	}
}
