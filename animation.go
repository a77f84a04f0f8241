package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of a node's geometry or style
// together. Create one with the Tween* constructors and call Update(dt) each
// frame; the group writes the values and marks the node dirty.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, pairs ...tweenPair) *TweenGroup {
	g := &TweenGroup{target: node, count: len(pairs)}
	for i, p := range pairs {
		g.tweens[i] = gween.New(float32(*p.field), float32(p.to), duration, fn)
		g.fields[i] = p.field
	}
	return g
}

type tweenPair struct {
	field *float64
	to    float64
}

// Update advances all tweens by dt seconds, writes the values to the target
// fields and marks the node dirty.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Reset rewinds every tween to its start value and clears Done.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates node.Outer.X and node.Outer.Y.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		tweenPair{&node.Outer.X, toX},
		tweenPair{&node.Outer.Y, toY},
	)
}

// TweenSize animates node.Outer.Width and node.Outer.Height.
func TweenSize(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		tweenPair{&node.Outer.Width, toW},
		tweenPair{&node.Outer.Height, toH},
	)
}

// TweenRotation animates node.Outer.Rot (radians).
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, tweenPair{&node.Outer.Rot, to})
}

// TweenInnerRotation animates node.Inner.Rot (radians), spinning the
// children's frame without moving the node's own box.
func TweenInnerRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, tweenPair{&node.Inner.Rot, to})
}

// TweenInnerExtent animates node.Inner.Width and node.Inner.Height, which
// zooms the children's frame. Both start values must be non-zero for the
// zoom to be continuous.
func TweenInnerExtent(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		tweenPair{&node.Inner.Width, toW},
		tweenPair{&node.Inner.Height, toH},
	)
}

// TweenFill animates all four components of node.Style.Fill.
func TweenFill(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := &node.Style.Fill
	return newTweenGroup(node, duration, fn,
		tweenPair{&c.R, to.R},
		tweenPair{&c.G, to.G},
		tweenPair{&c.B, to.B},
		tweenPair{&c.A, to.A},
	)
}
