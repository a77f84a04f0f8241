package arbor

import "weak"

// Painter supplies the content of a node. DrawSelf runs before the node's
// children and DrawOverlay after them. Both are entered with the node's
// outer-box space active on the surface and may change the transform freely;
// the traversal restores it.
type Painter interface {
	DrawSelf(n *Node, s Surface) error
	DrawOverlay(n *Node, s Surface) error
}

// PainterFuncs adapts plain functions to a Painter. Nil fields are no-ops.
type PainterFuncs struct {
	Self    func(n *Node, s Surface) error
	Overlay func(n *Node, s Surface) error
}

func (p PainterFuncs) DrawSelf(n *Node, s Surface) error {
	if p.Self == nil {
		return nil
	}
	return p.Self(n, s)
}

func (p PainterFuncs) DrawOverlay(n *Node, s Surface) error {
	if p.Overlay == nil {
		return nil
	}
	return p.Overlay(n, s)
}

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic, arbor is single-threaded).
// IDs are diagnostic only and never reused.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// resetNodeIDCounter restarts ID assignment. Tests only.
func resetNodeIDCounter() {
	nodeIDCounter = 0
}

// --- Node ---

// Node is the drawable scene graph element. Outer places the node in its
// parent's space; Inner defines the space its children are drawn in.
//
// Outer and Inner may be assigned directly between frames, followed by
// MarkDirty, or through the Set* helpers which mark the node dirty.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Geometry
	Outer OuterRect
	Inner InnerRect

	Style Style

	// Debug enables the grid overlay for this node. DebugConfig overrides
	// the default grid configuration when non-nil.
	Debug       bool
	DebugConfig *DebugGridConfig

	// Painter draws the node's own content. Nil draws nothing.
	Painter Painter

	UserData any

	// Hierarchy. The parent link does not keep the parent alive.
	parent   weak.Pointer[Node]
	children []*Node

	// Transform cache, valid when cached is true.
	outerTransform Affine
	innerTransform Affine
	base           Affine
	cached         bool
	dirty          bool
}

// nodeDefaults is the single construction entry point.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.dirty = true
}

// NewNode creates a node drawn by p.
func NewNode(name string, p Painter) *Node {
	n := &Node{Name: name, Painter: p}
	nodeDefaults(n)
	return n
}

// NewContainer creates a node with no content of its own.
func NewContainer(name string) *Node {
	return NewNode(name, nil)
}

// --- Geometry setters ---

// SetOuter replaces the outer placement and marks the node dirty.
func (n *Node) SetOuter(o OuterRect) {
	n.Outer = o
	n.dirty = true
}

// SetInner replaces the inner remap and marks the node dirty.
func (n *Node) SetInner(i InnerRect) {
	n.Inner = i
	n.dirty = true
}

// SetPosition moves the pivot in parent space and marks the node dirty.
func (n *Node) SetPosition(x, y float64) {
	n.Outer.X = x
	n.Outer.Y = y
	n.dirty = true
}

// SetSize sets the outer box size and marks the node dirty.
func (n *Node) SetSize(w, h float64) {
	n.Outer.Width = w
	n.Outer.Height = h
	n.dirty = true
}

// SetPivot sets the normalized pivot and marks the node dirty.
func (n *Node) SetPivot(cx, cy float64) {
	n.Outer.CX = cx
	n.Outer.CY = cy
	n.dirty = true
}

// SetRotation sets the outer rotation (in radians) and marks the node dirty.
func (n *Node) SetRotation(rot float64) {
	n.Outer.Rot = rot
	n.dirty = true
}

// MarkDirty forces the transforms to be recomputed on the next Draw. Call it
// after assigning Outer or Inner fields directly.
func (n *Node) MarkDirty() {
	n.dirty = true
}

// IsDirty reports whether the node will recompute its transforms on the next
// Draw regardless of its parent frame.
func (n *Node) IsDirty() bool {
	return n.dirty
}

// --- Tree manipulation ---

// Add appends nodes to the child list in argument order and points their
// parent link at n. A node already under another parent is not removed from
// that parent's list; only its parent link changes.
// Panics if a node is nil or is n or one of n's ancestors (cycle).
func (n *Node) Add(nodes ...*Node) {
	for _, child := range nodes {
		if child == nil {
			panic("arbor: cannot add nil child")
		}
		if isAncestor(child, n) {
			panic("arbor: adding child would create a cycle")
		}
		n.children = append(n.children, child)
		child.parent = weak.Make(n)
	}
}

// RemoveChild detaches child from this node. The parent link is cleared only
// if it points at n. Panics if child is not in n's child list.
func (n *Node) RemoveChild(child *Node) {
	if !n.removeChildByPtr(child) {
		panic("arbor: node is not a child of this node")
	}
	if child.Parent() == n {
		child.parent = weak.Pointer[Node]{}
	}
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	p := n.Parent()
	if p == nil {
		return
	}
	p.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		if child.Parent() == n {
			child.parent = weak.Pointer[Node]{}
		}
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Parent returns the node's parent, or nil for a root or a node whose parent
// is no longer referenced anywhere.
func (n *Node) Parent() *Node {
	return n.parent.Value()
}

// Children returns the child list in draw order. The returned slice MUST NOT
// be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Walk visits n and its descendants depth-first in draw order. Returning
// false from fn skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// FindByName returns the first node named name in n's subtree, or nil.
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without touching its parent
// link. Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return true
		}
	}
	return false
}
