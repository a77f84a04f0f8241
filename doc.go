// Package arbor is a hierarchical 2D scene graph drawn through a canvas-style
// [Surface], with an [Ebitengine] backend.
//
// Every drawable is a [Node]. A node is placed in its parent's space by an
// [OuterRect] (pivot position, size, normalized pivot, rotation) and lays out
// its children in an inner space defined by an [InnerRect] (origin offset,
// optional extent that rescales the box, rotation). Both transforms are
// cached on the node and recomputed lazily.
//
// # Quick start
//
//	scene := arbor.NewScene()
//	panel := arbor.NewRect("panel", arbor.Color{R: 1, G: 0.8, B: 0.2, A: 1})
//	panel.Outer = arbor.OuterRect{X: 320, Y: 240, Width: 200, Height: 100, CX: 0.5, CY: 0.5}
//	panel.Inner = arbor.InnerRect{Width: 20, Height: 10} // 10 px per inner unit
//	scene.Root().Add(panel)
//	arbor.Run(scene, arbor.RunConfig{Title: "arbor", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call [Scene.Update]
// and [Scene.Draw], or draw a node directly onto any Surface:
//
//	surf := arbor.NewEbitenSurface(screen)
//	if err := root.Draw(surf, nil); err != nil { ... }
//
// # Drawing
//
// [Node.Draw] computes the node's transforms, calls its [Painter]'s DrawSelf
// hook in outer-box space, optionally draws the debug grid, draws each child
// in inner space in insertion order, then calls DrawOverlay. The surface
// transform is restored afterwards, also on error.
//
// Assigning Outer or Inner directly requires [Node.MarkDirty]; the Set*
// helpers and tweens mark the node for you. Moving a parent is picked up by
// its children without marking them.
//
// # Debug grid
//
// Set [Node.Debug] to overlay a grid aligned on the node's inner origin, its
// visible inner extent and axis arrows. [DebugGridConfig] controls spacing,
// alignment, explicit intervals and styles, and can be loaded from TOML with
// [LoadDebugGridConfig].
//
// # Images
//
// [NewImage] displays an [ImageSource], a handle that decodes in the
// background. Drawing never blocks: a pending image draws nothing, and a
// failed one returns an error wrapping [ErrImageUnavailable] from every draw
// until the host calls [ImageSource.Retry].
//
// # Tweens
//
// [TweenPosition], [TweenSize], [TweenRotation] and friends animate node
// geometry via [gween]. Drive them with [TweenGroup.Update] or register them
// with [Scene.Animate].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package arbor
