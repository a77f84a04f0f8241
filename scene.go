package arbor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the per-frame host for a node tree: it runs the update hook,
// advances tweens, draws the tree onto the screen through an EbitenSurface
// and surfaces draw errors.
type Scene struct {
	root    *Node
	surface *EbitenSurface
	logger  *log.Logger
	debug   bool

	// ClearColor fills the screen before each frame when its alpha is
	// non-zero.
	ClearColor Color

	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir string

	updateFunc func() error
	script     *Script
	tweens     []*TweenGroup
	drawErr    error
	frame      uint64

	screenshotQueue []string
}

// NewScene creates a scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:          NewContainer("root"),
		surface:       NewEbitenSurface(nil),
		logger:        defaultLogger(),
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetRoot replaces the root node. Panics on nil.
func (s *Scene) SetRoot(root *Node) {
	if root == nil {
		panic("arbor: scene root cannot be nil")
	}
	s.root = root
}

// Surface returns the surface the scene draws through.
func (s *Scene) Surface() *EbitenSurface {
	return s.surface
}

// Logger returns the scene logger.
func (s *Scene) Logger() *log.Logger {
	return s.logger
}

// SetLogger replaces the scene logger. Nil restores the default stderr
// logger.
func (s *Scene) SetLogger(l *log.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	if s.debug {
		l.SetLevel(log.DebugLevel)
	}
	s.logger = l
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame draw
// timing and node counts are logged at debug level and tree depth and child
// count warnings are emitted.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	if enabled {
		s.logger.SetLevel(log.DebugLevel)
	} else {
		s.logger.SetLevel(log.InfoLevel)
	}
}

// SetUpdateFunc sets a callback invoked at the start of every Update. An
// error returned from fn is returned from Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Animate registers a tween advanced by every Update until it is done.
func (s *Scene) Animate(groups ...*TweenGroup) {
	s.tweens = append(s.tweens, groups...)
}

// NumTweens returns the number of tweens still running.
func (s *Scene) NumTweens() int {
	return len(s.tweens)
}

// Update runs one logic tick at the current ebiten TPS.
func (s *Scene) Update() error {
	return s.update(float32(1.0 / float64(ebiten.TPS())))
}

// update returns the error of the previous Draw first, so a failed frame
// stops the host loop on the next tick.
func (s *Scene) update(dt float32) error {
	if err := s.drawErr; err != nil {
		s.drawErr = nil
		return err
	}
	if s.script != nil {
		if err := s.script.step(s); err != nil {
			return err
		}
	}
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	s.advanceTweens(dt)
	return nil
}

func (s *Scene) advanceTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}

// Draw clears screen with ClearColor, draws the tree onto it and captures
// queued screenshots. The traversal error is logged, returned, and kept
// until the next Update.
func (s *Scene) Draw(screen *ebiten.Image) error {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.RGBA())
	}
	s.surface.SetTarget(screen)
	err := s.drawTo(s.surface)
	s.flushScreenshots(screen)
	return err
}

// drawTo draws the tree onto surf starting from absolute coordinates.
func (s *Scene) drawTo(surf Surface) error {
	s.frame++
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	surf.ResetTransform()
	err := s.root.Draw(surf, nil)

	if s.debug {
		elapsed := time.Since(t0)
		st := collectTreeStats(s.root, s.logger)
		s.logger.Debug("frame", "n", s.frame, "draw", elapsed, "nodes", st.nodes, "depth", st.maxDepth)
	}
	if err != nil {
		s.logger.Error("draw failed", "frame", s.frame, "err", err)
		s.drawErr = err
	}
	return err
}
