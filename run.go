package arbor

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	ShowFPS   bool   `toml:"show_fps"`
	Resizable bool   `toml:"resizable"`
	// Debug enables the scene's debug logging.
	Debug bool `toml:"debug"`
}

// DefaultRunConfig returns a 640x480 window titled "arbor".
func DefaultRunConfig() RunConfig {
	return RunConfig{Title: "arbor", Width: 640, Height: 480}
}

// LoadRunConfig parses a TOML document over DefaultRunConfig.
//
//	title = "Nested frames"
//	width = 800
//	height = 600
//	show_fps = true
func LoadRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return RunConfig{}, fmt.Errorf("parse run config: unknown key %q", undecoded[0].String())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return RunConfig{}, fmt.Errorf("parse run config: window size must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// Run opens a window and drives scene with ebiten's game loop until the
// window is closed, the update hook fails or a frame fails to draw. Closing
// the window returns nil.
func Run(scene *Scene, cfg RunConfig) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	err := ebiten.RunGame(&gameShell{scene: scene, cfg: cfg})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
	cfg   RunConfig
}

func (g *gameShell) Update() error {
	return g.scene.Update()
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	// The error is kept by the scene and returned from the next Update.
	_ = g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Resizable {
		return outsideWidth, outsideHeight
	}
	return g.cfg.Width, g.cfg.Height
}
