package arbor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"
)

// OriginConfig controls the axis arrows and origin marker of the debug
// overlay. Radius and ArrowLength are in absolute surface units.
type OriginConfig struct {
	// AxisXStyle strokes the X arrow (Stroke, LineWidth) and fills the
	// origin marker (Fill). AxisYStyle strokes the Y arrow.
	AxisXStyle  Style
	AxisYStyle  Style
	Radius      float64
	ArrowLength float64
}

// DebugGridConfig configures DrawDebugGrid.
type DebugGridConfig struct {
	// Spacing between vertical (X) and horizontal (Y) gridlines, in inner
	// units.
	Spacing Vec2
	// Align is a point gridlines are guaranteed to pass through, usually the
	// inner origin.
	Align Vec2
	// IntervalX and IntervalY override the grid extent computed from the
	// outer box, in inner units.
	IntervalX *Range
	IntervalY *Range
	// Flashing alternates the highlight between GridStyle.Fill and FlashFill
	// on a per-draw coin flip.
	Flashing bool
	// GridStyle strokes the gridlines (Stroke, absolute LineWidth) and fills
	// the highlight (Fill).
	GridStyle Style
	FlashFill Color
	Origin    OriginConfig
}

// DefaultDebugGridConfig returns the default grid: 10 unit spacing aligned on
// the inner origin, 3px black lines over an orange highlight, 25px red X and
// green Y arrows with a 5px origin dot.
func DefaultDebugGridConfig() *DebugGridConfig {
	return &DebugGridConfig{
		Spacing: Vec2{10, 10},
		Align:   Vec2{0, 0},
		GridStyle: Style{
			LineWidth: 3,
			Stroke:    ColorBlack,
			Fill:      Color{R: 1, G: 192.0 / 255, B: 86.0 / 255, A: 0.75},
		},
		FlashFill: Color{R: 1, G: 1, B: 1, A: 0.25},
		Origin: OriginConfig{
			AxisXStyle:  Style{LineWidth: 5, Stroke: Color{1, 0, 0, 1}, Fill: Color{1, 0, 0, 1}},
			AxisYStyle:  Style{LineWidth: 5, Stroke: Color{0, 128.0 / 255, 0, 1}, Fill: Color{0, 128.0 / 255, 0, 1}},
			Radius:      5,
			ArrowLength: 25,
		},
	}
}

// --- TOML loading ---

type vecDoc struct {
	X *float64 `toml:"x"`
	Y *float64 `toml:"y"`
}

type styleDoc struct {
	LineWidth *float64 `toml:"line_width"`
	Stroke    *string  `toml:"stroke"`
	Fill      *string  `toml:"fill"`
}

type gridStyleDoc struct {
	LineWidth *float64 `toml:"line_width"`
	Stroke    *string  `toml:"stroke"`
	Fill      *string  `toml:"fill"`
	FlashFill *string  `toml:"flash_fill"`
}

type originDoc struct {
	AxisX       *styleDoc `toml:"axis_x"`
	AxisY       *styleDoc `toml:"axis_y"`
	Radius      *float64  `toml:"radius"`
	ArrowLength *float64  `toml:"arrow_length"`
}

type debugGridDoc struct {
	Spacing   *vecDoc       `toml:"spacing"`
	Align     *vecDoc       `toml:"align"`
	IntervalX []float64     `toml:"interval_x"`
	IntervalY []float64     `toml:"interval_y"`
	Flashing  *bool         `toml:"flashing"`
	Grid      *gridStyleDoc `toml:"grid"`
	Origin    *originDoc    `toml:"origin"`
}

// LoadDebugGridConfig parses a TOML document and overlays it on
// DefaultDebugGridConfig, so any omitted option keeps its default. Unknown
// keys are rejected.
//
//	spacing = { x = 20, y = 20 }
//	interval_x = [-100, 100]
//	flashing = true
//
//	[grid]
//	line_width = 1
//	stroke = "#333333"
//	fill = "rgba(255, 192, 86, 0.5)"
//
//	[origin.axis_x]
//	stroke = "crimson"
func LoadDebugGridConfig(data []byte) (*DebugGridConfig, error) {
	var doc debugGridDoc
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse debug grid config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse debug grid config: unknown key %q", undecoded[0].String())
	}

	cfg := DefaultDebugGridConfig()
	applyVec(&cfg.Spacing, doc.Spacing)
	applyVec(&cfg.Align, doc.Align)
	if cfg.IntervalX, err = intervalFrom("interval_x", doc.IntervalX); err != nil {
		return nil, err
	}
	if cfg.IntervalY, err = intervalFrom("interval_y", doc.IntervalY); err != nil {
		return nil, err
	}
	if doc.Flashing != nil {
		cfg.Flashing = *doc.Flashing
	}
	if g := doc.Grid; g != nil {
		if err := applyStyle(&cfg.GridStyle, &styleDoc{LineWidth: g.LineWidth, Stroke: g.Stroke, Fill: g.Fill}, "grid"); err != nil {
			return nil, err
		}
		if g.FlashFill != nil {
			if cfg.FlashFill, err = ParseColor(*g.FlashFill); err != nil {
				return nil, fmt.Errorf("grid.flash_fill: %w", err)
			}
		}
	}
	if o := doc.Origin; o != nil {
		if err := applyStyle(&cfg.Origin.AxisXStyle, o.AxisX, "origin.axis_x"); err != nil {
			return nil, err
		}
		if err := applyStyle(&cfg.Origin.AxisYStyle, o.AxisY, "origin.axis_y"); err != nil {
			return nil, err
		}
		if o.Radius != nil {
			cfg.Origin.Radius = *o.Radius
		}
		if o.ArrowLength != nil {
			cfg.Origin.ArrowLength = *o.ArrowLength
		}
	}
	if !(cfg.Spacing.X > 0) || !(cfg.Spacing.Y > 0) {
		return nil, fmt.Errorf("parse debug grid config: spacing must be positive, got %v", cfg.Spacing)
	}
	return cfg, nil
}

func applyVec(dst *Vec2, v *vecDoc) {
	if v == nil {
		return
	}
	if v.X != nil {
		dst.X = *v.X
	}
	if v.Y != nil {
		dst.Y = *v.Y
	}
}

func intervalFrom(key string, v []float64) (*Range, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 2 {
		return nil, fmt.Errorf("%s: want [min, max], got %d values", key, len(v))
	}
	r := normalizeRange(Range{Min: v[0], Max: v[1]})
	return &r, nil
}

func applyStyle(dst *Style, doc *styleDoc, key string) error {
	if doc == nil {
		return nil
	}
	var err error
	if doc.LineWidth != nil {
		dst.LineWidth = *doc.LineWidth
	}
	if doc.Stroke != nil {
		if dst.Stroke, err = ParseColor(*doc.Stroke); err != nil {
			return fmt.Errorf("%s.stroke: %w", key, err)
		}
	}
	if doc.Fill != nil {
		if dst.Fill, err = ParseColor(*doc.Fill); err != nil {
			return fmt.Errorf("%s.fill: %w", key, err)
		}
	}
	return nil
}

// --- Color parsing ---

// ParseColor parses a CSS-style color: a named color ("orange",
// "transparent"), "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)" or
// "rgba(r, g, b, a)" with 0-255 channels and a 0-1 alpha.
func ParseColor(s string) (Color, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	switch {
	case str == "transparent":
		return ColorTransparent, nil
	case strings.HasPrefix(str, "#"):
		return parseHexColor(str[1:], s)
	case strings.HasPrefix(str, "rgba(") || strings.HasPrefix(str, "rgb("):
		return parseFuncColor(str, s)
	}
	if c, ok := colornames.Map[str]; ok {
		return ColorFrom(c), nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(hex, orig string) (Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", orig)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", orig)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

func parseFuncColor(str, orig string) (Color, error) {
	open, end := strings.IndexByte(str, '('), strings.LastIndexByte(str, ')')
	if end < open {
		return Color{}, fmt.Errorf("invalid color %q", orig)
	}
	parts := strings.Split(str[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid color %q: want 3 or 4 components", orig)
	}
	var vals [4]float64
	vals[3] = 1
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", orig, err)
		}
		if i < 3 {
			v /= 255
		}
		vals[i] = clamp01(v)
	}
	return Color{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}
