package arbor

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// arcSegmentsPerTurn controls how finely arcs are flattened before they are
// mapped through the active transform. maxArcSegments bounds one Arc call.
const (
	arcSegmentsPerTurn = 48
	maxArcSegments     = 1024
)

// whiteSubImage is the 1x1 white source region used for vector fills.
// Created lazily so importing the package does not touch the GPU.
var whiteSubImage *ebiten.Image

func whiteTexture() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

type surfaceState struct {
	transform Affine
	style     Style
}

// EbitenSurface is a Surface that draws onto an *ebiten.Image. Paths are
// tessellated with ebiten/v2/vector and submitted with DrawTriangles.
type EbitenSurface struct {
	dst       *ebiten.Image
	transform Affine
	style     Style
	stack     []surfaceState

	path    *vector.Path
	hasPath bool

	// textures caches GPU copies of decoded images. Keys are the image
	// values handed to DrawImage, which are pointer types for every decoder
	// in the standard library and x/image.
	textures map[image.Image]*ebiten.Image

	// AntiAlias enables anti-aliasing of strokes and fills.
	AntiAlias bool
}

// NewEbitenSurface creates a surface targeting dst with an identity
// transform, black stroke, black fill and a line width of 1.
func NewEbitenSurface(dst *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{
		dst:       dst,
		transform: Identity,
		style:     Style{Fill: ColorBlack, Stroke: ColorBlack, LineWidth: 1},
		path:      &vector.Path{},
		textures:  make(map[image.Image]*ebiten.Image),
		AntiAlias: true,
	}
}

// Target returns the image being drawn onto.
func (s *EbitenSurface) Target() *ebiten.Image { return s.dst }

// SetTarget switches the destination image, keeping transform, style and the
// texture cache. Scene calls it once per frame with the screen image.
func (s *EbitenSurface) SetTarget(dst *ebiten.Image) { s.dst = dst }

func (s *EbitenSurface) Transform() Affine { return s.transform }
func (s *EbitenSurface) SetTransform(m Affine) { s.transform = m }
func (s *EbitenSurface) ResetTransform() { s.transform = Identity }
func (s *EbitenSurface) Style() Style { return s.style }
func (s *EbitenSurface) SetStyle(st Style) { s.style = st }

func (s *EbitenSurface) Save() {
	s.stack = append(s.stack, surfaceState{transform: s.transform, style: s.style})
}

// Restore pops the last saved state. Unbalanced calls are ignored.
func (s *EbitenSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.transform = top.transform
	s.style = top.style
}

func (s *EbitenSurface) BeginPath() {
	s.path = &vector.Path{}
	s.hasPath = false
}

func (s *EbitenSurface) MoveTo(x, y float64) {
	p := s.transform.Apply(Vec2{x, y})
	s.path.MoveTo(float32(p.X), float32(p.Y))
	s.hasPath = true
}

func (s *EbitenSurface) LineTo(x, y float64) {
	if !s.hasPath {
		s.MoveTo(x, y)
		return
	}
	p := s.transform.Apply(Vec2{x, y})
	s.path.LineTo(float32(p.X), float32(p.Y))
}

// Arc is flattened into line segments in the active frame so that
// non-uniform scales and rotations bend it correctly.
func (s *EbitenSurface) Arc(x, y, radius, a0, a1 float64) {
	n := arcSegments(a0, a1)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		px, py := x+radius*math.Cos(a), y+radius*math.Sin(a)
		if i == 0 {
			s.LineTo(px, py)
			continue
		}
		p := s.transform.Apply(Vec2{px, py})
		s.path.LineTo(float32(p.X), float32(p.Y))
	}
}

// arcSegments returns how many line segments approximate the sweep from a0
// to a1, between 1 and maxArcSegments. A non-finite sweep uses one segment.
func arcSegments(a0, a1 float64) int {
	n := math.Ceil(math.Abs(a1-a0) / (2 * math.Pi) * arcSegmentsPerTurn)
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	return int(min(n, maxArcSegments))
}

func (s *EbitenSurface) ClosePath() {
	if s.hasPath {
		s.path.Close()
	}
}

// Stroke paints the current path outline. The path is kept, as on a canvas.
func (s *EbitenSurface) Stroke() {
	if !s.hasPath || s.dst == nil {
		return
	}
	s.strokePath(s.path)
}

// Fill paints the current path interior. The path is kept, as on a canvas.
func (s *EbitenSurface) Fill() {
	if !s.hasPath || s.dst == nil {
		return
	}
	s.fillPath(s.path)
}

func (s *EbitenSurface) FillRect(x, y, w, h float64) {
	if s.dst == nil {
		return
	}
	s.fillPath(s.rectPath(x, y, w, h))
}

func (s *EbitenSurface) StrokeRect(x, y, w, h float64) {
	if s.dst == nil {
		return
	}
	s.strokePath(s.rectPath(x, y, w, h))
}

func (s *EbitenSurface) rectPath(x, y, w, h float64) *vector.Path {
	var p vector.Path
	for i, c := range [4]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}} {
		d := s.transform.Apply(c)
		if i == 0 {
			p.MoveTo(float32(d.X), float32(d.Y))
		} else {
			p.LineTo(float32(d.X), float32(d.Y))
		}
	}
	p.Close()
	return &p
}

func (s *EbitenSurface) strokePath(p *vector.Path) {
	width := s.style.LineWidth * s.transform.LineScale()
	if width <= 0 || s.style.Stroke.A <= 0 {
		return
	}
	opts := &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinMiter,
		LineCap:  vector.LineCapButt,
	}
	vs, is := p.AppendVerticesAndIndicesForStroke(nil, nil, opts)
	s.drawTriangles(vs, is, s.style.Stroke, ebiten.FillRuleFillAll)
}

func (s *EbitenSurface) fillPath(p *vector.Path) {
	if s.style.Fill.A <= 0 {
		return
	}
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	s.drawTriangles(vs, is, s.style.Fill, ebiten.FillRuleNonZero)
}

func (s *EbitenSurface) drawTriangles(vs []ebiten.Vertex, is []uint16, c Color, rule ebiten.FillRule) {
	if len(is) == 0 {
		return
	}
	a := float32(clamp01(c.A))
	r, g, b := float32(c.R)*a, float32(c.G)*a, float32(c.B)*a
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
	s.dst.DrawTriangles(vs, is, whiteTexture(), &ebiten.DrawTrianglesOptions{
		AntiAlias: s.AntiAlias,
		FillRule:  rule,
	})
}

func (s *EbitenSurface) DrawImage(img image.Image, x, y, w, h float64) {
	if s.dst == nil || img == nil {
		return
	}
	tex := s.texture(img)
	b := tex.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.transform.GeoM())
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(tex, &op)
}

func (s *EbitenSurface) texture(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if tex, ok := s.textures[img]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	s.textures[img] = tex
	return tex
}

// ReleaseTextures deallocates every cached GPU copy of a decoded image.
func (s *EbitenSurface) ReleaseTextures() {
	for k, tex := range s.textures {
		tex.Deallocate()
		delete(s.textures, k)
	}
}
