package arbor

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// A point maps as x' = a*x + c*y + tx, y' = b*x + d*y + ty.
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translation returns a matrix that translates by (tx, ty).
func Translation(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// Scaling returns a matrix that scales by (sx, sy).
func Scaling(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Rotation returns a matrix that rotates by rot radians. With Y pointing
// down, positive angles turn the X axis toward the Y axis (clockwise on
// screen).
func Rotation(rot float64) Affine {
	sin, cos := math.Sincos(rot)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// OuterTransform maps outer-box-local coordinates into the parent's space:
// a rotation by o.Rot about the pivot followed by a translation to (o.X, o.Y).
func OuterTransform(o OuterRect) Affine {
	sin, cos := math.Sincos(o.Rot)
	return Affine{cos, sin, -sin, cos, o.X, o.Y}
}

// InnerTransform maps inner coordinates into the parent's space. The inner
// frame is scaled by outer/inner extent per axis (1 when the inner extent is
// zero), rotated by i.Rot, offset by (i.X, i.Y) from the pivot, and then
// carried through OuterTransform(o).
func InnerTransform(i InnerRect, o OuterRect) Affine {
	sx, sy := 1.0, 1.0
	if i.Width != 0 {
		sx = o.Width / i.Width
	}
	if i.Height != 0 {
		sy = o.Height / i.Height
	}
	sin, cos := math.Sincos(i.Rot)
	local := Affine{sx * cos, sy * sin, -sx * sin, sy * cos, i.X, i.Y}
	return OuterTransform(o).Multiply(local)
}

// Multiply returns m * o: the matrix that applies o first, then m.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Determinant returns the determinant of the linear part.
func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Invert returns the inverse of m. A singular matrix has no inverse; every
// component of the result is then NaN so the failure propagates through any
// later arithmetic instead of silently mapping points to themselves.
func (m Affine) Invert() Affine {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		nan := math.NaN()
		return Affine{nan, nan, nan, nan, nan, nan}
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply maps p through m.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyVector maps the direction v through the linear part of m, ignoring
// translation.
func (m Affine) ApplyVector(v Vec2) Vec2 {
	return Vec2{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y}
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Affine) IsIdentity() bool {
	return m == Identity
}

// Valid reports whether every component of m is finite.
func (m Affine) Valid() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LineScale returns the factor by which m scales lengths on average, used to
// scale stroke widths the way a canvas does.
func (m Affine) LineScale() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// GeoM converts m to an ebiten.GeoM.
func (m Affine) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// AffineFromGeoM converts an ebiten.GeoM to an Affine.
func AffineFromGeoM(g ebiten.GeoM) Affine {
	return Affine{
		g.Element(0, 0), g.Element(1, 0),
		g.Element(0, 1), g.Element(1, 1),
		g.Element(0, 2), g.Element(1, 2),
	}
}
