package curves

import (
	"fmt"
	"math/big"
)

// Point is a point on a short Weierstrass curve: either the point at
// infinity or a finite affine point. The zero value is the point at infinity.
// Points are immutable; accessors return copies.
type Point struct {
	affine *affine
}

type affine struct {
	x, y *big.Int
}

// Infinity returns the point at infinity, the group identity.
func Infinity() Point {
	return Point{}
}

// NewPoint returns the finite point (x, y). The coordinates are copied but
// not reduced or checked against any curve; use Curve.IsOnCurve for that.
func NewPoint(x, y *big.Int) Point {
	return Point{affine: &affine{
		x: new(big.Int).Set(x),
		y: new(big.Int).Set(y),
	}}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.affine == nil
}

// Coordinates returns copies of x and y. ok is false for the point at
// infinity.
func (p Point) Coordinates() (x, y *big.Int, ok bool) {
	if p.affine == nil {
		return nil, nil, false
	}
	return new(big.Int).Set(p.affine.x), new(big.Int).Set(p.affine.y), true
}

// X returns a copy of the x-coordinate, or nil for the point at infinity.
func (p Point) X() *big.Int {
	if p.affine == nil {
		return nil
	}
	return new(big.Int).Set(p.affine.x)
}

// Y returns a copy of the y-coordinate, or nil for the point at infinity.
func (p Point) Y() *big.Int {
	if p.affine == nil {
		return nil
	}
	return new(big.Int).Set(p.affine.y)
}

// Equal reports whether p and q are the same point. Two finite points are
// equal when their coordinates are; infinity equals only itself.
func (p Point) Equal(q Point) bool {
	if p.affine == nil || q.affine == nil {
		return p.affine == nil && q.affine == nil
	}
	return p.affine.x.Cmp(q.affine.x) == 0 && p.affine.y.Cmp(q.affine.y) == 0
}

func (p Point) String() string {
	if p.affine == nil {
		return "O"
	}
	return fmt.Sprintf("(%s, %s)", p.affine.x, p.affine.y)
}
