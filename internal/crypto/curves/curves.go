package curves

import (
	"errors"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/nt/arith"
	"github.com/smallyu/go-ntkit/internal/nt/modsqrt"
	"github.com/smallyu/go-ntkit/internal/nt/primality"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

var (
	zero  = big.NewInt(0)
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Curve defines the group operations on y^2 = x^3 + a*x + b over F_p.
type Curve interface {
	// Params returns a copy of the curve parameters.
	Params() *Params

	// Generator returns the base point G.
	Generator() Point

	// IsOnCurve reports whether p is the point at infinity or a finite point
	// with reduced coordinates satisfying the curve equation.
	IsOnCurve(p Point) bool

	// Add returns p1 + p2.
	Add(p1, p2 Point) Point

	// Double returns 2*p.
	Double(p Point) Point

	// Neg returns -p.
	Neg(p Point) Point

	// ScalarMult computes k * p. Negative k multiplies -p.
	ScalarMult(k *big.Int, p Point) Point

	// ScalarBaseMult computes k * G.
	ScalarBaseMult(k *big.Int) Point

	// RandomPoint samples a finite point with a uniformly random x-coordinate,
	// trying at most retries x values.
	RandomPoint(retries int, rnd ntkit.RandomSource) (Point, error)
}

// Params are the domain parameters of a short Weierstrass curve.
type Params struct {
	Name string
	P    *big.Int // field prime
	A, B *big.Int // equation coefficients
	Gx   *big.Int
	Gy   *big.Int
	N    *big.Int // order of G
}

// Generator returns G as a Point.
func (p *Params) Generator() Point {
	return NewPoint(p.Gx, p.Gy)
}

// Evaluate returns x^3 + a*x + b mod p.
func (p *Params) Evaluate(x *big.Int) *big.Int {
	v := new(big.Int).Mul(x, x)
	v.Add(v, p.A)
	v.Mul(v, x)
	v.Add(v, p.B)
	return v.Mod(v, p.P)
}

func (p *Params) clone() *Params {
	return &Params{
		Name: p.Name,
		P:    new(big.Int).Set(p.P),
		A:    new(big.Int).Set(p.A),
		B:    new(big.Int).Set(p.B),
		Gx:   new(big.Int).Set(p.Gx),
		Gy:   new(big.Int).Set(p.Gy),
		N:    new(big.Int).Set(p.N),
	}
}

type weierstrass struct {
	params *Params
	g      Point
}

// New validates params and returns the curve they describe. p must be a
// prime greater than 3, the curve must be non-singular, G must lie on it,
// and N must be positive. a and b are reduced mod p.
func New(params Params) (Curve, error) {
	const op = "curves.New"

	if params.P == nil || params.A == nil || params.B == nil ||
		params.Gx == nil || params.Gy == nil || params.N == nil {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "missing parameter")
	}
	if params.P.Cmp(three) <= 0 || !primality.IsProbablePrime(params.P) {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "field modulus %s is not a prime > 3", params.P)
	}
	if params.N.Sign() <= 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "order %s is not positive", params.N)
	}

	c := newTrusted(&params)
	if c.discriminant().Sign() == 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "singular curve")
	}
	if !c.IsOnCurve(c.g) {
		return nil, ntkit.NewError(op, ntkit.ErrNotOnCurve, "generator %s", c.g)
	}
	return c, nil
}

// newTrusted builds a curve from known-good constants without validation.
func newTrusted(params *Params) *weierstrass {
	c := &weierstrass{params: params.clone()}
	c.params.A.Mod(c.params.A, c.params.P)
	c.params.B.Mod(c.params.B, c.params.P)
	c.g = c.params.Generator()
	return c
}

// discriminant returns 4a^3 + 27b^2 mod p.
func (c *weierstrass) discriminant() *big.Int {
	p := c.params.P
	a3 := new(big.Int).Exp(c.params.A, three, p)
	a3.Mul(a3, big.NewInt(4))
	b2 := new(big.Int).Mul(c.params.B, c.params.B)
	b2.Mul(b2, big.NewInt(27))
	d := a3.Add(a3, b2)
	return d.Mod(d, p)
}

func (c *weierstrass) Params() *Params {
	return c.params.clone()
}

func (c *weierstrass) Generator() Point {
	return c.g
}

func (c *weierstrass) IsOnCurve(pt Point) bool {
	if pt.IsInfinity() {
		return true
	}
	x, y := pt.affine.x, pt.affine.y
	p := c.params.P
	if x.Sign() < 0 || x.Cmp(p) >= 0 || y.Sign() < 0 || y.Cmp(p) >= 0 {
		return false
	}
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, p)
	return y2.Cmp(c.params.Evaluate(x)) == 0
}

// div returns num / den mod p. den must be invertible, which holds for every
// call site because p is prime and den is non-zero there.
func (c *weierstrass) div(num, den *big.Int) *big.Int {
	p := c.params.P
	inv := new(big.Int).ModInverse(new(big.Int).Mod(den, p), p)
	if inv == nil {
		panic("curves: division by a non-invertible element")
	}
	r := inv.Mul(inv, num)
	return r.Mod(r, p)
}

// chord completes the addition once the slope is known.
func (c *weierstrass) chord(lambda, x1, y1, x2 *big.Int) Point {
	p := c.params.P
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, y1)
	y3.Mod(y3, p)

	return Point{affine: &affine{x: x3, y: y3}}
}

func (c *weierstrass) Add(p1, p2 Point) Point {
	if p1.IsInfinity() {
		return p2
	}
	if p2.IsInfinity() {
		return p1
	}

	p := c.params.P
	x1 := new(big.Int).Mod(p1.affine.x, p)
	y1 := new(big.Int).Mod(p1.affine.y, p)
	x2 := new(big.Int).Mod(p2.affine.x, p)
	y2 := new(big.Int).Mod(p2.affine.y, p)

	if x1.Cmp(x2) == 0 {
		if y1.Cmp(y2) != 0 {
			return Infinity()
		}
		return c.Double(p1)
	}

	num := new(big.Int).Sub(y2, y1)
	den := new(big.Int).Sub(x2, x1)
	return c.chord(c.div(num, den), x1, y1, x2)
}

func (c *weierstrass) Double(pt Point) Point {
	if pt.IsInfinity() {
		return Infinity()
	}

	p := c.params.P
	x := new(big.Int).Mod(pt.affine.x, p)
	y := new(big.Int).Mod(pt.affine.y, p)
	if y.Sign() == 0 {
		return Infinity()
	}

	num := new(big.Int).Mul(x, x)
	num.Mul(num, three)
	num.Add(num, c.params.A)
	den := new(big.Int).Mul(y, two)
	return c.chord(c.div(num, den), x, y, x)
}

func (c *weierstrass) Neg(pt Point) Point {
	if pt.IsInfinity() {
		return Infinity()
	}
	p := c.params.P
	y := new(big.Int).Mod(pt.affine.y, p)
	y.Sub(p, y)
	y.Mod(y, p)
	return Point{affine: &affine{x: new(big.Int).Mod(pt.affine.x, p), y: y}}
}

// ScalarMult uses left-to-right double-and-add.
func (c *weierstrass) ScalarMult(k *big.Int, pt Point) Point {
	if pt.IsInfinity() || k.Sign() == 0 {
		return Infinity()
	}
	if k.Sign() < 0 {
		return c.ScalarMult(new(big.Int).Neg(k), c.Neg(pt))
	}

	r := Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if k.Bit(i) == 1 {
			r = c.Add(r, pt)
		}
	}
	return r
}

func (c *weierstrass) ScalarBaseMult(k *big.Int) Point {
	return c.ScalarMult(k, c.g)
}

// RandomPoint draws x uniformly from [0, p-1] and keeps it when x^3 + ax + b
// is a square, returning the smaller root as y. A zero right-hand side gives
// the two-torsion point (x, 0).
func (c *weierstrass) RandomPoint(retries int, rnd ntkit.RandomSource) (Point, error) {
	const op = "curves.RandomPoint"

	p := c.params.P
	pMinus1 := new(big.Int).Sub(p, one)
	for attempt := 0; attempt < retries; attempt++ {
		x, err := rnd.Int(zero, pMinus1)
		if err != nil {
			return Point{}, err
		}

		v := c.params.Evaluate(x)
		if v.Sign() == 0 {
			return Point{affine: &affine{x: x, y: new(big.Int)}}, nil
		}
		if arith.Symbol(arith.EulerCriterion(v, p)) != 1 {
			continue
		}

		roots, err := modsqrt.Cipolla(v, p, modsqrt.DefaultRetries, rnd)
		if errors.Is(err, ntkit.ErrRetriesExhausted) {
			continue
		}
		if err != nil {
			return Point{}, err
		}
		return Point{affine: &affine{x: x, y: roots.Low}}, nil
	}
	return Point{}, ntkit.NewError(op, ntkit.ErrRetriesExhausted, "no point after %d attempts on %s", retries, c.params.Name)
}
