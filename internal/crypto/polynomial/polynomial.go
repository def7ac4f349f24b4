package polynomial

import (
	"errors"
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

var one = big.NewInt(1)

// Polynomial represents a polynomial f(x) = a_0 + a_1*x + ... + a_t*x^t
// over Z_q for a prime q.
type Polynomial struct {
	Coefficients []*big.Int
	Modulus      *big.Int
}

// New generates a random polynomial of given degree with the constant term (secret) provided.
// If secret is nil, a random constant term is generated.
func New(q *big.Int, degree int, secret *big.Int, rnd ntkit.RandomSource) (*Polynomial, error) {
	if q == nil || q.Cmp(one) <= 0 || degree < 0 {
		return nil, errors.New("polynomial: modulus must exceed 1 and degree be non-negative")
	}

	coeffs := make([]*big.Int, degree+1)
	qMinus1 := new(big.Int).Sub(q, one)
	var err error

	// a_0 is the secret
	if secret == nil {
		coeffs[0], err = rnd.Int(new(big.Int), qMinus1)
		if err != nil {
			return nil, err
		}
	} else {
		coeffs[0] = new(big.Int).Mod(secret, q)
	}

	// The leading coefficient is nonzero so the degree is exact.
	for i := 1; i <= degree; i++ {
		lo := new(big.Int)
		if i == degree {
			lo.Set(one)
		}
		coeffs[i], err = rnd.Int(lo, qMinus1)
		if err != nil {
			return nil, err
		}
	}

	return &Polynomial{
		Coefficients: coeffs,
		Modulus:      new(big.Int).Set(q),
	}, nil
}

// Degree returns t.
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate calculates f(x) mod q using Horner's method.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	q := p.Modulus
	degree := p.Degree()
	result := new(big.Int).Set(p.Coefficients[degree])

	for i := degree - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.Coefficients[i])
		result.Mod(result, q)
	}

	return result.Mod(result, q)
}

// EvaluateMulti calculates f(x) for multiple x values
func (p *Polynomial) EvaluateMulti(xs []*big.Int) []*big.Int {
	results := make([]*big.Int, len(xs))
	for i, x := range xs {
		results[i] = p.Evaluate(x)
	}
	return results
}

// LagrangeCoefficient returns the weight of xs[i] when interpolating at the
// point at: prod_{j != i} (at - x_j) / (x_i - x_j) mod q. The x values must
// be distinct mod q.
func LagrangeCoefficient(xs []*big.Int, i int, at, q *big.Int) (*big.Int, error) {
	if i < 0 || i >= len(xs) {
		return nil, ntkit.NewError("polynomial.LagrangeCoefficient", ntkit.ErrInvalidArgument, "index %d out of range", i)
	}

	num := big.NewInt(1)
	den := big.NewInt(1)
	for j, xj := range xs {
		if j == i {
			continue
		}
		num.Mul(num, new(big.Int).Sub(at, xj))
		num.Mod(num, q)
		den.Mul(den, new(big.Int).Sub(xs[i], xj))
		den.Mod(den, q)
	}

	inv := new(big.Int).ModInverse(den, q)
	if inv == nil {
		return nil, ntkit.NewError("polynomial.LagrangeCoefficient", ntkit.ErrInvalidArgument, "duplicate x-coordinates")
	}
	num.Mul(num, inv)
	return num.Mod(num, q), nil
}

// Interpolate returns f(at) for the unique polynomial of degree < len(xs)
// through the points (xs[i], ys[i]).
func Interpolate(xs, ys []*big.Int, at, q *big.Int) (*big.Int, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, ntkit.NewError("polynomial.Interpolate", ntkit.ErrInvalidArgument, "%d x values, %d y values", len(xs), len(ys))
	}

	result := new(big.Int)
	for i := range xs {
		l, err := LagrangeCoefficient(xs, i, at, q)
		if err != nil {
			return nil, err
		}
		result.Add(result, l.Mul(l, ys[i]))
	}
	return result.Mod(result, q), nil
}
