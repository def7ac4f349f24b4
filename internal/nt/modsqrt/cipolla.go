package modsqrt

import (
	"math/big"

	"github.com/smallyu/go-ntkit/internal/nt/arith"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// DefaultRetries makes a spurious ErrRetriesExhausted roughly a 2^-64 event,
// since each random draw succeeds with probability about 1/2.
const DefaultRetries = 64

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// Roots holds the two square roots of a modulo p, smaller first.
// Low + High = p unless both are zero.
type Roots struct {
	Low  *big.Int
	High *big.Int
}

// Cipolla finds x with x^2 = a (mod p) for an odd prime p.
//
// Each attempt draws a random b and sets w = b^2 - a. If w = 0 the roots are
// b and p-b. If w is a non-residue, the real part of (b + sqrt(w))^((p+1)/2)
// in F_p[sqrt(w)] is a root. A residue w costs one retry.
func Cipolla(a, p *big.Int, retries int, rnd ntkit.RandomSource) (Roots, error) {
	const op = "modsqrt.Cipolla"

	if err := arith.CheckOddPrime(p); err != nil {
		return Roots{}, err
	}

	n := new(big.Int).Mod(a, p)
	if n.Sign() == 0 {
		return Roots{Low: big.NewInt(0), High: big.NewInt(0)}, nil
	}
	if arith.Symbol(arith.EulerCriterion(n, p)) != 1 {
		return Roots{}, ntkit.NewError(op, ntkit.ErrNotResidue, "%s mod %s", a, p)
	}

	pMinus1 := new(big.Int).Sub(p, one)
	exp := new(big.Int).Add(p, one)
	exp.Rsh(exp, 1)

	for attempt := 0; attempt < retries; attempt++ {
		b, err := rnd.Int(zero, pMinus1)
		if err != nil {
			return Roots{}, err
		}

		w := new(big.Int).Mul(b, b)
		w.Sub(w, n)
		w.Mod(w, p)

		if w.Sign() == 0 {
			return ordered(b, p), nil
		}
		if arith.Symbol(arith.EulerCriterion(w, p)) == 1 {
			continue
		}

		r := pow(element{x: b, y: big.NewInt(1)}, exp, w, p).x
		check := new(big.Int).Mul(r, r)
		if check.Mod(check, p).Cmp(n) != 0 {
			return Roots{}, ntkit.NewError(op, ntkit.ErrNotResidue, "root check failed for %s mod %s", a, p)
		}
		return ordered(r, p), nil
	}

	return Roots{}, ntkit.NewError(op, ntkit.ErrRetriesExhausted, "%d attempts for %s mod %s", retries, a, p)
}

// ordered returns r and p-r reduced mod p, smaller first.
func ordered(r, p *big.Int) Roots {
	r1 := new(big.Int).Mod(r, p)
	r2 := new(big.Int).Sub(p, r1)
	r2.Mod(r2, p)
	if r1.Cmp(r2) > 0 {
		r1, r2 = r2, r1
	}
	return Roots{Low: r1, High: r2}
}

// element is x + y*sqrt(w) in F_p[sqrt(w)].
type element struct {
	x, y *big.Int
}

// mul returns (x1 x2 + y1 y2 w, x1 y2 + y1 x2) mod p.
func (e element) mul(o element, w, p *big.Int) element {
	x := new(big.Int).Mul(e.y, o.y)
	x.Mul(x, w)
	x.Add(x, new(big.Int).Mul(e.x, o.x))
	x.Mod(x, p)

	y := new(big.Int).Mul(e.x, o.y)
	y.Add(y, new(big.Int).Mul(e.y, o.x))
	y.Mod(y, p)

	return element{x: x, y: y}
}

// pow raises base to e by left-to-right binary exponentiation. e = 0 yields
// the identity (1, 0).
func pow(base element, e, w, p *big.Int) element {
	result := element{x: big.NewInt(1), y: big.NewInt(0)}
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = result.mul(result, w, p)
		if e.Bit(i) == 1 {
			result = result.mul(base, w, p)
		}
	}
	return result
}
