package arith

import (
	"math/big"

	"github.com/smallyu/go-ntkit/internal/nt/factor"
	"github.com/smallyu/go-ntkit/internal/nt/primality"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
)

// Euler returns the product of (p-1)^e over the prime powers p^e dividing n.
//
// This is the toolkit's historical contract and coincides with Euler's
// totient only for squarefree n (Euler(33) = 20, but Euler(9) = 4).
// Use Totient for the textbook function.
func Euler(n *big.Int) (*big.Int, error) {
	f, err := factorPositive("arith.Euler", n)
	if err != nil {
		return nil, err
	}
	return EulerOf(f), nil
}

// EulerOf computes Euler from a known factorization.
func EulerOf(f factor.Factorization) *big.Int {
	result := big.NewInt(1)
	for _, fc := range f {
		pm1 := new(big.Int).Sub(fc.Prime, one)
		result.Mul(result, pm1.Exp(pm1, big.NewInt(int64(fc.Exponent)), nil))
	}
	return result
}

// Totient returns Euler's phi(n) = prod (p-1) * p^(e-1).
func Totient(n *big.Int) (*big.Int, error) {
	f, err := factorPositive("arith.Totient", n)
	if err != nil {
		return nil, err
	}
	return TotientOf(f), nil
}

// TotientOf computes phi from a known factorization.
func TotientOf(f factor.Factorization) *big.Int {
	result := big.NewInt(1)
	for _, fc := range f {
		result.Mul(result, new(big.Int).Sub(fc.Prime, one))
		result.Mul(result, new(big.Int).Exp(fc.Prime, big.NewInt(int64(fc.Exponent-1)), nil))
	}
	return result
}

// Mobius returns mu(n): 1 for n = 1, 0 if a square divides n, otherwise
// (-1)^k for k distinct prime factors.
func Mobius(n *big.Int) (int, error) {
	f, err := factorPositive("arith.Mobius", n)
	if err != nil {
		return 0, err
	}
	return MobiusOf(f), nil
}

// MobiusOf computes mu from a known factorization.
func MobiusOf(f factor.Factorization) int {
	mu := 1
	for _, fc := range f {
		if fc.Exponent > 1 {
			return 0
		}
		mu = -mu
	}
	return mu
}

// EulerCriterion returns a^((p-1)/2) mod p. For an odd prime p the result is
// 0, 1 or p-1. p is not validated.
func EulerCriterion(a, p *big.Int) *big.Int {
	e := new(big.Int).Sub(p, one)
	e.Rsh(e, 1)
	r := new(big.Int).Mod(a, p)
	return r.Exp(r, e, p)
}

// Symbol maps an Euler criterion value to -1, 0 or 1.
func Symbol(c *big.Int) int {
	switch {
	case c.Sign() == 0:
		return 0
	case c.Cmp(one) == 0:
		return 1
	default:
		return -1
	}
}

// Legendre returns the Legendre symbol (a/p). p must be an odd prime.
func Legendre(a, p *big.Int) (int, error) {
	if err := checkOddPrime("arith.Legendre", p); err != nil {
		return 0, err
	}
	return Symbol(EulerCriterion(a, p)), nil
}

// Jacobi returns the Jacobi symbol (a/n) as the product of Legendre symbols
// over the factorization of n. n must be odd and positive; (a/1) = 1.
func Jacobi(a, n *big.Int) (int, error) {
	const op = "arith.Jacobi"

	if n.Sign() <= 0 || n.Bit(0) == 0 {
		return 0, ntkit.NewError(op, ntkit.ErrInvalidArgument, "n = %s must be odd and positive", n)
	}
	f, err := factor.Factor(n)
	if err != nil {
		return 0, err
	}

	result := 1
	for _, fc := range f {
		s := Symbol(EulerCriterion(a, fc.Prime))
		if s == 0 {
			return 0, nil
		}
		if s == -1 && fc.Exponent%2 == 1 {
			result = -result
		}
	}
	return result, nil
}

func factorPositive(op string, n *big.Int) (factor.Factorization, error) {
	if n.Sign() <= 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "n = %s must be positive", n)
	}
	return factor.Factor(n)
}

func checkOddPrime(op string, p *big.Int) error {
	if p.Cmp(three) < 0 || p.Bit(0) == 0 {
		return ntkit.NewError(op, ntkit.ErrInvalidArgument, "p = %s is not an odd prime", p)
	}
	if !primality.IsProbablePrime(p) {
		return ntkit.NewError(op, ntkit.ErrInvalidArgument, "p = %s is composite", p)
	}
	return nil
}

// CheckOddPrime reports ErrInvalidArgument unless p is an odd prime.
func CheckOddPrime(p *big.Int) error {
	return checkOddPrime("arith.CheckOddPrime", p)
}
