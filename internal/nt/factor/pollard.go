package factor

import (
	"errors"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/nt/primality"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

const (
	// DefaultMaxIterations lets the rho step find prime factors up to
	// roughly 2^40 with good probability.
	DefaultMaxIterations = 1_000_000

	// MaxRhoAttempts is the number of fresh starting points tried on a
	// composite cofactor before giving up.
	MaxRhoAttempts = 32

	// Primes below trialDivisionBound are stripped before any rho step.
	trialDivisionBound = 1000
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)

	smallPrimes = sieve(trialDivisionBound)
)

// GCD returns the non-negative greatest common divisor of x and y using
// Euclid's algorithm. gcd(0, 0) is undefined and reported as an error.
func GCD(x, y *big.Int) (*big.Int, error) {
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, ntkit.NewError("factor.GCD", ntkit.ErrInvalidArgument, "gcd(0, 0) is undefined")
	}
	return gcd(x, y), nil
}

// gcd assumes x and y are not both zero.
func gcd(x, y *big.Int) *big.Int {
	a := new(big.Int).Abs(x)
	b := new(big.Int).Abs(y)
	for b.Sign() != 0 {
		a, b = b, a.Rem(a, b)
	}
	return a
}

// PollardRhoDivision looks for a nontrivial divisor of n with Floyd's cycle
// detection on x -> x^2 + 1 mod n, starting from a random point. The
// tortoise advances one step and the hare two steps per iteration.
//
// If no divisor other than 1 and n shows up within maxIterations, or the
// two sequences meet first, ErrNoFactor is returned. Retrying with fresh
// randomness may succeed; a prime n never splits.
func PollardRhoDivision(n *big.Int, maxIterations int, rnd ntkit.RandomSource) (*big.Int, error) {
	const op = "factor.PollardRhoDivision"

	if n.Cmp(two) < 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "n = %s must be greater than 1", n)
	}
	if maxIterations < 1 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "maxIterations = %d must be positive", maxIterations)
	}
	if n.Bit(0) == 0 {
		if n.Cmp(two) == 0 {
			return nil, ntkit.NewError(op, ntkit.ErrNoFactor, "n = 2 is prime")
		}
		return big.NewInt(2), nil
	}

	start, err := rnd.Int(big.NewInt(0), new(big.Int).Sub(n, one))
	if err != nil {
		return nil, err
	}

	tortoise := new(big.Int).Set(start)
	hare := new(big.Int).Set(start)
	diff := new(big.Int)

	for i := 0; i < maxIterations; i++ {
		step(tortoise, n)
		step(hare, n)
		step(hare, n)

		diff.Sub(hare, tortoise)
		d := gcd(diff, n)
		if d.Cmp(one) == 0 {
			continue
		}
		if d.Cmp(n) == 0 {
			// The sequences met; further iterations repeat the cycle.
			break
		}
		return d, nil
	}

	return nil, ntkit.NewError(op, ntkit.ErrNoFactor, "n = %s", n)
}

// step advances x to x^2 + 1 mod n in place.
func step(x, n *big.Int) {
	x.Mul(x, x)
	x.Add(x, one)
	x.Mod(x, n)
}

// PollardRhoFactorisation returns the complete prime factorization of n.
//
// Small primes are removed by trial division. Remaining cofactors are kept on
// a work stack: probable primes (Miller-Rabin) are recorded, perfect squares
// are split by their root, and other composites are split with the rho step
// and both halves pushed back. Every recorded factor has therefore passed a
// primality test.
func PollardRhoFactorisation(n *big.Int, maxIterations int, rnd ntkit.RandomSource) (Factorization, error) {
	const op = "factor.PollardRhoFactorisation"

	if n.Sign() <= 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "n = %s must be positive", n)
	}

	acc := newAccumulator()
	rest := trialDivide(new(big.Int).Set(n), acc)

	var stack []*big.Int
	if rest.Cmp(one) > 0 {
		stack = append(stack, rest)
	}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		prime, err := primality.Strong(c, primality.DefaultRounds, rnd)
		if err != nil {
			return nil, err
		}
		if prime {
			acc.add(c, 1)
			continue
		}

		root := new(big.Int).Sqrt(c)
		if new(big.Int).Mul(root, root).Cmp(c) == 0 {
			stack = append(stack, root, new(big.Int).Set(root))
			continue
		}

		d, err := split(c, maxIterations, rnd)
		if err != nil {
			return nil, ntkit.NewError(op, err, "cofactor %s of %s", c, n)
		}
		stack = append(stack, d, new(big.Int).Quo(c, d))
	}

	return acc.result(), nil
}

// Factor factorizes n with DefaultMaxIterations and the default random source.
func Factor(n *big.Int) (Factorization, error) {
	return PollardRhoFactorisation(n, DefaultMaxIterations, ntkit.DefaultRandom())
}

// split retries the rho step with fresh starting points.
func split(c *big.Int, maxIterations int, rnd ntkit.RandomSource) (*big.Int, error) {
	for attempt := 0; attempt < MaxRhoAttempts; attempt++ {
		d, err := PollardRhoDivision(c, maxIterations, rnd)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, ntkit.ErrNoFactor) {
			return nil, err
		}
	}
	return nil, ntkit.ErrNoFactor
}

// trialDivide strips every prime below trialDivisionBound from n, recording
// them in acc, and returns the remaining cofactor.
func trialDivide(n *big.Int, acc *accumulator) *big.Int {
	q, r := new(big.Int), new(big.Int)
	for _, p := range smallPrimes {
		if n.Cmp(one) == 0 {
			break
		}
		k := 0
		for {
			q.QuoRem(n, p, r)
			if r.Sign() != 0 {
				break
			}
			n.Set(q)
			k++
		}
		if k > 0 {
			acc.add(p, k)
		}
	}
	return n
}

// sieve returns the primes below limit.
func sieve(limit int) []*big.Int {
	composite := make([]bool, limit)
	var primes []*big.Int
	for i := 2; i < limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, big.NewInt(int64(i)))
		for j := i * i; j < limit; j += i {
			composite[j] = true
		}
	}
	return primes
}
