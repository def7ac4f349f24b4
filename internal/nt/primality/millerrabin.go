package primality

import (
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// DefaultRounds bounds the false-positive probability by 4^-DefaultRounds.
const DefaultRounds = 20

var (
	zero  = big.NewInt(0)
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)

	// Bases are drawn from [1, a mod baseWindow].
	baseWindow = big.NewInt(1_000_000)
)

// MillerRabin reports whether a is probably prime after the given number of
// rounds with random bases drawn from [1, a mod 1000000]. A false result is
// always correct. The narrow window makes some composites pass every round,
// e.g. any a = 1 mod 1000000 where only base 1 is tried; use Strong when the
// verdict must be reliable.
// The error is non-nil only when rnd fails.
func MillerRabin(a *big.Int, rounds int, rnd ntkit.RandomSource) (bool, error) {
	if done, prime := trivial(a); done {
		return prime, nil
	}

	// A base of 0 mod a would flag a prime as composite, so the window is
	// clamped to [1, a-1].
	aMinus1 := new(big.Int).Sub(a, one)
	hi := new(big.Int).Rem(a, baseWindow)
	if hi.Sign() == 0 || hi.Cmp(aMinus1) > 0 {
		hi.Set(aMinus1)
	}
	return runRounds(a, rounds, one, hi, rnd)
}

// Strong is MillerRabin with bases drawn from [2, a-2]. A true result is
// wrong with probability at most 4^-rounds.
func Strong(a *big.Int, rounds int, rnd ntkit.RandomSource) (bool, error) {
	if done, prime := trivial(a); done {
		return prime, nil
	}
	// a >= 5 here, so the window is never empty.
	return runRounds(a, rounds, two, new(big.Int).Sub(a, two), rnd)
}

// trivial settles a < 2 and multiples of 2 or 3.
func trivial(a *big.Int) (done, prime bool) {
	if a.Cmp(two) == 0 || a.Cmp(three) == 0 {
		return true, true
	}
	if a.Cmp(two) < 0 {
		return true, false
	}
	if new(big.Int).Rem(a, two).Sign() == 0 || new(big.Int).Rem(a, three).Sign() == 0 {
		return true, false
	}
	return false, false
}

func runRounds(a *big.Int, rounds int, lo, hi *big.Int, rnd ntkit.RandomSource) (bool, error) {
	// a - 1 = 2^s * d, d odd
	aMinus1 := new(big.Int).Sub(a, one)
	s := aMinus1.TrailingZeroBits()
	d := new(big.Int).Rsh(aMinus1, s)

	for i := 0; i < rounds; i++ {
		k, err := rnd.Int(lo, hi)
		if err != nil {
			return false, err
		}
		if !witnessPasses(k, d, s, a, aMinus1) {
			return false, nil
		}
	}
	return true, nil
}

// witnessPasses runs one Miller-Rabin round with base k.
func witnessPasses(k, d *big.Int, s uint, a, aMinus1 *big.Int) bool {
	b := new(big.Int).Exp(k, d, a)
	if b.Cmp(one) == 0 || b.Cmp(aMinus1) == 0 {
		return true
	}
	for j := uint(1); j < s; j++ {
		b.Mul(b, b)
		b.Mod(b, a)
		if b.Cmp(aMinus1) == 0 {
			return true
		}
		if b.Cmp(one) == 0 || b.Cmp(zero) == 0 {
			// Nontrivial square root of 1 found; -1 can no longer appear.
			return false
		}
	}
	return false
}

// IsProbablePrime runs DefaultRounds rounds of Strong with the default random
// source. A failing entropy source is reported as not prime.
func IsProbablePrime(a *big.Int) bool {
	ok, err := Strong(a, DefaultRounds, ntkit.DefaultRandom())
	return err == nil && ok
}
