package factor

import (
	"math/big"
	"sort"
	"strings"
)

// PrimePower is a prime together with its multiplicity.
type PrimePower struct {
	Prime    *big.Int
	Exponent int
}

// Factorization maps primes to multiplicities. Entries are sorted by prime
// and every prime appears once, so iteration order is deterministic.
type Factorization []PrimePower

// Len returns the number of distinct primes.
func (f Factorization) Len() int {
	return len(f)
}

// Multiplicity returns the exponent of p, or 0 if p does not divide.
func (f Factorization) Multiplicity(p *big.Int) int {
	i := sort.Search(len(f), func(i int) bool { return f[i].Prime.Cmp(p) >= 0 })
	if i < len(f) && f[i].Prime.Cmp(p) == 0 {
		return f[i].Exponent
	}
	return 0
}

// Product multiplies the factorization back out.
func (f Factorization) Product() *big.Int {
	result := big.NewInt(1)
	for _, fc := range f {
		pk := new(big.Int).Exp(fc.Prime, big.NewInt(int64(fc.Exponent)), nil)
		result.Mul(result, pk)
	}
	return result
}

// String lists each prime as many times as it divides, e.g. "2 3 13 13".
func (f Factorization) String() string {
	var sb strings.Builder
	for _, fc := range f {
		p := fc.Prime.String()
		for j := 0; j < fc.Exponent; j++ {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p)
		}
	}
	return sb.String()
}

// accumulator collects primes keyed by their decimal form.
type accumulator struct {
	primes map[string]*big.Int
	counts map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		primes: make(map[string]*big.Int),
		counts: make(map[string]int),
	}
}

func (a *accumulator) add(p *big.Int, k int) {
	key := p.String()
	if _, ok := a.primes[key]; !ok {
		a.primes[key] = new(big.Int).Set(p)
	}
	a.counts[key] += k
}

func (a *accumulator) result() Factorization {
	out := make(Factorization, 0, len(a.primes))
	for key, p := range a.primes {
		out = append(out, PrimePower{Prime: p, Exponent: a.counts[key]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prime.Cmp(out[j].Prime) < 0 })
	return out
}
