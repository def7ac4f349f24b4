package dlog

import (
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// BabyStepGiantStep returns some x with a^x = b (mod p) using Shanks'
// baby-step giant-step method in O(sqrt(p)) time and memory.
//
// With m = floor(sqrt(p)) + 1 the giant steps a^(m*i), i in [1, m], are
// tabulated (the smallest i wins on collisions) and the baby steps
// b*a^j, j in [0, m], are looked up; a hit gives x = m*i - j. Hits with
// x >= p are skipped, as are hits that fail a^x = b (possible for
// composite p when a is not invertible). ErrNoLogarithm is returned when b
// is not in the subgroup generated by a.
func BabyStepGiantStep(a, b, p *big.Int) (*big.Int, error) {
	const op = "dlog.BabyStepGiantStep"

	if p.Cmp(two) < 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "modulus %s must be at least 2", p)
	}

	m := new(big.Int).Sqrt(p)
	m.Add(m, one)
	am := new(big.Int).Exp(a, m, p)

	giant := make(map[string]*big.Int)
	cur := new(big.Int).Set(am)
	for i := big.NewInt(1); i.Cmp(m) <= 0; i.Add(i, one) {
		key := cur.Text(16)
		if _, ok := giant[key]; !ok {
			giant[key] = new(big.Int).Set(i)
		}
		cur.Mul(cur, am)
		cur.Mod(cur, p)
	}

	aModP := new(big.Int).Mod(a, p)
	target := new(big.Int).Mod(b, p)
	cur.Set(target)
	for j := big.NewInt(0); j.Cmp(m) <= 0; j.Add(j, one) {
		if i, ok := giant[cur.Text(16)]; ok {
			x := new(big.Int).Mul(i, m)
			x.Sub(x, j)
			if x.Cmp(p) < 0 && new(big.Int).Exp(aModP, x, p).Cmp(target) == 0 {
				return x, nil
			}
		}
		cur.Mul(cur, aModP)
		cur.Mod(cur, p)
	}

	return nil, ntkit.NewError(op, ntkit.ErrNoLogarithm, "%s is not a power of %s mod %s", b, a, p)
}
