package curves

import (
	"math/big"

	"filippo.io/edwards25519"

	"github.com/smallyu/go-ntkit/internal/nt/modsqrt"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// montgomeryA is the A coefficient of Curve25519, v^2 = u^3 + A u^2 + u.
const montgomeryA = 486662

// ed25519OrderLow is l - 2^252 for the prime subgroup order l.
const ed25519OrderLow = "27742317777372353535851937790883648493"

func ed25519Order() *big.Int {
	l, _ := new(big.Int).SetString(ed25519OrderLow, 10)
	return l.Add(l, new(big.Int).Lsh(one, 252))
}

func field25519() *big.Int {
	p := new(big.Int).Lsh(one, 255)
	return p.Sub(p, big.NewInt(19))
}

// edwardsToMontgomeryU maps an encoded edwards25519 point to the
// u-coordinate of the birationally equivalent Montgomery point,
// u = (1 + y) / (1 - y).
func edwardsToMontgomeryU(enc []byte) (*big.Int, error) {
	const op = "curves.edwardsToMontgomeryU"
	if len(enc) != 32 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "encoding is %d bytes", len(enc))
	}

	// Little-endian y with the x sign bit cleared.
	be := make([]byte, 32)
	for i := range enc {
		be[31-i] = enc[i]
	}
	be[0] &= 0x7f
	y := new(big.Int).SetBytes(be)

	p := field25519()
	den := new(big.Int).Sub(one, y)
	den.Mod(den, p)
	if den.Sign() == 0 {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "identity has no finite image")
	}
	u := new(big.Int).Add(one, y)
	u.Mul(u, den.ModInverse(den, p))
	return u.Mod(u, p), nil
}

// montgomeryToWeierstrassX shifts u by A/3.
func montgomeryToWeierstrassX(u, p *big.Int) *big.Int {
	third := new(big.Int).ModInverse(three, p)
	x := new(big.Int).Mul(big.NewInt(montgomeryA), third)
	x.Add(x, u)
	return x.Mod(x, p)
}

// Wei25519Params derives the short Weierstrass form of Curve25519 with
// a = (3 - A^2) / 3 and b = (2A^3 - 9A) / 27. The generator is the image of
// the edwards25519 base point; its y is the smaller square root.
func Wei25519Params() (Params, error) {
	p := field25519()
	bigA := big.NewInt(montgomeryA)
	third := new(big.Int).ModInverse(three, p)

	a := new(big.Int).Mul(bigA, bigA)
	a.Sub(three, a)
	a.Mul(a, third)
	a.Mod(a, p)

	b := new(big.Int).Mul(bigA, bigA)
	b.Mul(b, bigA)
	b.Mul(b, two)
	b.Sub(b, new(big.Int).Mul(bigA, big.NewInt(9)))
	b.Mul(b, new(big.Int).ModInverse(big.NewInt(27), p))
	b.Mod(b, p)

	u, err := edwardsToMontgomeryU(edwards25519.NewGeneratorPoint().Bytes())
	if err != nil {
		return Params{}, err
	}

	// v^2 = u^3 + A u^2 + u
	v2 := new(big.Int).Add(u, bigA)
	v2.Mul(v2, u)
	v2.Add(v2, one)
	v2.Mul(v2, u)
	v2.Mod(v2, p)
	roots, err := modsqrt.Cipolla(v2, p, modsqrt.DefaultRetries, ntkit.DefaultRandom())
	if err != nil {
		return Params{}, err
	}

	return Params{
		Name: Wei25519Name,
		P:    p,
		A:    a,
		B:    b,
		Gx:   montgomeryToWeierstrassX(u, p),
		Gy:   roots.Low,
		N:    ed25519Order(),
	}, nil
}

// NewWei25519 returns Curve25519 in short Weierstrass form.
func NewWei25519() (Curve, error) {
	params, err := Wei25519Params()
	if err != nil {
		return nil, err
	}
	return New(params)
}
