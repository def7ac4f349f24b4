package schnorr

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

var one = big.NewInt(1)

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
// Proves knowledge of x such that X = x * G.
type Proof struct {
	R curves.Point // Commitment R = k * G
	S *big.Int     // Response s = k + e * x
}

// EqualityProof is a Chaum-Pedersen proof that X = x * G and Y = x * H
// share the same x.
type EqualityProof struct {
	R1 curves.Point // k * G
	R2 curves.Point // k * H
	S  *big.Int     // k + e * x
}

// Prove generates a Schnorr proof for the secret x, public key X = x*G.
func Prove(curve curves.Curve, x *big.Int, X curves.Point, rnd ntkit.RandomSource) (*Proof, error) {
	if x == nil {
		return nil, errors.New("schnorr: secret cannot be nil")
	}
	if !curve.IsOnCurve(X) {
		return nil, ntkit.NewError("schnorr.Prove", ntkit.ErrNotOnCurve, "public key %s", X)
	}
	n := curve.Params().N

	// 1. Generate random nonce k
	k, err := nonce(n, rnd)
	if err != nil {
		return nil, err
	}

	// 2. Compute R = k * G
	R := curve.ScalarBaseMult(k)

	// 3. Compute challenge e = H(G, X, R)
	e := challenge(curve, "schnorr/dlog", curve.Generator(), X, R)

	// 4. Compute s = k + e * x mod n
	return &Proof{R: R, S: response(k, e, x, n)}, nil
}

// Verify checks the validity of the Schnorr proof for public key X.
func (p *Proof) Verify(curve curves.Curve, X curves.Point) bool {
	if p == nil || p.S == nil || !curve.IsOnCurve(X) || !curve.IsOnCurve(p.R) {
		return false
	}
	n := curve.Params().N
	if p.S.Sign() < 0 || p.S.Cmp(n) >= 0 {
		return false
	}

	e := challenge(curve, "schnorr/dlog", curve.Generator(), X, p.R)

	// s*G = R + e*X
	lhs := curve.ScalarBaseMult(p.S)
	rhs := curve.Add(p.R, curve.ScalarMult(e, X))
	return lhs.Equal(rhs)
}

// ProveEqual proves that X = x*G and Y = x*H.
func ProveEqual(curve curves.Curve, x *big.Int, H, X, Y curves.Point, rnd ntkit.RandomSource) (*EqualityProof, error) {
	if x == nil {
		return nil, errors.New("schnorr: secret cannot be nil")
	}
	for _, pt := range []curves.Point{H, X, Y} {
		if !curve.IsOnCurve(pt) {
			return nil, ntkit.NewError("schnorr.ProveEqual", ntkit.ErrNotOnCurve, "point %s", pt)
		}
	}
	n := curve.Params().N

	k, err := nonce(n, rnd)
	if err != nil {
		return nil, err
	}
	R1 := curve.ScalarBaseMult(k)
	R2 := curve.ScalarMult(k, H)

	e := challenge(curve, "schnorr/dleq", curve.Generator(), H, X, Y, R1, R2)
	return &EqualityProof{R1: R1, R2: R2, S: response(k, e, x, n)}, nil
}

// Verify checks that X and Y share a discrete logarithm to bases G and H.
func (p *EqualityProof) Verify(curve curves.Curve, H, X, Y curves.Point) bool {
	if p == nil || p.S == nil {
		return false
	}
	for _, pt := range []curves.Point{H, X, Y, p.R1, p.R2} {
		if !curve.IsOnCurve(pt) {
			return false
		}
	}
	n := curve.Params().N
	if p.S.Sign() < 0 || p.S.Cmp(n) >= 0 {
		return false
	}

	e := challenge(curve, "schnorr/dleq", curve.Generator(), H, X, Y, p.R1, p.R2)

	// s*G = R1 + e*X and s*H = R2 + e*Y
	if !curve.ScalarBaseMult(p.S).Equal(curve.Add(p.R1, curve.ScalarMult(e, X))) {
		return false
	}
	return curve.ScalarMult(p.S, H).Equal(curve.Add(p.R2, curve.ScalarMult(e, Y)))
}

func nonce(n *big.Int, rnd ntkit.RandomSource) (*big.Int, error) {
	if n.Cmp(one) <= 0 {
		return nil, errors.New("schnorr: group order too small")
	}
	return rnd.Int(one, new(big.Int).Sub(n, one))
}

func response(k, e, x, n *big.Int) *big.Int {
	s := new(big.Int).Mul(e, x)
	s.Add(s, k)
	return s.Mod(s, n)
}

// challenge computes H(tag, curve, points...) mod n. Coordinates are
// written at the fixed width of p; infinity is a single zero byte.
func challenge(curve curves.Curve, tag string, points ...curves.Point) *big.Int {
	params := curve.Params()
	width := (params.P.BitLen() + 7) / 8

	h := sha256.New()
	h.Write([]byte(tag))
	h.Write([]byte{0})
	h.Write([]byte(params.Name))
	h.Write([]byte{0})
	for _, pt := range points {
		x, y, ok := pt.Coordinates()
		if !ok {
			h.Write([]byte{0})
			continue
		}
		h.Write([]byte{1})
		h.Write(x.FillBytes(make([]byte, width)))
		h.Write(y.FillBytes(make([]byte, width)))
	}

	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, params.N)
}
