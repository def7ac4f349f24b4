package elgamal

import (
	"context"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/commitment"
	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/polynomial"
	"github.com/smallyu/go-ntkit/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ntkit/internal/logging"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// ThresholdKey is the public side of a private key split with SplitKey.
type ThresholdKey struct {
	Threshold int
	Y         curves.Point
	// Verification[i-1] is share i's public point s_i * G.
	Verification []curves.Point
}

// KeyShare is party Index's Shamir share s_i = f(Index) of a private key.
type KeyShare struct {
	Index int
	Value *big.Int
}

// PartialDecryption is s_i * g together with a proof that it used the same
// s_i as the verification point.
type PartialDecryption struct {
	Index int
	D     curves.Point
	Proof *schnorr.EqualityProof
}

// SplitKey deals key into parties shares so that any threshold of them can
// decrypt together. The dealer learns every share.
func (c *Cryptosystem) SplitKey(key *PrivateKey, threshold, parties int) (*ThresholdKey, []KeyShare, error) {
	const op = "elgamal.SplitKey"

	n := c.params.N
	if key == nil || key.D == nil {
		return nil, nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "nil key")
	}
	if threshold < 1 || threshold > parties || big.NewInt(int64(parties)).Cmp(n) >= 0 {
		return nil, nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "threshold %d of %d parties", threshold, parties)
	}

	poly, err := polynomial.New(n, threshold-1, key.D, c.rnd)
	if err != nil {
		return nil, nil, err
	}

	tk := &ThresholdKey{
		Threshold:    threshold,
		Y:            c.curve.ScalarBaseMult(poly.Coefficients[0]),
		Verification: make([]curves.Point, parties),
	}
	shares := make([]KeyShare, parties)
	for i := 1; i <= parties; i++ {
		s := poly.Evaluate(big.NewInt(int64(i)))
		shares[i-1] = KeyShare{Index: i, Value: s}
		tk.Verification[i-1] = c.curve.ScalarBaseMult(s)
	}

	c.logger.Debug(context.Background(), "split key", "threshold", threshold, "parties", parties, logging.Redacted("shares"))
	return tk, shares, nil
}

// PartialDecrypt computes share's contribution to decrypting ct.
func (c *Cryptosystem) PartialDecrypt(share KeyShare, ct *Ciphertext) (*PartialDecryption, error) {
	const op = "elgamal.PartialDecrypt"

	if ct == nil || share.Value == nil {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "nil ciphertext or share")
	}
	if !c.curve.IsOnCurve(ct.G) {
		return nil, ntkit.NewError(op, ntkit.ErrNotOnCurve, "ephemeral point %s", ct.G)
	}

	d := c.curve.ScalarMult(share.Value, ct.G)
	proof, err := schnorr.ProveEqual(c.curve, share.Value, ct.G, c.curve.ScalarBaseMult(share.Value), d, c.rnd)
	if err != nil {
		return nil, err
	}
	return &PartialDecryption{Index: share.Index, D: d, Proof: proof}, nil
}

// VerifyPartial checks pd against the verification point of its share.
func (c *Cryptosystem) VerifyPartial(tk *ThresholdKey, ct *Ciphertext, pd *PartialDecryption) bool {
	if tk == nil || ct == nil || pd == nil || pd.Index < 1 || pd.Index > len(tk.Verification) {
		return false
	}
	return pd.Proof.Verify(c.curve, ct.G, tk.Verification[pd.Index-1], pd.D)
}

// Combine recovers the plaintext point from at least tk.Threshold valid
// partial decryptions. Invalid or duplicate partials are skipped.
func (c *Cryptosystem) Combine(tk *ThresholdKey, ct *Ciphertext, partials []*PartialDecryption) (curves.Point, error) {
	const op = "elgamal.Combine"

	if tk == nil || ct == nil {
		return curves.Point{}, ntkit.NewError(op, ntkit.ErrInvalidArgument, "nil threshold key or ciphertext")
	}
	if !c.curve.IsOnCurve(ct.H) {
		return curves.Point{}, ntkit.NewError(op, ntkit.ErrNotOnCurve, "masked point %s", ct.H)
	}

	seen := make(map[int]bool)
	var xs []*big.Int
	var ds []curves.Point
	for _, pd := range partials {
		if len(xs) == tk.Threshold {
			break
		}
		if pd == nil || seen[pd.Index] {
			continue
		}
		if !c.VerifyPartial(tk, ct, pd) {
			c.logger.Warn(context.Background(), "rejected partial decryption", "index", pd.Index)
			continue
		}
		seen[pd.Index] = true
		xs = append(xs, big.NewInt(int64(pd.Index)))
		ds = append(ds, pd.D)
	}
	if len(xs) < tk.Threshold {
		return curves.Point{}, ntkit.NewError(op, ntkit.ErrInvalidArgument, "%d valid partial decryptions, need %d", len(xs), tk.Threshold)
	}

	// k*g = sum of lambda_i * s_i * g
	shared := curves.Infinity()
	zero := new(big.Int)
	for i := range xs {
		l, err := polynomial.LagrangeCoefficient(xs, i, zero, c.params.N)
		if err != nil {
			return curves.Point{}, err
		}
		shared = c.curve.Add(shared, c.curve.ScalarMult(l, ds[i]))
	}
	return c.curve.Add(ct.H, c.curve.Neg(shared)), nil
}

// CommitKey binds the dealer to tk before any share is handed out. Parties
// check the opening with OpenKey once tk is published.
func (c *Cryptosystem) CommitKey(tk *ThresholdKey) (*commitment.Commitment, error) {
	const op = "elgamal.CommitKey"
	if tk == nil {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "nil threshold key")
	}
	parts, ok := c.keyParts(tk)
	if !ok {
		return nil, ntkit.NewError(op, ntkit.ErrNotOnCurve, "threshold key has a point off %s", c.params.Name)
	}
	return commitment.New(c.rnd, parts...)
}

// OpenKey reports whether com opens to tk.
func (c *Cryptosystem) OpenKey(tk *ThresholdKey, com *commitment.Commitment) bool {
	if tk == nil || com == nil {
		return false
	}
	parts, ok := c.keyParts(tk)
	return ok && commitment.Verify(com.C, com.D, parts...)
}

// keyParts encodes tk for commitment. It fails if any point is off the
// curve, which includes coordinates outside [0, p).
func (c *Cryptosystem) keyParts(tk *ThresholdKey) ([][]byte, bool) {
	points := append([]curves.Point{tk.Y}, tk.Verification...)
	parts := [][]byte{
		[]byte(c.params.Name),
		big.NewInt(int64(tk.Threshold)).Bytes(),
	}
	for _, pt := range points {
		if !c.curve.IsOnCurve(pt) {
			return nil, false
		}
		parts = append(parts, c.pointBytes(pt))
	}
	return parts, true
}

// pointBytes writes pt at the fixed width of p; infinity is empty.
// Coordinates must already lie in [0, p).
func (c *Cryptosystem) pointBytes(pt curves.Point) []byte {
	x, y, ok := pt.Coordinates()
	if !ok {
		return nil
	}
	width := (c.params.P.BitLen() + 7) / 8
	buf := make([]byte, 2*width)
	x.FillBytes(buf[:width])
	y.FillBytes(buf[width:])
	return buf
}
