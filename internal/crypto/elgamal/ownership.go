package elgamal

import (
	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// OwnershipProof shows that its holder knows the private scalar behind Y.
// This is a non-interactive proof using the Fiat-Shamir heuristic.
type OwnershipProof struct {
	Y     curves.Point
	Proof *schnorr.Proof
}

// ProveOwnership generates a proof of knowledge of key.D.
func (c *Cryptosystem) ProveOwnership(key *PrivateKey) (*OwnershipProof, error) {
	if key == nil || key.D == nil {
		return nil, ntkit.NewError("elgamal.ProveOwnership", ntkit.ErrInvalidArgument, "nil key")
	}
	proof, err := schnorr.Prove(c.curve, key.D, key.Y, c.rnd)
	if err != nil {
		return nil, err
	}
	return &OwnershipProof{Y: key.Y, Proof: proof}, nil
}

// VerifyOwnership checks proof against the expected public point y.
func (c *Cryptosystem) VerifyOwnership(y curves.Point, proof *OwnershipProof) bool {
	if proof == nil || proof.Proof == nil || !proof.Y.Equal(y) {
		return false
	}
	return proof.Proof.Verify(c.curve, y)
}

// VerifyShares checks a proof for every share of tk and returns the indices
// whose proof is missing or invalid. proofs is keyed by share index.
// A nil tk has no shares and yields nil.
func (c *Cryptosystem) VerifyShares(tk *ThresholdKey, proofs map[int]*OwnershipProof) []int {
	if tk == nil {
		return nil
	}
	var bad []int
	for i, v := range tk.Verification {
		if !c.VerifyOwnership(v, proofs[i+1]) {
			bad = append(bad, i+1)
		}
	}
	return bad
}

// ShareKey returns share as a PrivateKey so its holder can prove ownership.
func (c *Cryptosystem) ShareKey(share KeyShare) *PrivateKey {
	return &PrivateKey{
		PublicKey: PublicKey{Curve: c.curve, Y: c.curve.ScalarBaseMult(share.Value)},
		D:         share.Value,
	}
}
