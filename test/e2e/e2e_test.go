package e2e

import (
	"math/big"
	"testing"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/elgamal"
	"github.com/smallyu/go-ntkit/internal/nt/arith"
	"github.com/smallyu/go-ntkit/internal/nt/dlog"
	"github.com/smallyu/go-ntkit/internal/nt/factor"
	"github.com/smallyu/go-ntkit/internal/nt/modsqrt"
	"github.com/smallyu/go-ntkit/internal/nt/primality"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

func TestElGamalIntegration(t *testing.T) {
	system := elgamal.NewDefault(elgamal.WithRetries(64))
	curve := system.Curve()

	// Simulate 3 parties
	nParties := 3
	keys := make([]*elgamal.PrivateKey, nParties)

	// 1. Key Generation Phase
	for i := 0; i < nParties; i++ {
		key, err := system.GenerateKey()
		if err != nil {
			t.Fatalf("Party %d failed to generate key: %v", i, err)
		}
		keys[i] = key
	}

	// 2. Communication Phase (Simulated)
	// Party 0 sends an embedded message to Party 1
	msg := []byte("12345")
	m, err := system.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("Encoding failed: %v", err)
	}

	c, err := system.Encrypt(m, keys[1].Y)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	// Party 1 receives and decrypts
	decrypted, err := system.Decrypt(c, keys[1].D)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}
	plain, err := system.DecodeMessage(decrypted)
	if err != nil {
		t.Fatalf("Decoding failed: %v", err)
	}
	if string(plain) != string(msg) {
		t.Errorf("Decrypted message does not match original. Got %q, want %q", plain, msg)
	}

	// Party 2 holds the wrong key
	wrong, err := system.Decrypt(c, keys[2].D)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}
	if wrong.Equal(m) {
		t.Errorf("Party 2 recovered a message addressed to party 1")
	}

	// 3. Homomorphic Operation Phase
	// Enc(M1) + Enc(M2) componentwise decrypts to M1 + M2.
	m2, err := system.RandomPoint()
	if err != nil {
		t.Fatalf("Point sampling failed: %v", err)
	}
	c2, err := system.Encrypt(m2, keys[1].Y)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	cSum := &elgamal.Ciphertext{
		G: curve.Add(c.G, c2.G),
		H: curve.Add(c.H, c2.H),
	}
	decryptedSum, err := system.Decrypt(cSum, keys[1].D)
	if err != nil {
		t.Fatalf("Decryption of sum failed: %v", err)
	}

	expectedSum := curve.Add(m, m2)
	if !expectedSum.Equal(decryptedSum) {
		t.Errorf("Homomorphic addition failed. Got %s, want %s", decryptedSum, expectedSum)
	}
}

// TestCurveParameterAnalysis checks the default curve parameters with the
// number-theory toolkit.
func TestCurveParameterAnalysis(t *testing.T) {
	params := curves.DefaultParams()
	rnd := ntkit.DefaultRandom()

	for name, v := range map[string]*big.Int{"p": params.P, "n": params.N} {
		prime, err := primality.MillerRabin(v, primality.DefaultRounds, rnd)
		if err != nil {
			t.Fatalf("MillerRabin(%s) failed: %v", name, err)
		}
		if !prime {
			t.Errorf("%s = %s should be prime", name, v)
		}
	}

	// The generator's y is a square root of x^3 + ax + b.
	rhs := params.Evaluate(params.Gx)
	roots, err := modsqrt.Cipolla(rhs, params.P, modsqrt.DefaultRetries, rnd)
	if err != nil {
		t.Fatalf("Cipolla failed: %v", err)
	}
	if params.Gy.Cmp(roots.Low) != 0 && params.Gy.Cmp(roots.High) != 0 {
		t.Errorf("Gy = %s is not among the roots (%s, %s)", params.Gy, roots.Low, roots.High)
	}

	symbol, err := arith.Legendre(rhs, params.P)
	if err != nil {
		t.Fatalf("Legendre failed: %v", err)
	}
	if symbol != 1 {
		t.Errorf("Legendre(rhs, p) = %d, want 1", symbol)
	}

	// p = (2^128 - 3) / 76439, so 76439 p + 3 is a power of two.
	q := new(big.Int).Mul(params.P, big.NewInt(76439))
	q.Add(q, big.NewInt(3))
	f, err := factor.Factor(q)
	if err != nil {
		t.Fatalf("Factor failed: %v", err)
	}
	if f.Len() != 1 || f.Multiplicity(big.NewInt(2)) != 128 {
		t.Errorf("76439 p + 3 = %s, want 2^128", f)
	}
}

// TestSmallSubgroupLogarithm recovers a scalar on a toy curve by walking the
// multiples of G and cross-checks it with a multiplicative discrete log.
func TestSmallSubgroupLogarithm(t *testing.T) {
	curve, err := curves.New(curves.Params{
		Name: "toy11",
		P:    big.NewInt(11),
		A:    big.NewInt(1),
		B:    big.NewInt(6),
		Gx:   big.NewInt(2),
		Gy:   big.NewInt(7),
		N:    big.NewInt(13),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	secret := big.NewInt(9)
	y := curve.ScalarBaseMult(secret)

	var found *big.Int
	acc := curves.Infinity()
	for k := int64(0); k < 13; k++ {
		if acc.Equal(y) {
			found = big.NewInt(k)
			break
		}
		acc = curve.Add(acc, curve.Generator())
	}
	if found == nil || found.Cmp(secret) != 0 {
		t.Fatalf("walk recovered %v, want %s", found, secret)
	}

	// 2 generates (Z/13)*, and 2^9 = 5 mod 13.
	x, err := dlog.BabyStepGiantStep(big.NewInt(2), big.NewInt(5), big.NewInt(13))
	if err != nil {
		t.Fatalf("BabyStepGiantStep failed: %v", err)
	}
	if x.Cmp(secret) != 0 {
		t.Errorf("log_2(5) mod 13 = %s, want %s", x, secret)
	}
}

func TestThresholdCeremony(t *testing.T) {
	system := elgamal.New(curves.NewSecp256k1())

	// 1. Dealer generates and splits a key, committing before dealing
	key, err := system.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	tk, shares, err := system.SplitKey(key, 3, 5)
	if err != nil {
		t.Fatalf("SplitKey failed: %v", err)
	}
	com, err := system.CommitKey(tk)
	if err != nil {
		t.Fatalf("CommitKey failed: %v", err)
	}

	// 2. Parties check the opening and prove they hold their shares
	if !system.OpenKey(tk, com) {
		t.Fatal("Threshold key does not open its commitment")
	}
	proofs := make(map[int]*elgamal.OwnershipProof)
	for _, s := range shares {
		p, err := system.ProveOwnership(system.ShareKey(s))
		if err != nil {
			t.Fatalf("Party %d failed to prove ownership: %v", s.Index, err)
		}
		proofs[s.Index] = p
	}
	if bad := system.VerifyShares(tk, proofs); len(bad) != 0 {
		t.Fatalf("Ownership proofs rejected for parties %v", bad)
	}

	// 3. Someone encrypts to the joint key
	m, err := system.EncodeMessage([]byte("threshold"))
	if err != nil {
		t.Fatalf("EncodeMessage failed: %v", err)
	}
	ct, err := system.Encrypt(m, tk.Y)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// 4. Parties 2, 4 and 5 decrypt together
	var pds []*elgamal.PartialDecryption
	for _, i := range []int{1, 3, 4} {
		pd, err := system.PartialDecrypt(shares[i], ct)
		if err != nil {
			t.Fatalf("Party %d failed to decrypt: %v", shares[i].Index, err)
		}
		pds = append(pds, pd)
	}
	got, err := system.Combine(tk, ct, pds)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	plain, err := system.DecodeMessage(got)
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if string(plain) != "threshold" {
		t.Fatalf("Expected %q, got %q", "threshold", plain)
	}

	// 5. The full key decrypts the same ciphertext
	direct, err := system.Decrypt(ct, key.D)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !direct.Equal(got) {
		t.Fatal("Threshold and direct decryption disagree")
	}
}
