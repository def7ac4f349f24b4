package polynomial

import (
	"errors"
	"math/big"
	"testing"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

func TestNew(t *testing.T) {
	q := curves.Secp256k1Params().N
	rnd := ntkit.DefaultRandom()

	t.Run("with random secret", func(t *testing.T) {
		poly, err := New(q, 2, nil, rnd)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}

		if len(poly.Coefficients) != 3 {
			t.Errorf("Expected 3 coefficients for degree 2, got %d", len(poly.Coefficients))
		}

		// All coefficients should be non-nil and within range
		for i, c := range poly.Coefficients {
			if c == nil {
				t.Fatalf("Coefficient %d is nil", i)
			}
			if c.Sign() < 0 || c.Cmp(q) >= 0 {
				t.Errorf("Coefficient %d is out of range", i)
			}
		}
		if poly.Coefficients[2].Sign() == 0 {
			t.Errorf("Leading coefficient is zero")
		}
	})

	t.Run("with provided secret", func(t *testing.T) {
		secret := big.NewInt(12345)
		poly, err := New(q, 2, secret, rnd)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}

		if poly.Coefficients[0].Cmp(secret) != 0 {
			t.Errorf("Expected a_0 = %s, got %s", secret, poly.Coefficients[0])
		}

		// The polynomial keeps its own copy.
		secret.SetInt64(1)
		if poly.Coefficients[0].Int64() != 12345 {
			t.Errorf("Secret aliased into polynomial")
		}
	})

	t.Run("degree 0", func(t *testing.T) {
		secret := big.NewInt(999)
		poly, err := New(q, 0, secret, rnd)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}

		if poly.Degree() != 0 {
			t.Errorf("Expected degree 0, got %d", poly.Degree())
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		if _, err := New(q, -1, nil, rnd); err == nil {
			t.Errorf("Expected error for negative degree")
		}
		if _, err := New(big.NewInt(1), 1, nil, rnd); err == nil {
			t.Errorf("Expected error for modulus 1")
		}
	})
}

func TestEvaluate(t *testing.T) {
	q := curves.Secp256k1Params().N

	t.Run("constant polynomial", func(t *testing.T) {
		// f(x) = 5
		poly := &Polynomial{Coefficients: []*big.Int{big.NewInt(5)}, Modulus: q}

		for _, x := range []int64{0, 100} {
			if r := poly.Evaluate(big.NewInt(x)); r.Cmp(big.NewInt(5)) != 0 {
				t.Errorf("f(%d) = %s, expected 5", x, r)
			}
		}
	})

	t.Run("quadratic polynomial", func(t *testing.T) {
		// f(x) = 1 + 2x + 3x^2
		poly := &Polynomial{
			Coefficients: []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
			Modulus:      q,
		}

		for x, want := range map[int64]int64{0: 1, 1: 6, 2: 17, 3: 34} {
			if r := poly.Evaluate(big.NewInt(x)); r.Cmp(big.NewInt(want)) != 0 {
				t.Errorf("f(%d) = %s, expected %d", x, r, want)
			}
		}
	})

	t.Run("modular reduction", func(t *testing.T) {
		// f(x) = q-1 + 2x
		qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
		poly := &Polynomial{Coefficients: []*big.Int{qMinus1, big.NewInt(2)}, Modulus: q}

		// f(1) = (q-1) + 2 = q+1 mod q = 1
		if r := poly.Evaluate(big.NewInt(1)); r.Cmp(big.NewInt(1)) != 0 {
			t.Errorf("f(1) = %s, expected 1 (after mod q)", r)
		}
	})
}

func TestEvaluateMulti(t *testing.T) {
	// f(x) = 5 + 3x over Z_13
	poly := &Polynomial{
		Coefficients: []*big.Int{big.NewInt(5), big.NewInt(3)},
		Modulus:      big.NewInt(13),
	}

	xs := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(2), big.NewInt(10)}
	expected := []int64{5, 8, 11, 9} // f(10) = 35 = 9 mod 13

	results := poly.EvaluateMulti(xs)
	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}
	for i, r := range results {
		if r.Int64() != expected[i] {
			t.Errorf("f(%s) = %s, expected %d", xs[i], r, expected[i])
		}
	}
}

func TestLagrangeCoefficient(t *testing.T) {
	q := curves.Secp256k1Params().N
	xs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}

	// L_1(0) = 3, L_2(0) = -3, L_3(0) = 1
	want := []*big.Int{big.NewInt(3), new(big.Int).Sub(q, big.NewInt(3)), big.NewInt(1)}
	for i := range xs {
		l, err := LagrangeCoefficient(xs, i, big.NewInt(0), q)
		if err != nil {
			t.Fatalf("LagrangeCoefficient(%d) failed: %v", i, err)
		}
		if l.Cmp(want[i]) != 0 {
			t.Errorf("L_%d(0) = %s, expected %s", i+1, l, want[i])
		}
	}

	_, err := LagrangeCoefficient([]*big.Int{big.NewInt(1), big.NewInt(1)}, 0, big.NewInt(0), q)
	if !errors.Is(err, ntkit.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for duplicate x, got %v", err)
	}
	_, err = LagrangeCoefficient(xs, 3, big.NewInt(0), q)
	if !errors.Is(err, ntkit.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for bad index, got %v", err)
	}
}

func TestShamirSecretSharing(t *testing.T) {
	q := curves.DefaultParams().N
	rnd := ntkit.DefaultRandom()

	secret := big.NewInt(42)
	poly, err := New(q, 2, secret, rnd) // degree 2 means 3 shares needed
	if err != nil {
		t.Fatalf("Failed to create polynomial: %v", err)
	}

	xs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4), big.NewInt(5)}
	ys := poly.EvaluateMulti(xs)

	// Any three shares reconstruct the secret.
	for _, subset := range [][]int{{0, 1, 2}, {0, 2, 4}, {1, 3, 4}} {
		var sx, sy []*big.Int
		for _, i := range subset {
			sx = append(sx, xs[i])
			sy = append(sy, ys[i])
		}
		got, err := Interpolate(sx, sy, big.NewInt(0), q)
		if err != nil {
			t.Fatalf("Interpolate failed: %v", err)
		}
		if got.Cmp(secret) != 0 {
			t.Errorf("Shares %v reconstructed %s, expected %s", subset, got, secret)
		}
	}

	// Interpolating at a share's own x returns that share.
	got, err := Interpolate(xs[:3], ys[:3], xs[4], q)
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if got.Cmp(ys[4]) != 0 {
		t.Errorf("f(5) = %s, expected %s", got, ys[4])
	}

	if _, err := Interpolate(xs[:2], ys[:3], big.NewInt(0), q); err == nil {
		t.Errorf("Expected error for mismatched lengths")
	}
}
