package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ntkit/internal/nt/factor"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

func TestEulerGolden(t *testing.T) {
	tests := []struct {
		n, want int64
	}{
		{1, 1},
		{2, 1},
		{33, 20},
		{9, 4},  // (3-1)^2
		{12, 2}, // (2-1)^2 * (3-1)
		{97, 96},
	}
	for _, tt := range tests {
		got, err := Euler(big.NewInt(tt.n))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Int64(), "Euler(%d)", tt.n)
	}
}

func TestTotient(t *testing.T) {
	tests := []struct {
		n, want int64
	}{
		{1, 1},
		{9, 6},
		{33, 20},
		{36, 12},
		{1024, 512},
	}
	for _, tt := range tests {
		got, err := Totient(big.NewInt(tt.n))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Int64(), "Totient(%d)", tt.n)
	}
}

func TestEulerMatchesTotientOnSquarefree(t *testing.T) {
	for v := int64(1); v < 500; v++ {
		f, err := factor.Factor(big.NewInt(v))
		require.NoError(t, err)
		if MobiusOf(f) == 0 {
			continue
		}
		assert.Equal(t, 0, EulerOf(f).Cmp(TotientOf(f)), "n = %d", v)
	}
}

func TestMobiusGolden(t *testing.T) {
	tests := []struct {
		n    int64
		want int
	}{
		{1, 1},
		{2, -1},
		{6, 1},
		{16, 0},
		{30, -1},
		{210, 1},
		{12, 0},
	}
	for _, tt := range tests {
		got, err := Mobius(big.NewInt(tt.n))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Mobius(%d)", tt.n)
	}
}

func TestNonPositiveArguments(t *testing.T) {
	_, err := Euler(big.NewInt(0))
	assert.ErrorIs(t, err, ntkit.ErrInvalidArgument)

	_, err = Totient(big.NewInt(-4))
	assert.ErrorIs(t, err, ntkit.ErrInvalidArgument)

	_, err = Mobius(big.NewInt(0))
	assert.ErrorIs(t, err, ntkit.ErrInvalidArgument)
}

func TestLegendreRange(t *testing.T) {
	for _, pv := range []int64{3, 5, 7, 11, 13, 17, 19, 23, 101} {
		p := big.NewInt(pv)
		pm1 := big.NewInt(pv - 1)
		for av := -pv; av <= 2*pv; av++ {
			a := big.NewInt(av)

			c := EulerCriterion(a, p)
			assert.True(t, c.Sign() == 0 || c.Cmp(one) == 0 || c.Cmp(pm1) == 0,
				"EulerCriterion(%d, %d) = %s", av, pv, c)

			s, err := Legendre(a, p)
			require.NoError(t, err)
			assert.Equal(t, big.Jacobi(new(big.Int).Mod(a, p), p), s, "Legendre(%d, %d)", av, pv)
		}
	}
}

func TestLegendreKnownValues(t *testing.T) {
	s, err := Legendre(big.NewInt(2), big.NewInt(7)) // 3^2 = 9 = 2 mod 7
	require.NoError(t, err)
	assert.Equal(t, 1, s)

	s, err = Legendre(big.NewInt(3), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, -1, s)

	s, err = Legendre(big.NewInt(14), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, 0, s)
}

func TestLegendreRejectsNonOddPrime(t *testing.T) {
	for _, p := range []int64{-7, 0, 1, 2, 9, 15, 561} {
		_, err := Legendre(big.NewInt(3), big.NewInt(p))
		assert.ErrorIs(t, err, ntkit.ErrInvalidArgument, "p = %d", p)
	}
	assert.Error(t, CheckOddPrime(big.NewInt(21)))
	assert.NoError(t, CheckOddPrime(big.NewInt(23)))
}

func TestComposite1Mod1e6(t *testing.T) {
	n := big.NewInt(10663000001) // 1009 * 10567889

	mu, err := Mobius(n)
	require.NoError(t, err)
	assert.Equal(t, 1, mu)

	phi, err := Totient(n)
	require.NoError(t, err)
	assert.Equal(t, "10652431104", phi.String())

	_, err = Legendre(big.NewInt(2), big.NewInt(1000001))
	assert.ErrorIs(t, err, ntkit.ErrInvalidArgument)
}

func TestJacobi(t *testing.T) {
	tests := []struct {
		a, n int64
		want int
	}{
		{5, 21, 1},
		{2, 15, 1},
		{7, 1, 1},
		{3, 9, 0},
		{2, 9, 1},
		{2, 3, -1},
	}
	for _, tt := range tests {
		got, err := Jacobi(big.NewInt(tt.a), big.NewInt(tt.n))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Jacobi(%d, %d)", tt.a, tt.n)
	}
}

func TestJacobiMatchesStdlib(t *testing.T) {
	for nv := int64(1); nv < 200; nv += 2 {
		n := big.NewInt(nv)
		for av := int64(0); av < 60; av++ {
			a := big.NewInt(av)
			got, err := Jacobi(a, n)
			require.NoError(t, err)
			assert.Equal(t, big.Jacobi(a, n), got, "Jacobi(%d, %d)", av, nv)
		}
	}
}

func TestJacobiRejectsEvenModulus(t *testing.T) {
	_, err := Jacobi(big.NewInt(3), big.NewInt(10))
	assert.ErrorIs(t, err, ntkit.ErrInvalidArgument)

	_, err = Jacobi(big.NewInt(3), big.NewInt(-3))
	assert.ErrorIs(t, err, ntkit.ErrInvalidArgument)
}
