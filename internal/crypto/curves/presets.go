package curves

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// Names of the built-in curves.
const (
	Secp112r1Name = "secp112r1"
	Secp256k1Name = "secp256k1"
	Wei25519Name  = "Wei25519"
)

// DefaultParams returns the parameters of secp112r1, the curve used when
// none is configured. Its field prime is (2^128 - 3) / 76439.
func DefaultParams() Params {
	p := new(big.Int).Lsh(one, 128)
	p.Sub(p, three)
	p.Quo(p, big.NewInt(76439))

	return Params{
		Name: Secp112r1Name,
		P:    p,
		A:    mustHex("DB7C2ABF62E35E668076BEAD2088"),
		B:    mustHex("659EF8BA043916EEDE8911702B22"),
		Gx:   mustHex("09487239995A5EE76B55F9C2F098"),
		Gy:   mustHex("A89CE5AF8724C0A23E0E0FF77500"),
		N:    mustHex("DB7C2ABF62E35E7628DFAC6561C5"),
	}
}

// NewDefault returns secp112r1.
func NewDefault() Curve {
	params := DefaultParams()
	return newTrusted(&params)
}

// Secp256k1Params returns the secp256k1 parameters as published by dcrd.
func Secp256k1Params() Params {
	cp := secp256k1.S256().Params()
	return Params{
		Name: Secp256k1Name,
		P:    new(big.Int).Set(cp.P),
		A:    new(big.Int),
		B:    new(big.Int).Set(cp.B),
		Gx:   new(big.Int).Set(cp.Gx),
		Gy:   new(big.Int).Set(cp.Gy),
		N:    new(big.Int).Set(cp.N),
	}
}

// NewSecp256k1 returns secp256k1 in the generic affine representation.
func NewSecp256k1() Curve {
	params := Secp256k1Params()
	return newTrusted(&params)
}

// ByName resolves one of the built-in curve names.
func ByName(name string) (Curve, error) {
	switch name {
	case "", Secp112r1Name:
		return NewDefault(), nil
	case Secp256k1Name:
		return NewSecp256k1(), nil
	case Wei25519Name:
		return NewWei25519()
	}
	return nil, ntkit.NewError("curves.ByName", ntkit.ErrInvalidArgument, "unknown curve %q", name)
}
