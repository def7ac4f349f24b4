package elgamal

import (
	"context"
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/nt/arith"
	"github.com/smallyu/go-ntkit/internal/nt/modsqrt"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

const (
	// embedBits is the width of the counter appended to an embedded message,
	// giving 256 candidate x-coordinates per message.
	embedBits = 8

	// messagePrefix marks the start of an embedded message so leading zero
	// bytes survive the round trip.
	messagePrefix = 0x01

	// hashAttempts bounds HashToPoint. Each attempt succeeds with
	// probability about 1/2.
	hashAttempts = 256
)

// MaxMessageLen is the longest message EncodeMessage accepts on this curve.
// It is negative when the field is too small to embed even an empty message.
func (c *Cryptosystem) MaxMessageLen() int {
	// The prefixed, shifted message must stay below 2^(bitlen(p)-1) <= p.
	bits := c.params.P.BitLen() - 2 - embedBits
	if bits < 0 {
		return -1
	}
	return bits / 8
}

// EncodeMessage embeds msg in a curve point using Koblitz's method: the
// x-coordinate is (0x01 || msg) shifted left by eight bits plus the first
// counter j for which x^3 + ax + b is a square.
func (c *Cryptosystem) EncodeMessage(msg []byte) (curves.Point, error) {
	const op = "elgamal.EncodeMessage"

	if len(msg) > c.MaxMessageLen() {
		return curves.Point{}, ntkit.NewError(op, ntkit.ErrInvalidArgument, "message is %d bytes, limit %d", len(msg), c.MaxMessageLen())
	}

	m := new(big.Int).SetBytes(append([]byte{messagePrefix}, msg...))
	m.Lsh(m, embedBits)

	for j := int64(0); j < 1<<embedBits; j++ {
		x := new(big.Int).Or(m, big.NewInt(j))
		pt, ok, err := c.liftX(x)
		if err != nil {
			return curves.Point{}, err
		}
		if ok {
			c.logger.Debug(context.Background(), "embedded message", "bytes", len(msg), "attempts", j+1)
			return pt, nil
		}
	}
	return curves.Point{}, ntkit.NewError(op, ntkit.ErrRetriesExhausted, "no square among %d candidates", 1<<embedBits)
}

// DecodeMessage inverts EncodeMessage.
func (c *Cryptosystem) DecodeMessage(pt curves.Point) ([]byte, error) {
	const op = "elgamal.DecodeMessage"

	x := pt.X()
	if x == nil {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "point at infinity carries no message")
	}
	raw := x.Rsh(x, embedBits).Bytes()
	if len(raw) == 0 || raw[0] != messagePrefix {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "point %s does not embed a message", pt)
	}
	return raw[1:], nil
}

// HashToPoint maps data to a curve point by try-and-increment: the
// x-coordinate is BLAKE2b-512(len(domain) || domain || data || counter)
// reduced mod p, and y is the smaller square root. The result is
// deterministic and its discrete logarithm is unknown.
func (c *Cryptosystem) HashToPoint(domain string, data []byte) (curves.Point, error) {
	const op = "elgamal.HashToPoint"

	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(domain)))

	for ctr := 0; ctr < hashAttempts; ctr++ {
		h, err := blake2b.New512(nil)
		if err != nil {
			return curves.Point{}, err
		}
		h.Write(prefix[:])
		h.Write([]byte(domain))
		h.Write(data)
		h.Write([]byte{byte(ctr)})

		x := new(big.Int).SetBytes(h.Sum(nil))
		x.Mod(x, c.params.P)

		pt, ok, err := c.liftX(x)
		if err != nil {
			return curves.Point{}, err
		}
		if ok {
			return pt, nil
		}
	}
	return curves.Point{}, ntkit.NewError(op, ntkit.ErrRetriesExhausted, "no square among %d digests", hashAttempts)
}

// liftX returns the point with x-coordinate x and the smaller y, or ok false
// when x^3 + ax + b is not a square. x must already be reduced.
func (c *Cryptosystem) liftX(x *big.Int) (pt curves.Point, ok bool, err error) {
	p := c.params.P
	v := c.params.Evaluate(x)
	if v.Sign() == 0 {
		return curves.NewPoint(x, v), true, nil
	}
	if arith.Symbol(arith.EulerCriterion(v, p)) != 1 {
		return curves.Point{}, false, nil
	}
	roots, err := modsqrt.Cipolla(v, p, modsqrt.DefaultRetries, c.rnd)
	if err != nil {
		return curves.Point{}, false, err
	}
	return curves.NewPoint(x, roots.Low), true, nil
}
