// Package elgamal implements ElGamal encryption over short Weierstrass
// curves: a plaintext point M is sent to public key Y = k*G as
// (r*G, M + r*Y) and recovered with M = h - k*g.
package elgamal

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/logging"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// DefaultRetries bounds RandomPoint when no WithRetries option is given.
const DefaultRetries = 5

var one = big.NewInt(1)

// Cryptosystem binds a curve to a random source. Its parameters are fixed
// after construction and it is safe for concurrent use when the random
// source is.
type Cryptosystem struct {
	curve   curves.Curve
	params  *curves.Params
	rnd     ntkit.RandomSource
	retries int
	logger  logging.Logger
}

// Option configures a Cryptosystem.
type Option func(*Cryptosystem)

// WithRandom sets the source of nonces, keys and sampled points.
func WithRandom(rnd ntkit.RandomSource) Option {
	return func(c *Cryptosystem) {
		if rnd != nil {
			c.rnd = rnd
		}
	}
}

// WithLogger routes diagnostics to logger. Secret scalars are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cryptosystem) {
		c.logger = logging.New(logger)
	}
}

// WithRetries sets the attempt budget of RandomPoint.
func WithRetries(n int) Option {
	return func(c *Cryptosystem) {
		c.retries = n
	}
}

// New returns a Cryptosystem over curve.
func New(curve curves.Curve, opts ...Option) *Cryptosystem {
	c := &Cryptosystem{
		curve:   curve,
		params:  curve.Params(),
		rnd:     ntkit.DefaultRandom(),
		retries: DefaultRetries,
		logger:  logging.New(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("curve", c.params.Name)
	return c
}

// NewDefault returns a Cryptosystem over secp112r1.
func NewDefault(opts ...Option) *Cryptosystem {
	return New(curves.NewDefault(), opts...)
}

// Curve returns the underlying curve.
func (c *Cryptosystem) Curve() curves.Curve {
	return c.curve
}

// Ciphertext is the pair (g, h) = (r*G, M + r*Y).
type Ciphertext struct {
	G curves.Point
	H curves.Point
}

// PublicKey is Y = D*G on Curve.
type PublicKey struct {
	Curve curves.Curve
	Y     curves.Point
}

// PrivateKey holds the secret scalar D alongside its public key.
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// RandomSecretKey draws a private scalar uniformly from [0, p).
func (c *Cryptosystem) RandomSecretKey() (*big.Int, error) {
	pMinus1 := new(big.Int).Sub(c.params.P, one)
	return c.rnd.Int(new(big.Int), pMinus1)
}

// GenerateKey draws D from [1, n-1], so the public point is never the
// identity, and returns the key pair.
func (c *Cryptosystem) GenerateKey() (*PrivateKey, error) {
	d, err := c.nonce()
	if err != nil {
		return nil, err
	}
	c.logger.Debug(context.Background(), "generated key pair", logging.Redacted("d"))
	return &PrivateKey{
		PublicKey: PublicKey{Curve: c.curve, Y: c.curve.ScalarBaseMult(d)},
		D:         d,
	}, nil
}

// nonce draws from [1, n-1].
func (c *Cryptosystem) nonce() (*big.Int, error) {
	n := c.params.N
	if n.Cmp(big.NewInt(2)) < 0 {
		return nil, ntkit.NewError("elgamal.nonce", ntkit.ErrInvalidArgument, "group order %s leaves no nonzero scalar", n)
	}
	return c.rnd.Int(one, new(big.Int).Sub(n, one))
}

// Encrypt masks the plaintext point m for the holder of y.
func (c *Cryptosystem) Encrypt(m, y curves.Point) (*Ciphertext, error) {
	const op = "elgamal.Encrypt"

	if !c.curve.IsOnCurve(m) {
		return nil, ntkit.NewError(op, ntkit.ErrNotOnCurve, "plaintext %s", m)
	}
	if !c.curve.IsOnCurve(y) {
		return nil, ntkit.NewError(op, ntkit.ErrNotOnCurve, "public key %s", y)
	}
	if y.IsInfinity() {
		return nil, ntkit.NewError(op, ntkit.ErrInvalidArgument, "public key is the identity")
	}

	r, err := c.nonce()
	if err != nil {
		return nil, err
	}
	c.logger.Debug(context.Background(), "encrypting", logging.Redacted("r"))

	return &Ciphertext{
		G: c.curve.ScalarBaseMult(r),
		H: c.curve.Add(m, c.curve.ScalarMult(r, y)),
	}, nil
}

// Decrypt recovers M = h - k*g.
func (c *Cryptosystem) Decrypt(ct *Ciphertext, k *big.Int) (curves.Point, error) {
	const op = "elgamal.Decrypt"

	if ct == nil || k == nil {
		return curves.Point{}, ntkit.NewError(op, ntkit.ErrInvalidArgument, "nil ciphertext or key")
	}
	if !c.curve.IsOnCurve(ct.G) || !c.curve.IsOnCurve(ct.H) {
		return curves.Point{}, ntkit.NewError(op, ntkit.ErrNotOnCurve, "ciphertext (%s, %s)", ct.G, ct.H)
	}

	shared := c.curve.ScalarMult(k, ct.G)
	return c.curve.Add(ct.H, c.curve.Neg(shared)), nil
}

// RandomPoint samples a point using the configured retry budget.
func (c *Cryptosystem) RandomPoint() (curves.Point, error) {
	pt, err := c.curve.RandomPoint(c.retries, c.rnd)
	if err != nil {
		c.logger.Warn(context.Background(), "point sampling failed", "retries", c.retries, "error", err)
		return curves.Point{}, err
	}
	return pt, nil
}

// Describe reports a point's coordinates, y^2 and x^3 + ax + b, and whether
// it lies on the curve.
func (c *Cryptosystem) Describe(pt curves.Point) string {
	x, y, ok := pt.Coordinates()
	if !ok {
		return "point at infinity"
	}
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, c.params.P)
	return fmt.Sprintf("x = %s\ny = %s\ny^2 = %s\nx^3 + ax + b = %s\non curve: %t",
		x, y, y2, c.params.Evaluate(x), c.curve.IsOnCurve(pt))
}
