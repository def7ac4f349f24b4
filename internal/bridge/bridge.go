// Package bridge exposes the toolkit through string arguments and JSON
// results, the shape needed by the WASM bindings. Integers travel as decimal
// strings so JavaScript never rounds them.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/elgamal"
	"github.com/smallyu/go-ntkit/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ntkit/internal/logging"
	"github.com/smallyu/go-ntkit/internal/nt/arith"
	"github.com/smallyu/go-ntkit/internal/nt/dlog"
	"github.com/smallyu/go-ntkit/internal/nt/factor"
	"github.com/smallyu/go-ntkit/internal/nt/modsqrt"
	"github.com/smallyu/go-ntkit/internal/nt/primality"
	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// Bridge holds the key pairs created through it. Keys never leave the
// Bridge; callers refer to them by ID.
type Bridge struct {
	mu     sync.Mutex
	keys   map[string]*keyEntry
	nextID int
	base   *slog.Logger
	logger logging.Logger
}

type keyEntry struct {
	system *elgamal.Cryptosystem
	key    *elgamal.PrivateKey
}

// New returns an empty Bridge logging to logger (nil means slog.Default()).
func New(logger *slog.Logger) *Bridge {
	return &Bridge{
		keys:   make(map[string]*keyEntry),
		base:   logger,
		logger: logging.New(logger),
	}
}

// PointDTO is a curve point in JSON. Infinity has empty coordinates.
type PointDTO struct {
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	Infinity bool   `json:"infinity,omitempty"`
}

// CiphertextDTO is an ElGamal ciphertext in JSON.
type CiphertextDTO struct {
	G PointDTO `json:"g"`
	H PointDTO `json:"h"`
}

// ProofDTO is a key-ownership proof in JSON.
type ProofDTO struct {
	Curve     string   `json:"curve"`
	PublicKey PointDTO `json:"publicKey"`
	R         PointDTO `json:"r"`
	S         string   `json:"s"`
}

// FactorDTO is one prime power.
type FactorDTO struct {
	Prime    string `json:"prime"`
	Exponent int    `json:"exponent"`
}

func parseInt(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ntkit.NewError("bridge", ntkit.ErrInvalidArgument, "%s: %q is not a decimal integer", name, s)
	}
	return v, nil
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("bridge: marshal result: %w", err)
	}
	return string(b), nil
}

func toDTO(p curves.Point) PointDTO {
	x, y, ok := p.Coordinates()
	if !ok {
		return PointDTO{Infinity: true}
	}
	return PointDTO{X: x.String(), Y: y.String()}
}

func fromDTO(d PointDTO) (curves.Point, error) {
	if d.Infinity {
		return curves.Infinity(), nil
	}
	x, err := parseInt("x", d.X)
	if err != nil {
		return curves.Point{}, err
	}
	y, err := parseInt("y", d.Y)
	if err != nil {
		return curves.Point{}, err
	}
	return curves.NewPoint(x, y), nil
}

// Factor returns the prime factorization of n as a JSON array.
func (b *Bridge) Factor(n string) (string, error) {
	v, err := parseInt("n", n)
	if err != nil {
		return "", err
	}
	f, err := factor.Factor(v)
	if err != nil {
		return "", err
	}
	out := make([]FactorDTO, 0, f.Len())
	for _, pe := range f {
		out = append(out, FactorDTO{Prime: pe.Prime.String(), Exponent: pe.Exponent})
	}
	return marshal(out)
}

// IsPrime runs Miller-Rabin with the default round count.
func (b *Bridge) IsPrime(n string) (bool, error) {
	v, err := parseInt("n", n)
	if err != nil {
		return false, err
	}
	return primality.Strong(v, primality.DefaultRounds, ntkit.DefaultRandom())
}

// Euler returns the product of (p-1)^e over the factorization of n.
func (b *Bridge) Euler(n string) (string, error) {
	v, err := parseInt("n", n)
	if err != nil {
		return "", err
	}
	r, err := arith.Euler(v)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Mobius returns mu(n).
func (b *Bridge) Mobius(n string) (int, error) {
	v, err := parseInt("n", n)
	if err != nil {
		return 0, err
	}
	return arith.Mobius(v)
}

// DiscreteLog solves a^x = b (mod p).
func (b *Bridge) DiscreteLog(base, target, modulus string) (string, error) {
	a, err := parseInt("a", base)
	if err != nil {
		return "", err
	}
	t, err := parseInt("b", target)
	if err != nil {
		return "", err
	}
	p, err := parseInt("p", modulus)
	if err != nil {
		return "", err
	}
	x, err := dlog.BabyStepGiantStep(a, t, p)
	if err != nil {
		return "", err
	}
	return x.String(), nil
}

// SquareRoot returns both roots of a modulo the odd prime p, smaller first.
func (b *Bridge) SquareRoot(a, p string) (string, error) {
	av, err := parseInt("a", a)
	if err != nil {
		return "", err
	}
	pv, err := parseInt("p", p)
	if err != nil {
		return "", err
	}
	r, err := modsqrt.Cipolla(av, pv, modsqrt.DefaultRetries, ntkit.DefaultRandom())
	if err != nil {
		return "", err
	}
	return marshal([]string{r.Low.String(), r.High.String()})
}

// NewKeyPair generates a key on the named curve and returns its ID and
// public point.
func (b *Bridge) NewKeyPair(curveName string) (string, error) {
	curve, err := curves.ByName(curveName)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	b.nextID++
	id := fmt.Sprintf("key-%d", b.nextID)
	b.mu.Unlock()

	system := elgamal.New(curve, elgamal.WithLogger(b.base))
	key, err := system.GenerateKey()
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	b.keys[id] = &keyEntry{system: system, key: key}
	b.mu.Unlock()
	b.logger.Info(context.Background(), "key pair created", "key", id, "curve", curve.Params().Name)

	return marshal(struct {
		KeyID     string   `json:"keyID"`
		Curve     string   `json:"curve"`
		PublicKey PointDTO `json:"publicKey"`
	}{id, curve.Params().Name, toDTO(key.Y)})
}

func (b *Bridge) lookup(keyID string) (*keyEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.keys[keyID]
	if !ok {
		return nil, ntkit.NewError("bridge", ntkit.ErrInvalidArgument, "unknown key %q", keyID)
	}
	return e, nil
}

// Encrypt embeds message in a point and encrypts it to keyID.
func (b *Bridge) Encrypt(keyID, message string) (string, error) {
	e, err := b.lookup(keyID)
	if err != nil {
		return "", err
	}
	m, err := e.system.EncodeMessage([]byte(message))
	if err != nil {
		return "", err
	}
	ct, err := e.system.Encrypt(m, e.key.Y)
	if err != nil {
		return "", err
	}
	return marshal(CiphertextDTO{G: toDTO(ct.G), H: toDTO(ct.H)})
}

// Decrypt reverses Encrypt with the private key held for keyID.
func (b *Bridge) Decrypt(keyID, ciphertext string) (string, error) {
	e, err := b.lookup(keyID)
	if err != nil {
		return "", err
	}

	var dto CiphertextDTO
	if err := json.Unmarshal([]byte(ciphertext), &dto); err != nil {
		return "", fmt.Errorf("bridge: invalid ciphertext json: %w", err)
	}
	g, err := fromDTO(dto.G)
	if err != nil {
		return "", err
	}
	h, err := fromDTO(dto.H)
	if err != nil {
		return "", err
	}

	m, err := e.system.Decrypt(&elgamal.Ciphertext{G: g, H: h}, e.key.D)
	if err != nil {
		return "", err
	}
	plain, err := e.system.DecodeMessage(m)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// ProveKey proves knowledge of the private key held for keyID.
func (b *Bridge) ProveKey(keyID string) (string, error) {
	e, err := b.lookup(keyID)
	if err != nil {
		return "", err
	}
	proof, err := e.system.ProveOwnership(e.key)
	if err != nil {
		return "", err
	}
	return marshal(ProofDTO{
		Curve:     e.system.Curve().Params().Name,
		PublicKey: toDTO(proof.Y),
		R:         toDTO(proof.Proof.R),
		S:         proof.Proof.S.String(),
	})
}

// VerifyKey checks a proof produced by ProveKey. It needs no key held by b.
func (b *Bridge) VerifyKey(proof string) (bool, error) {
	var dto ProofDTO
	if err := json.Unmarshal([]byte(proof), &dto); err != nil {
		return false, fmt.Errorf("bridge: invalid proof json: %w", err)
	}
	curve, err := curves.ByName(dto.Curve)
	if err != nil {
		return false, err
	}
	y, err := fromDTO(dto.PublicKey)
	if err != nil {
		return false, err
	}
	r, err := fromDTO(dto.R)
	if err != nil {
		return false, err
	}
	s, err := parseInt("s", dto.S)
	if err != nil {
		return false, err
	}

	system := elgamal.New(curve, elgamal.WithLogger(b.base))
	return system.VerifyOwnership(y, &elgamal.OwnershipProof{Y: y, Proof: &schnorr.Proof{R: r, S: s}}), nil
}

// Forget drops a key pair. Unknown IDs are ignored.
func (b *Bridge) Forget(keyID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.keys, keyID)
}
