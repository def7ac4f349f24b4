package commitment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// SaltSize is the length in bytes of a decommitment salt.
const SaltSize = 32

var maxSalt = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 8*SaltSize), big.NewInt(1))

// Commitment represents the output of a commitment scheme.
// C = H(salt, len(part_1), part_1, ..., len(part_k), part_k)
type Commitment struct {
	C []byte // The commitment value (hash)
	D []byte // The decommitment value (salt)
}

// New commits to parts using a salt drawn from rnd.
// Parts are length-prefixed so that ("ab", "c") and ("a", "bc") differ.
func New(rnd ntkit.RandomSource, parts ...[]byte) (*Commitment, error) {
	v, err := rnd.Int(new(big.Int), maxSalt)
	if err != nil {
		return nil, err
	}
	salt := v.FillBytes(make([]byte, SaltSize))
	return &Commitment{C: digest(salt, parts), D: salt}, nil
}

// Verify checks that c opens to parts under the salt d.
func Verify(c, d []byte, parts ...[]byte) bool {
	if len(c) != sha256.Size || len(d) != SaltSize {
		return false
	}
	return subtle.ConstantTimeCompare(digest(d, parts), c) == 1
}

func digest(salt []byte, parts [][]byte) []byte {
	h := sha256.New()
	h.Write(salt)
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return h.Sum(nil)
}
