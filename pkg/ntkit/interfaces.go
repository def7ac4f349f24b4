package ntkit

import (
	"crypto/rand"
	"io"
	"math/big"
)

var one = big.NewInt(1)

// RandomSource produces uniformly distributed arbitrary-precision integers.
// Implementations shared between goroutines must be safe for concurrent use.
type RandomSource interface {
	// Int returns a uniformly random integer in the closed interval [lo, hi].
	Int(lo, hi *big.Int) (*big.Int, error)
}

// readerSource draws from an entropy reader via crypto/rand.Int.
type readerSource struct {
	r io.Reader
}

// NewRandomSource returns a RandomSource reading entropy from r.
// It is as safe for concurrent use as r itself.
func NewRandomSource(r io.Reader) RandomSource {
	return &readerSource{r: r}
}

var defaultRandom = NewRandomSource(rand.Reader)

// DefaultRandom returns the process-wide source backed by crypto/rand.Reader.
func DefaultRandom() RandomSource {
	return defaultRandom
}

func (s *readerSource) Int(lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil {
		return nil, NewError("ntkit.Int", ErrInvalidArgument, "nil bound")
	}
	if lo.Cmp(hi) > 0 {
		return nil, NewError("ntkit.Int", ErrInvalidArgument, "empty interval [%s, %s]", lo, hi)
	}

	// width = hi - lo + 1 > 0
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, one)

	v, err := rand.Int(s.r, width)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}
