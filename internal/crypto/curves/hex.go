package curves

import (
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntkit"
)

// HexToBigInt decodes an upper-case hexadecimal string, most significant
// digit first. There is no sign or "0x" prefix and lower-case digits are
// rejected; callers normalize case first. The empty string decodes to 0.
func HexToBigInt(s string) (*big.Int, error) {
	v := new(big.Int)
	digit := new(big.Int)
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return nil, ntkit.NewError("curves.HexToBigInt", ntkit.ErrInvalidArgument, "invalid digit %q at offset %d", c, i)
		}
		v.Lsh(v, 4)
		v.Add(v, digit.SetInt64(d))
	}
	return v, nil
}

// mustHex decodes a compile-time constant.
func mustHex(s string) *big.Int {
	v, err := HexToBigInt(s)
	if err != nil {
		panic(err)
	}
	return v
}
