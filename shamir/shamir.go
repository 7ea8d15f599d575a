// Package shamir implements Shamir's k-of-n secret sharing scheme over
// gf64.Element: the secret is split into 8-byte chunks, each chunk shared
// independently via a random polynomial of degree k-1, and reconstructed by
// Lagrange interpolation at x=0.
package shamir

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ruteri/svalbard/gf64"
)

// FieldID identifies the field this package's shares are defined over. It is
// carried in the serialized sharing scheme (see metadatacodec) so that
// future field changes can be detected rather than silently misinterpreted.
const FieldID = "GF_2to64_x64_x4_x3_x1"

var (
	// ErrInvalidK is returned when k is not a positive integer.
	ErrInvalidK = errors.New("shamir: k must be positive")
	// ErrNotEnoughShares is returned when n < k at split time.
	ErrNotEnoughShares = errors.New("shamir: n must be >= k")
	// ErrEmptySecret is returned when splitting a zero-length secret.
	ErrEmptySecret = errors.New("shamir: secret must not be empty")
	// ErrNoSharesSupplied is returned when reconstructing from zero shares.
	ErrNoSharesSupplied = errors.New("shamir: no shares received")
	// ErrInvalidShareSize is returned when a share's length is not ≡ 1 mod 8.
	ErrInvalidShareSize = errors.New("shamir: invalid size of shares")
	// ErrInvalidPadding is returned when the trailing padding byte is out of [0,7].
	ErrInvalidPadding = errors.New("shamir: invalid padding size")
	// ErrIncompatibleShares is returned when supplied shares disagree on
	// length or padding.
	ErrIncompatibleShares = errors.New("shamir: incompatible shares")
)

// Share is one evaluation point of one sharing: Point is the (1-based)
// x-coordinate, Bytes is the wire-form encoding of P(Point) for every chunk
// of the shared secret, followed by the one-byte padding count.
type Share struct {
	Point uint8
	Bytes []byte
}

// Split computes a k-out-of-n sharing of secret, returning n shares.
func Split(secret []byte, n, k int) ([]Share, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if n < k {
		return nil, ErrNotEnoughShares
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	rem := len(secret) % 8
	paddingSize := 0
	if rem != 0 {
		paddingSize = 8 - rem
	}
	encoded := make([]byte, len(secret)+paddingSize)
	copy(encoded, secret)

	elements, err := decode(encoded)
	if err != nil {
		return nil, err
	}

	y := make([][]gf64.Element, n)
	for i := range y {
		y[i] = make([]gf64.Element, len(elements))
	}

	for i, chunk := range elements {
		poly := make([]gf64.Element, k)
		poly[0] = chunk
		for j := 1; j < k; j++ {
			r, err := randomElement()
			if err != nil {
				return nil, err
			}
			poly[j] = r
		}
		for j := 0; j < n; j++ {
			p := gf64.FromUint64(uint64(j + 1))
			res := gf64.Zero
			for d := k - 1; d >= 0; d-- {
				res = res.Multiply(p).Add(poly[d])
			}
			y[j][i] = res
		}
	}

	shares := make([]Share, n)
	for j := 0; j < n; j++ {
		shares[j] = Share{
			Point: uint8(j + 1),
			Bytes: encode(y[j], paddingSize),
		}
	}
	return shares, nil
}

// Reconstruct recovers the original secret from k or more shares of the
// same sharing.
func Reconstruct(shares []Share) ([]byte, error) {
	k := len(shares)
	if k < 1 {
		return nil, ErrNoSharesSupplied
	}

	shareSize := len(shares[0].Bytes)
	if shareSize%8 != 1 {
		return nil, ErrInvalidShareSize
	}
	paddingSize := int(shares[0].Bytes[shareSize-1])
	if paddingSize < 0 || paddingSize >= 8 {
		return nil, ErrInvalidPadding
	}
	for i := 1; i < k; i++ {
		if len(shares[i].Bytes) != shareSize || int(shares[i].Bytes[shareSize-1]) != paddingSize {
			return nil, ErrIncompatibleShares
		}
	}

	x := make([]gf64.Element, k)
	y := make([][]gf64.Element, k)
	for i := 0; i < k; i++ {
		x[i] = gf64.FromUint64(uint64(shares[i].Point))
		decoded, err := decode(shares[i].Bytes[:shareSize-1])
		if err != nil {
			return nil, err
		}
		y[i] = decoded
	}

	// Lagrange interpolation at x=0, restricted to the constant term:
	//   sec = prodx * sum_i y_i * (x_i * prod_{j!=i}(x_i + x_j))^-1
	prodx := gf64.One
	for i := 0; i < k; i++ {
		prodx = prodx.Multiply(x[i])
	}

	p := make([]gf64.Element, k)
	for i := 0; i < k; i++ {
		res := x[i]
		for j := 0; j < k; j++ {
			if i != j {
				res = res.Multiply(x[i].Add(x[j]))
			}
		}
		p[i] = res.Inverse()
	}

	numElements := (shareSize - 1) / 8
	sec := make([]gf64.Element, numElements)
	for i := 0; i < numElements; i++ {
		res := gf64.Zero
		for j := 0; j < k; j++ {
			res = res.Add(p[j].Multiply(y[j][i]))
		}
		sec[i] = res.Multiply(prodx)
	}

	res := encode(sec, paddingSize)
	resultSize := len(sec)*8 - paddingSize
	return res[:resultSize], nil
}

// randomElement draws a uniformly random field element from a cryptographic
// RNG, which is a process-wide resource safe for concurrent use.
func randomElement() (gf64.Element, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return gf64.FromUint64(binary.BigEndian.Uint64(buf[:])), nil
}

// encode packs elements into big-endian 8-byte chunks followed by one byte
// carrying paddingSize.
func encode(elements []gf64.Element, paddingSize int) []byte {
	res := make([]byte, len(elements)*8+1)
	for i, e := range elements {
		binary.BigEndian.PutUint64(res[i*8:i*8+8], e.Uint64())
	}
	res[len(res)-1] = byte(paddingSize)
	return res
}

// decode splits bytes (whose length must be a multiple of 8) into field
// elements.
func decode(b []byte) ([]gf64.Element, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("shamir: byte length %d is not a multiple of 8", len(b))
	}
	n := len(b) / 8
	res := make([]gf64.Element, n)
	for i := 0; i < n; i++ {
		res[i] = gf64.FromUint64(binary.BigEndian.Uint64(b[i*8 : i*8+8]))
	}
	return res, nil
}
