package gf64

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInverseRoundTrip(t *testing.T) {
	values := []Element{1, 2, 3, 0xdeadbeef, 0xffffffffffffffff, 0x8000000000000001}
	for _, v := range values {
		inv := v.Inverse()
		require.Equal(t, One, v.Multiply(inv), "a * inverse(a) must equal 1 for %x", uint64(v))
	}
}

func TestInverseOfZeroPanics(t *testing.T) {
	require.Panics(t, func() { Zero.Inverse() })
}

func TestXIsPrimitive(t *testing.T) {
	maxOrder := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	require.Equal(t, maxOrder, X.Order())
	require.Equal(t, One, X.Pow(maxOrder))
}

func TestPowersAddExponents(t *testing.T) {
	for i := int64(0); i < 64; i++ {
		for j := int64(0); j < 64; j++ {
			got := X.PowInt(i).Multiply(X.PowInt(j))
			want := X.PowInt(i + j)
			require.Equal(t, want, got, "X^%d * X^%d", i, j)
		}
	}
}

func TestMultiplyByXMatchesMultiplyByXElement(t *testing.T) {
	values := []Element{1, 2, 3, 0xdeadbeef, 0xffffffffffffffff, 0x8000000000000001, 0}
	for _, v := range values {
		require.Equal(t, v.Multiply(X), v.MultiplyByX())
	}
}

func TestSquareMatchesMultiplyBySelf(t *testing.T) {
	values := []Element{1, 2, 3, 0xdeadbeef, 0xffffffffffffffff, 0x8000000000000001}
	for _, v := range values {
		require.Equal(t, v.Multiply(v), v.Square())
	}
}

func TestAddIsXor(t *testing.T) {
	require.Equal(t, Element(0x3), Element(0x1).Add(Element(0x2)))
	require.Equal(t, Element(0), Element(0xabc).Add(Element(0xabc)))
}

func TestNegativeExponent(t *testing.T) {
	v := Element(0xdeadbeef)
	require.Equal(t, v.Inverse(), v.Pow(big.NewInt(-1)))
}
