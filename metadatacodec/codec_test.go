package metadatacodec

import (
	"testing"

	"github.com/ruteri/svalbard/svalbard"
	"github.com/stretchr/testify/require"
)

func sampleMetadata() svalbard.SharingMetadata {
	return svalbard.SharingMetadata{
		Scheme:     svalbard.Scheme{FieldID: "gf2-64", K: 2, N: 3},
		SecretName: "my-secret",
		SecretMask: []byte{0x01, 0x02, 0x03, 0x04},
		HashSalt:   []byte{0xAA, 0xBB, 0xCC},
		Shares: []svalbard.ShareMetadata{
			{
				Location: svalbard.ShareLocation{
					Type:        svalbard.LocationServer,
					Name:        "https://custody.example",
					OwnerIDType: "FILE",
					OwnerID:     "alice",
				},
				ShareHash: []byte{0x11, 0x22},
			},
			{
				Location: svalbard.ShareLocation{
					Type: svalbard.LocationPrintedCopy,
					Name: "printer-1",
				},
				ShareHash: []byte{0x33, 0x44, 0x55},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	metadata := sampleMetadata()

	encoded, err := Encode(metadata)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, metadata, decoded)
}

func TestEncodeDecodeEmptyShares(t *testing.T) {
	metadata := sampleMetadata()
	metadata.Shares = nil

	encoded, err := Encode(metadata)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded.Shares)
}

func TestDecodeRejectsTruncatedBytes(t *testing.T) {
	encoded, err := Encode(sampleMetadata())
	require.NoError(t, err)

	_, err = Decode(encoded[:len(encoded)-3])
	require.ErrorIs(t, err, ErrMalformedMetadataBytes)
}

func TestDecodeRejectsBadVarint(t *testing.T) {
	// A single 0xFF byte with no continuation is an unterminated varint.
	_, err := Decode([]byte{0xFF})
	require.ErrorIs(t, err, ErrMalformedMetadataBytes)
}

func TestDecodeRejectsMissingRequiredField(t *testing.T) {
	var buf []byte
	buf = append(buf, 1, 6) // tagSchemeFieldID, length 6
	buf = append(buf, []byte("gf2-64")...)
	// No K, N, SecretName, SecretMask, or HashSalt fields follow.

	_, err := Decode(buf)
	require.ErrorIs(t, err, ErrMalformedMetadataBytes)
}

func TestDecodeAcceptsUnknownSchemeFieldID(t *testing.T) {
	// A structurally well-formed record naming a field id this build
	// doesn't implement must decode cleanly: recognizing the field id is
	// svalbard.Client's job (validateMetadata), not the codec's. The two
	// failure modes must never be conflated.
	metadata := sampleMetadata()
	metadata.Scheme.FieldID = "some-future-field"

	encoded, err := Encode(metadata)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, "some-future-field", decoded.Scheme.FieldID)
}
