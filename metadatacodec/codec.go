// Package metadatacodec encodes and decodes svalbard.SharingMetadata as a
// length-prefixed, field-tagged binary record: each field is one varint
// tag, one varint length, then the field's raw bytes, repeated. This is a
// small hand-rolled TLV codec rather than a general-purpose serialization
// library — see DESIGN.md for why.
package metadatacodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/ruteri/svalbard/svalbard"
)

// ErrMalformedMetadataBytes is returned when the byte stream itself does
// not parse as a well-formed TLV record: a truncated varint, a length
// that runs past the end of the buffer, a missing required tag. Tags may
// appear in any order. It is distinct from svalbard.ErrUnsupportedScheme, which
// applies only once the record parses cleanly but names a field the
// caller does not recognize.
var ErrMalformedMetadataBytes = errors.New("metadatacodec: malformed metadata bytes")

const (
	tagSchemeFieldID = 1
	tagSchemeK       = 2
	tagSchemeN       = 3
	tagSecretName    = 4
	tagSecretMask    = 5
	tagHashSalt      = 6
	tagShare         = 7

	tagLocationType  = 1
	tagLocationName  = 2
	tagOwnerIDType   = 3
	tagOwnerID       = 4
	tagShareHash     = 5
)

func putField(buf *bytes.Buffer, tag uint64, value []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], tag)
	buf.Write(tmp[:n])
	n = binary.PutUvarint(tmp[:], uint64(len(value)))
	buf.Write(tmp[:n])
	buf.Write(value)
}

func putUvarintField(buf *bytes.Buffer, tag uint64, value uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], value)
	putField(buf, tag, tmp[:n])
}

// readFields parses a flat sequence of (tag, value) pairs out of data,
// returning ErrMalformedMetadataBytes on any truncation.
func readFields(data []byte) (map[uint64][][]byte, error) {
	fields := make(map[uint64][][]byte)
	r := bytes.NewReader(data)
	for r.Len() > 0 {
		tag, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, ErrMalformedMetadataBytes
		}
		length, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, ErrMalformedMetadataBytes
		}
		value := make([]byte, length)
		if _, err := io.ReadFull(r, value); err != nil {
			return nil, ErrMalformedMetadataBytes
		}
		fields[tag] = append(fields[tag], value)
	}
	return fields, nil
}

func firstField(fields map[uint64][][]byte, tag uint64) ([]byte, bool) {
	values, ok := fields[tag]
	if !ok || len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

func decodeUvarintField(fields map[uint64][][]byte, tag uint64) (uint64, error) {
	value, ok := firstField(fields, tag)
	if !ok {
		return 0, ErrMalformedMetadataBytes
	}
	n, consumed := binary.Uvarint(value)
	if consumed <= 0 || consumed != len(value) {
		return 0, ErrMalformedMetadataBytes
	}
	return n, nil
}

// Encode renders metadata as a TLV record.
func Encode(metadata svalbard.SharingMetadata) ([]byte, error) {
	var buf bytes.Buffer

	putField(&buf, tagSchemeFieldID, []byte(metadata.Scheme.FieldID))
	putUvarintField(&buf, tagSchemeK, uint64(metadata.Scheme.K))
	putUvarintField(&buf, tagSchemeN, uint64(metadata.Scheme.N))
	putField(&buf, tagSecretName, []byte(metadata.SecretName))
	putField(&buf, tagSecretMask, metadata.SecretMask)
	putField(&buf, tagHashSalt, metadata.HashSalt)

	for _, share := range metadata.Shares {
		var shareBuf bytes.Buffer
		putField(&shareBuf, tagLocationType, []byte(share.Location.Type))
		putField(&shareBuf, tagLocationName, []byte(share.Location.Name))
		putField(&shareBuf, tagOwnerIDType, []byte(share.Location.OwnerIDType))
		putField(&shareBuf, tagOwnerID, []byte(share.Location.OwnerID))
		putField(&shareBuf, tagShareHash, share.ShareHash)
		putField(&buf, tagShare, shareBuf.Bytes())
	}

	return buf.Bytes(), nil
}

// Decode parses data into a SharingMetadata, checking only structural
// well-formedness (every required tag present, parseable varints, a
// non-empty field id). Whether the field id names a scheme this build actually
// implements is left to the caller (see svalbard.Client's
// validateMetadata), which treats that as an unsupported-scheme error
// rather than a malformed-bytes one.
func Decode(data []byte) (svalbard.SharingMetadata, error) {
	fields, err := readFields(data)
	if err != nil {
		return svalbard.SharingMetadata{}, err
	}

	fieldID, ok := firstField(fields, tagSchemeFieldID)
	if !ok || len(fieldID) == 0 {
		return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
	}
	k, err := decodeUvarintField(fields, tagSchemeK)
	if err != nil {
		return svalbard.SharingMetadata{}, err
	}
	n, err := decodeUvarintField(fields, tagSchemeN)
	if err != nil {
		return svalbard.SharingMetadata{}, err
	}
	secretName, ok := firstField(fields, tagSecretName)
	if !ok {
		return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
	}
	secretMask, ok := firstField(fields, tagSecretMask)
	if !ok {
		return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
	}
	hashSalt, ok := firstField(fields, tagHashSalt)
	if !ok {
		return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
	}

	shares := make([]svalbard.ShareMetadata, 0, len(fields[tagShare]))
	for _, shareBytes := range fields[tagShare] {
		shareFields, err := readFields(shareBytes)
		if err != nil {
			return svalbard.SharingMetadata{}, err
		}
		locType, ok := firstField(shareFields, tagLocationType)
		if !ok {
			return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
		}
		locName, ok := firstField(shareFields, tagLocationName)
		if !ok {
			return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
		}
		ownerIDType, _ := firstField(shareFields, tagOwnerIDType)
		ownerID, _ := firstField(shareFields, tagOwnerID)
		shareHash, ok := firstField(shareFields, tagShareHash)
		if !ok {
			return svalbard.SharingMetadata{}, ErrMalformedMetadataBytes
		}

		shares = append(shares, svalbard.ShareMetadata{
			Location: svalbard.ShareLocation{
				Type:        svalbard.LocationType(locType),
				Name:        string(locName),
				OwnerIDType: string(ownerIDType),
				OwnerID:     string(ownerID),
			},
			ShareHash: shareHash,
		})
	}

	return svalbard.SharingMetadata{
		Scheme: svalbard.Scheme{
			FieldID: string(fieldID),
			K:       int(k),
			N:       int(n),
		},
		SecretName: string(secretName),
		SecretMask: secretMask,
		HashSalt:   hashSalt,
		Shares:     shares,
	}, nil
}
