package svalbard

import "crypto/sha256"

const (
	// HashSize is the length in bytes of a SaltedHash digest.
	HashSize = sha256.Size
	// HashSaltSize is the length in bytes of a freshly drawn hash salt.
	HashSaltSize = 10
)

// SaltedHash computes SHA-256(len(salt) || salt || msg). len(salt) is
// encoded as a single byte, so salt must be between 1 and 255 bytes: this
// binds the salt's length into the digest, preventing a shorter salt plus
// a crafted message prefix from colliding with a longer salt.
func SaltedHash(msg, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrSaltTooShort
	}
	if len(salt) > 255 {
		return nil, ErrSaltTooLong
	}
	h := sha256.New()
	h.Write([]byte{byte(len(salt))})
	h.Write(salt)
	h.Write(msg)
	return h.Sum(nil), nil
}

// CheckHash reports whether msg hashes to want under SaltedHash(msg, salt).
func CheckHash(msg, salt, want []byte) (bool, error) {
	got, err := SaltedHash(msg, salt)
	if err != nil {
		return false, err
	}
	if len(got) != len(want) {
		return false, nil
	}
	diff := byte(0)
	for i := range got {
		diff |= got[i] ^ want[i]
	}
	return diff == 0, nil
}

// XOR computes the byte-wise exclusive-or of two equal-length byte slices.
// It does not validate lengths; callers that need the original Java
// client's equal-length assertion use XORChecked.
func XOR(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// XORChecked computes XOR(a, b), requiring both slices to be non-empty and
// of equal length.
func XORChecked(a, b []byte) ([]byte, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptySecret
	}
	if len(a) != len(b) {
		return nil, ErrMalformedMetadata
	}
	return XOR(a, b), nil
}
