package hashing

import (
	"crypto"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrUnavailable is returned when the SHA-256 primitive is not linked into
// the binary. Nothing in this module may fall back to a weaker hash.
var ErrUnavailable = errors.New("hashing: sha-256 is not available")

// Hasher produces a fixed-length lowercase hex digest from arbitrary bytes.
// It is stateless, so one instance may be shared freely.
type Hasher interface {
	Sum(data []byte) string
}

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// New returns the SHA-256 hasher, or ErrUnavailable if the primitive is
// missing from the build.
func New() (Hasher, error) {
	if !crypto.SHA256.Available() {
		return nil, ErrUnavailable
	}
	return sha256Hasher{}, nil
}
