package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// DatasetHash fingerprints the values of a dataset in order
type DatasetHash Hash

func (h DatasetHash) String() string { return Hash(h).String() }

// ComputeDatasetHash hashes the IEEE-754 bits of each value so that
// identical inputs always map to the same fingerprint.
func ComputeDatasetHash(values []float64) DatasetHash {
	h := sha256.New()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return DatasetHash(hex.EncodeToString(h.Sum(nil)))
}
