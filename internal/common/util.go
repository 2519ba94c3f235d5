package common

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string is twice as long as size, since every byte
// expands to two hex characters.
func MakeRandHexString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateRandByteArray returns size cryptographically random bytes.
// A failing system randomness source is unrecoverable, so it panics
// rather than returning an error.
func GenerateRandByteArray(size int) []byte {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// GenerateRandInt32 returns a uniformly random int32. Record and property
// identifiers are drawn from this; uniqueness against a used-ID set is the
// caller's responsibility.
func GenerateRandInt32() int32 {
	return int32(binary.BigEndian.Uint32(GenerateRandByteArray(4)))
}

// WipeByteArray zeroes the buffer in place. Use it on key material and
// passwords once they are no longer needed.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
