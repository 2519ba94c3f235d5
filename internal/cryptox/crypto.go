// Package cryptox implements the encryption primitives used by the
// preference store (per-value AES-GCM sealing) and the image lifecycle
// (whole-file encryption during promotion to permanent storage).
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"golang.org/x/crypto/argon2"
)

const nonceSize = 12

// DeriveMasterKey derives a 32-byte AES key from a passphrase and salt
// using argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns a value safe to persist for checking that a derived
// key matches the one previously used, without storing the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// Seal encrypts plaintext with AES-GCM under key. The key must be 16, 24 or
// 32 bytes. A fresh random nonce is generated per call and returned
// alongside the ciphertext.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(nonceSize)
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open decrypts ciphertext produced by Seal with the same key and nonce.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return plaintext, nil
}

// EncryptToFile reads src, encrypts its contents under key and writes the
// result to dst as nonce||ciphertext. The source file is left in place;
// callers decide when to delete it.
func EncryptToFile(src, dst string, key []byte) error {
	plaintext, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	ciphertext, nonce, err := Seal(plaintext, key)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", src, err)
	}

	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	if err := os.WriteFile(dst, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// DecryptFile reads a file written by EncryptToFile and returns its
// decrypted contents.
func DecryptFile(path string, key []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) < nonceSize {
		return nil, fmt.Errorf("decrypt %s: file too short", path)
	}
	plaintext, err := Open(data[nonceSize:], data[:nonceSize], key)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", path, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
