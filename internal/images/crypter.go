package images

import "github.com/dmitrijs2005/cardkeep/internal/cryptox"

// Crypter encrypts and decrypts image files with the master key. It
// satisfies both FileEncryptor (session promotion) and FileDecryptor
// (display loading).
type Crypter struct {
	key []byte
}

func NewCrypter(masterKey []byte) *Crypter {
	return &Crypter{key: masterKey}
}

func (c *Crypter) Encrypt(src, dst string) error {
	return cryptox.EncryptToFile(src, dst, c.key)
}

func (c *Crypter) Decrypt(path string) ([]byte, error) {
	return cryptox.DecryptFile(path, c.key)
}
