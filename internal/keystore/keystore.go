// Package keystore supplies the master encryption key. The key normally
// lives in the operating system keyring and is generated on first run. When
// the keyring is unavailable (headless machines, containers) the provider
// falls back to deriving the key from a passphrase with argon2id, using a
// salt file kept under the data directory.
package keystore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"github.com/dmitrijs2005/cardkeep/internal/cryptox"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/zalando/go-keyring"
)

const (
	keyLen       = 32
	keyringUser  = "master-key"
	saltFileName = "master.salt"
	fallbackEnv  = "CARDKEEP_KEYRING_FALLBACK"
)

// promptPassword is a test seam for the no-echo terminal prompt.
var promptPassword = func() ([]byte, error) {
	fmt.Print("Enter master passphrase: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return pw, err
}

// Provider resolves the master key once and caches it for the process
// lifetime. Safe for concurrent use.
type Provider struct {
	service string
	dataDir string
	log     logging.Logger

	mu  sync.Mutex
	key []byte
}

func New(service, dataDir string, log logging.Logger) *Provider {
	return &Provider{service: service, dataDir: dataDir, log: log}
}

// Key returns the 32-byte master key, setting it up on first call. Failure
// to obtain a key is unrecoverable for the application; the error is
// returned wrapped and callers are expected to abort.
func (p *Provider) Key(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key != nil {
		return p.key, nil
	}

	var (
		key []byte
		err error
	)
	if p.fileFallback() {
		key, err = p.passphraseKey(ctx)
	} else {
		key, err = p.keyringKey(ctx)
		if err != nil {
			// a broken keyring daemon still leaves the passphrase path
			p.log.Warn(ctx, "keyring unavailable, falling back to passphrase", "error", err)
			key, err = p.passphraseKey(ctx)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("master key setup: %w", err)
	}

	p.key = key
	return p.key, nil
}

func (p *Provider) fileFallback() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(fallbackEnv)), "passphrase")
}

func (p *Provider) keyringKey(ctx context.Context) ([]byte, error) {
	raw, err := keyring.Get(p.service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		key := common.GenerateRandByteArray(keyLen)
		if err := keyring.Set(p.service, keyringUser, base64.StdEncoding.EncodeToString(key)); err != nil {
			return nil, fmt.Errorf("store new key: %w", err)
		}
		p.log.Info(ctx, "generated new master key", "service", p.service)
		return key, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, errors.New("stored key has invalid format")
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("stored key has invalid length: %d", len(key))
	}
	return key, nil
}

func (p *Provider) passphraseKey(ctx context.Context) ([]byte, error) {
	salt, err := p.ensureSalt(ctx)
	if err != nil {
		return nil, err
	}

	pw, err := promptPassword()
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 {
		return nil, errors.New("empty passphrase")
	}
	return cryptox.DeriveMasterKey(pw, salt), nil
}

func (p *Provider) ensureSalt(ctx context.Context) ([]byte, error) {
	path := filepath.Join(p.dataDir, saltFileName)

	salt, err := os.ReadFile(path)
	if err == nil {
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	salt = common.GenerateRandByteArray(16)
	if err := os.MkdirAll(p.dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}
	p.log.Info(ctx, "created new master-key salt", "path", path)
	return salt, nil
}
