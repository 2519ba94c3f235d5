package images

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/sethvargo/go-retry"
)

var (
	// ErrTooLarge: the file exceeds the decode cap. Callers delete the file
	// and clear the field so the record downgrades to "no image" instead of
	// failing on every display.
	ErrTooLarge = errors.New("image file too large")

	// ErrDecrypt: the permanent copy could not be decrypted. Possibly
	// transient (key temporarily unavailable), so callers clear only the
	// in-memory reference and warn; the file and field stay untouched.
	ErrDecrypt = errors.New("image decrypt failed")
)

// FileDecryptor reads an encrypted permanent image file.
type FileDecryptor interface {
	Decrypt(path string) ([]byte, error)
}

// Loader reads image files for display. Files inside the permanent
// directory are decrypted; anything else (legacy seed assets, scratch
// files) is read as plaintext.
type Loader struct {
	dec      FileDecryptor
	permDir  string
	maxBytes int64
	log      logging.Logger
}

func NewLoader(dec FileDecryptor, permDir string, maxBytes int64, log logging.Logger) *Loader {
	return &Loader{dec: dec, permDir: permDir, maxBytes: maxBytes, log: log}
}

// Load returns the decoded bytes of the image at path.
func (l *Loader) Load(ctx context.Context, path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if l.maxBytes > 0 && fi.Size() > l.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, fi.Size())
	}

	if !l.inPermanentDir(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	}

	// decryption may fail transiently; retry briefly before reporting
	var data []byte
	backoff := retry.WithMaxRetries(2, retry.NewConstant(100*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var derr error
		data, derr = l.dec.Decrypt(path)
		if derr != nil {
			return retry.RetryableError(derr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecrypt, path, err)
	}
	return data, nil
}

func (l *Loader) inPermanentDir(path string) bool {
	rel, err := filepath.Rel(l.permDir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Handle tracks one background load. Detach makes result delivery a no-op
// while the load itself still runs to completion, so a screen that no
// longer exists can abandon its request without leaving the filesystem in
// an inconsistent state.
type Handle struct {
	detached atomic.Bool
	done     chan struct{}
}

// Detach discards future result delivery.
func (h *Handle) Detach() {
	h.detached.Store(true)
}

// Done is closed once the load has finished, delivered or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// LoadAsync runs Load off the interactive path and hands the result to
// deliver, unless the handle was detached first.
func (l *Loader) LoadAsync(ctx context.Context, path string, deliver func(data []byte, err error)) *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		data, err := l.Load(ctx, path)
		if h.detached.Load() {
			l.log.Debug(ctx, "dropping result of detached image load", "path", path)
			return
		}
		deliver(data, err)
	}()
	return h
}
