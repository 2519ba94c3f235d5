package images

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardkeep/internal/cryptox"
)

type stubDecryptor struct {
	calls int
	data  []byte
	err   error
}

func (d *stubDecryptor) Decrypt(string) ([]byte, error) {
	d.calls++
	return d.data, d.err
}

// gatedDecryptor blocks until its gate is closed.
type gatedDecryptor struct {
	gate chan struct{}
}

func (d *gatedDecryptor) Decrypt(string) ([]byte, error) {
	<-d.gate
	return []byte("late"), nil
}

func TestLoad_PlaintextOutsidePermanentDir(t *testing.T) {
	perm := t.TempDir()
	dec := &stubDecryptor{}
	l := NewLoader(dec, perm, 0, testLogger())

	outside := scratchFile(t, t.TempDir(), "seed.png")
	data, err := l.Load(context.Background(), outside)
	require.NoError(t, err)

	assert.Equal(t, []byte("seed.png"), data)
	assert.Zero(t, dec.calls, "plaintext reads must not hit the decryptor")
}

func TestLoad_DecryptsInsidePermanentDir(t *testing.T) {
	perm := t.TempDir()
	key := []byte("0123456789abcdef0123456789abcdef")

	src := scratchFile(t, t.TempDir(), "front.png")
	dst := filepath.Join(perm, "a.img")
	require.NoError(t, cryptox.EncryptToFile(src, dst, key))

	l := NewLoader(NewCrypter(key), perm, 0, testLogger())
	data, err := l.Load(context.Background(), dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("front.png"), data)
}

func TestLoad_TooLarge(t *testing.T) {
	l := NewLoader(&stubDecryptor{}, t.TempDir(), 4, testLogger())

	big := filepath.Join(t.TempDir(), "big.png")
	require.NoError(t, os.WriteFile(big, []byte("12345"), 0o600))

	_, err := l.Load(context.Background(), big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader(&stubDecryptor{}, t.TempDir(), 0, testLogger())

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "gone.img"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecrypt)
}

func TestLoad_DecryptFailureRetriesThenReports(t *testing.T) {
	perm := t.TempDir()
	dec := &stubDecryptor{err: errors.New("key unavailable")}
	l := NewLoader(dec, perm, 0, testLogger())

	inside := scratchFile(t, perm, "a.img")
	_, err := l.Load(context.Background(), inside)

	assert.ErrorIs(t, err, ErrDecrypt)
	assert.Equal(t, 3, dec.calls, "initial attempt plus two retries")
}

func TestLoadAsync_Delivers(t *testing.T) {
	l := NewLoader(&stubDecryptor{}, t.TempDir(), 0, testLogger())
	path := scratchFile(t, t.TempDir(), "pic.png")

	var got []byte
	var gotErr error
	h := l.LoadAsync(context.Background(), path, func(data []byte, err error) {
		got, gotErr = data, err
	})

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}
	require.NoError(t, gotErr)
	assert.Equal(t, []byte("pic.png"), got)
}

func TestLoadAsync_DetachedDeliveryIsDropped(t *testing.T) {
	perm := t.TempDir()
	gate := make(chan struct{})
	dec := &gatedDecryptor{gate: gate}
	l := NewLoader(dec, perm, 0, testLogger())
	path := scratchFile(t, perm, "pic.img")

	delivered := false
	h := l.LoadAsync(context.Background(), path, func([]byte, error) {
		delivered = true
	})
	h.Detach()
	close(gate)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}
	assert.False(t, delivered)
}
