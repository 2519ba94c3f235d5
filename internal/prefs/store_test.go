package prefs

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE prefs (
  namespace TEXT NOT NULL,
  key TEXT NOT NULL,
  type TEXT NOT NULL,
  nonce BLOB NOT NULL,
  value BLOB NOT NULL,
  PRIMARY KEY (namespace, key)
);
CREATE TABLE legacy_prefs (
  namespace TEXT NOT NULL,
  key TEXT NOT NULL,
  type TEXT NOT NULL,
  value TEXT NOT NULL,
  PRIMARY KEY (namespace, key)
);
`)
	require.NoError(t, err)
	return db
}

func testKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func testManager(t *testing.T) (*Manager, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	log := logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	return NewManager(db, testKey(), log), db
}

func TestStore_TypedPutGet(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	require.NoError(t, s.PutString(ctx, "k.s", "hello"))
	require.NoError(t, s.PutInt(ctx, "k.i", -42))
	require.NoError(t, s.PutBool(ctx, "k.b", true))

	gs, err := s.GetString(ctx, "k.s", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", gs)

	gi, err := s.GetInt(ctx, "k.i", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), gi)

	gb, err := s.GetBool(ctx, "k.b", false)
	require.NoError(t, err)
	assert.True(t, gb)
}

func TestStore_AbsentReturnsDefault(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	gs, err := s.GetString(ctx, "missing", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", gs)

	gi, err := s.GetInt(ctx, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), gi)

	gb, err := s.GetBool(ctx, "missing", true)
	require.NoError(t, err)
	assert.True(t, gb)
}

func TestStore_TypeMismatch(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	require.NoError(t, s.PutString(ctx, "k", "text"))

	_, err = s.GetInt(ctx, "k", 0)
	assert.ErrorIs(t, err, common.ErrTypeMismatch)
}

func TestStore_RemoveAndContains(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	require.NoError(t, s.PutString(ctx, "k", "v"))

	ok, err := s.Contains(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Remove(ctx, "k"))

	ok, err = s.Contains(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, s.Remove(ctx, "k"))
}

func TestStore_EncryptedAtRest(t *testing.T) {
	m, db := testManager(t)
	ctx := context.Background()
	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	require.NoError(t, s.PutString(ctx, "k", "plainly visible secret"))

	var raw []byte
	require.NoError(t, db.QueryRow(
		`SELECT value FROM prefs WHERE namespace='cards' AND key='k'`).Scan(&raw))
	assert.NotContains(t, string(raw), "plainly visible")
}

func TestStore_NamespacesIsolated(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()

	cards, err := m.Open(ctx, "cards")
	require.NoError(t, err)
	passwords, err := m.Open(ctx, "passwords")
	require.NoError(t, err)

	require.NoError(t, cards.PutString(ctx, "k", "card value"))

	got, err := passwords.GetString(ctx, "k", "absent")
	require.NoError(t, err)
	assert.Equal(t, "absent", got)
}

func TestManager_OpenIdempotentAndConcurrent(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()

	const goroutines = 16
	stores := make([]Store, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s, err := m.Open(ctx, "cards")
			assert.NoError(t, err)
			stores[n] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, stores[0], stores[i], "all opens must return the same handle")
	}
}

func TestMigrateLegacy_MovesAndClears(t *testing.T) {
	m, db := testManager(t)
	ctx := context.Background()

	_, err := db.Exec(`
INSERT INTO legacy_prefs (namespace, key, type, value) VALUES
  ('cards', 'cards.1.name', 'string', 'Gym'),
  ('cards', 'cards.1.color', 'int', '-14575885'),
  ('cards', 'cards.1.code_type_text', 'bool', 'true'),
  ('cards', 'cards.1.weird', 'float', '3.14'),
  ('passwords', '9.name', 'string', 'untouched until opened');
`)
	require.NoError(t, err)

	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	name, err := s.GetString(ctx, "cards.1.name", "")
	require.NoError(t, err)
	assert.Equal(t, "Gym", name)

	color, err := s.GetInt(ctx, "cards.1.color", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-14575885), color)

	asText, err := s.GetBool(ctx, "cards.1.code_type_text", false)
	require.NoError(t, err)
	assert.True(t, asText)

	// unsupported type was skipped, not migrated
	ok, err := s.Contains(ctx, "cards.1.weird")
	require.NoError(t, err)
	assert.False(t, ok)

	// legacy rows of the migrated namespace are gone, others remain
	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM legacy_prefs WHERE namespace='cards'`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM legacy_prefs WHERE namespace='passwords'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestPersistentArray_WriteThrough(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	s, err := m.Open(ctx, "cards")
	require.NoError(t, err)

	p, err := NewPersistentArray(ctx, s, "all_card_ids", IDDelimiter, IDFuncs())
	require.NoError(t, err)

	require.NoError(t, p.Add(ctx, 10))
	require.NoError(t, p.Add(ctx, 20))
	require.NoError(t, p.Insert(ctx, 1, 15))

	// a fresh load sees every mutation without an explicit flush
	q, err := NewPersistentArray(ctx, s, "all_card_ids", IDDelimiter, IDFuncs())
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 15, 20}, q.Items())

	require.NoError(t, p.RemoveAt(ctx, 0))
	require.NoError(t, p.RemoveAt(ctx, 0))
	require.NoError(t, p.RemoveAt(ctx, 0))

	// emptying the list removes the key entirely
	ok, err := s.Contains(ctx, "all_card_ids")
	require.NoError(t, err)
	assert.False(t, ok)
}
