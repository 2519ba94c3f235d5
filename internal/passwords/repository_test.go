package passwords

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/dmitrijs2005/cardkeep/internal/prefs"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func newTestRepo(t *testing.T) (*PrefsRepository, prefs.Store) {
	t.Helper()
	ctx := context.Background()

	db, err := prefs.Connect(ctx, "file:passwordsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := prefs.NewManager(db, []byte("0123456789abcdef0123456789abcdef"), testLogger())
	store, err := m.Open(ctx, Namespace)
	require.NoError(t, err)

	return NewPrefsRepository(store, testLogger()), store
}

func TestFieldKeys_NoNamespacePrefix(t *testing.T) {
	assert.Equal(t, "17.name", fieldKey(17, fieldName))
	assert.Equal(t, "17.password", fieldKey(17, fieldPassword))
	assert.Equal(t, "17.23.property_hidden", propKey(17, 23, propFieldHidden))
}

func TestAllIDsIndex(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepo(t)

	require.NoError(t, r.AddID(ctx, 1))
	require.NoError(t, r.AddID(ctx, 2))
	require.NoError(t, r.AddID(ctx, 1))

	ids, err := r.ReadAllIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, ids)

	require.NoError(t, r.RemoveID(ctx, 1))
	require.NoError(t, r.RemoveID(ctx, 2))

	ok, err := store.Contains(ctx, allIDsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	id, err := r.NewRecordID(ctx)
	require.NoError(t, err)

	require.NoError(t, r.WriteName(ctx, id, "mailbox"))
	require.NoError(t, r.WritePassword(ctx, id, "s3cr3t"))
	require.NoError(t, r.AddID(ctx, id))

	pinID, err := r.NewPropertyID(ctx, id)
	require.NoError(t, err)
	require.NoError(t, r.WritePropertyName(ctx, id, pinID, "PIN"))
	require.NoError(t, r.WritePropertyValue(ctx, id, pinID, "0000"))
	require.NoError(t, r.WritePropertyHidden(ctx, id, pinID, true))
	require.NoError(t, r.WritePropertyIDs(ctx, id, []int32{pinID}))

	name, err := r.ReadName(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "mailbox", name)

	pw, err := r.ReadPassword(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", pw)

	hidden, err := r.ReadPropertyHidden(ctx, id, pinID)
	require.NoError(t, err)
	assert.True(t, hidden)
}

func TestReadName_AbsentIsCorrupt(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	_, err := r.ReadName(ctx, 1)
	assert.ErrorIs(t, err, common.ErrCorruptRecord)
}

func TestPropertyDefaults(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	hidden, err := r.ReadPropertyHidden(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, hidden)

	value, err := r.ReadPropertyValue(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func seedRecord(t *testing.T, r *PrefsRepository, id int32) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, r.WriteName(ctx, id, "router"))
	require.NoError(t, r.WritePassword(ctx, id, "admin"))
	require.NoError(t, r.AddID(ctx, id))
	require.NoError(t, r.WritePropertyName(ctx, id, 10, "SSID"))
	require.NoError(t, r.WritePropertyValue(ctx, id, 10, "home"))
	require.NoError(t, r.WritePropertyHidden(ctx, id, 10, false))
	require.NoError(t, r.WritePropertyIDs(ctx, id, []int32{10}))
}

func TestRemoveRecord_FullCascade(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepo(t)
	seedRecord(t, r, 1)

	require.NoError(t, r.RemoveRecord(ctx, 1))

	for _, key := range []string{
		fieldKey(1, fieldName), fieldKey(1, fieldPassword), fieldKey(1, fieldPropertyIDs),
		propKey(1, 10, propFieldName), propKey(1, 10, propFieldValue), propKey(1, 10, propFieldHidden),
		allIDsKey,
	} {
		ok, err := store.Contains(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s must be gone", key)
	}
}

func TestRemoveRecord_Idempotent(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)
	seedRecord(t, r, 1)

	require.NoError(t, r.RemoveRecord(ctx, 1))
	require.NoError(t, r.RemoveRecord(ctx, 1))
	require.NoError(t, r.DeleteRecord(ctx, 1))
}

func TestRemoveProperty_LeavesList(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)
	seedRecord(t, r, 1)

	require.NoError(t, r.RemoveProperty(ctx, 1, 10))

	// the list is the caller's responsibility
	ids, err := r.ReadPropertyIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int32{10}, ids)

	name, err := r.ReadPropertyName(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, name)
}
