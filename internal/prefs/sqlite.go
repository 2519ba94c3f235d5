package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"github.com/dmitrijs2005/cardkeep/internal/cryptox"
	"github.com/dmitrijs2005/cardkeep/internal/dbx"
)

// Value type tags persisted alongside each entry.
const (
	typeString = "string"
	typeInt    = "int"
	typeBool   = "bool"
)

// sqliteStore implements Store for one namespace over a shared sqlite
// database. Every value is AES-GCM-sealed with the master key before it
// touches the prefs table.
type sqliteStore struct {
	db  dbx.DBTX
	ns  string
	key []byte
}

func newSQLiteStore(db dbx.DBTX, namespace string, masterKey []byte) *sqliteStore {
	return &sqliteStore{db: db, ns: namespace, key: masterKey}
}

func (s *sqliteStore) GetString(ctx context.Context, key, def string) (string, error) {
	typ, plaintext, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	if typ != typeString {
		return def, fmt.Errorf("%w: %s.%s is %s, want %s", common.ErrTypeMismatch, s.ns, key, typ, typeString)
	}
	return string(plaintext), nil
}

func (s *sqliteStore) GetInt(ctx context.Context, key string, def int64) (int64, error) {
	typ, plaintext, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	if typ != typeInt {
		return def, fmt.Errorf("%w: %s.%s is %s, want %s", common.ErrTypeMismatch, s.ns, key, typ, typeInt)
	}
	v, err := strconv.ParseInt(string(plaintext), 10, 64)
	if err != nil {
		return def, fmt.Errorf("parse int value of %s.%s: %w", s.ns, key, err)
	}
	return v, nil
}

func (s *sqliteStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	typ, plaintext, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	if typ != typeBool {
		return def, fmt.Errorf("%w: %s.%s is %s, want %s", common.ErrTypeMismatch, s.ns, key, typ, typeBool)
	}
	v, err := strconv.ParseBool(string(plaintext))
	if err != nil {
		return def, fmt.Errorf("parse bool value of %s.%s: %w", s.ns, key, err)
	}
	return v, nil
}

func (s *sqliteStore) PutString(ctx context.Context, key, value string) error {
	return s.put(ctx, key, typeString, []byte(value))
}

func (s *sqliteStore) PutInt(ctx context.Context, key string, value int64) error {
	return s.put(ctx, key, typeInt, []byte(strconv.FormatInt(value, 10)))
}

func (s *sqliteStore) PutBool(ctx context.Context, key string, value bool) error {
	return s.put(ctx, key, typeBool, []byte(strconv.FormatBool(value)))
}

func (s *sqliteStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM prefs WHERE namespace = ? AND key = ?`, s.ns, key)
	if err != nil {
		return fmt.Errorf("remove %s.%s: %w", s.ns, key, err)
	}
	return nil
}

func (s *sqliteStore) Contains(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM prefs WHERE namespace = ? AND key = ?`, s.ns, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("contains %s.%s: %w", s.ns, key, err)
	}
	return true, nil
}

func (s *sqliteStore) get(ctx context.Context, key string) (typ string, plaintext []byte, ok bool, err error) {
	var nonce, value []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT type, nonce, value FROM prefs WHERE namespace = ? AND key = ?`,
		s.ns, key).Scan(&typ, &nonce, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("get %s.%s: %w", s.ns, key, err)
	}

	plaintext, err = cryptox.Open(value, nonce, s.key)
	if err != nil {
		return "", nil, false, fmt.Errorf("decrypt %s.%s: %w", s.ns, key, err)
	}
	return typ, plaintext, true, nil
}

func (s *sqliteStore) put(ctx context.Context, key, typ string, plaintext []byte) error {
	ciphertext, nonce, err := cryptox.Seal(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("encrypt %s.%s: %w", s.ns, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prefs (namespace, key, type, nonce, value) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET
			type = excluded.type, nonce = excluded.nonce, value = excluded.value
	`, s.ns, key, typ, nonce, ciphertext)
	if err != nil {
		return fmt.Errorf("put %s.%s: %w", s.ns, key, err)
	}
	return nil
}
