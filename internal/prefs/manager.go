package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/cardkeep/internal/dbx"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
)

// Manager owns the database handle and the master key, and hands out
// per-namespace Store handles. It is constructed once by the composition
// root and injected into repositories; Open is idempotent and safe under
// concurrent first calls for the same namespace.
type Manager struct {
	db  *sql.DB
	key []byte
	log logging.Logger

	mu     sync.Mutex
	stores map[string]Store
}

func NewManager(db *sql.DB, masterKey []byte, log logging.Logger) *Manager {
	return &Manager{
		db:     db,
		key:    masterKey,
		log:    log,
		stores: make(map[string]Store),
	}
}

// Open returns the Store for namespace, creating it on first call. The
// first open of a namespace also runs the one-time migration of any legacy
// plaintext entries into the encrypted table.
func (m *Manager) Open(ctx context.Context, namespace string) (Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[namespace]; ok {
		return s, nil
	}

	if err := m.migrateLegacy(ctx, namespace); err != nil {
		return nil, fmt.Errorf("open namespace %s: %w", namespace, err)
	}

	s := newSQLiteStore(m.db, namespace, m.key)
	m.stores[namespace] = s
	m.log.Debug(ctx, "opened preference namespace", "namespace", namespace)
	return s, nil
}

// migrateLegacy re-writes every legacy plaintext entry of the namespace into
// the encrypted table, typed by its stored type tag, then clears the legacy
// rows. Entries with an unknown type tag are logged and skipped. The whole
// step runs in one transaction, so a crash mid-migration leaves the legacy
// data untouched rather than half-consumed.
func (m *Manager) migrateLegacy(ctx context.Context, namespace string) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT key, type, value FROM legacy_prefs WHERE namespace = ?`, namespace)
		if err != nil {
			return fmt.Errorf("read legacy entries: %w", err)
		}
		defer rows.Close()

		type legacyEntry struct {
			key, typ, value string
		}
		var entries []legacyEntry
		for rows.Next() {
			var e legacyEntry
			if err := rows.Scan(&e.key, &e.typ, &e.value); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		dst := newSQLiteStore(tx, namespace, m.key)
		migrated := 0
		for _, e := range entries {
			var err error
			switch e.typ {
			case typeString:
				err = dst.PutString(ctx, e.key, e.value)
			case typeInt:
				var v int64
				if v, err = strconv.ParseInt(e.value, 10, 64); err == nil {
					err = dst.PutInt(ctx, e.key, v)
				}
			case typeBool:
				var v bool
				if v, err = strconv.ParseBool(e.value); err == nil {
					err = dst.PutBool(ctx, e.key, v)
				}
			default:
				m.log.Warn(ctx, "skipping legacy entry of unsupported type",
					"namespace", namespace, "key", e.key, "type", e.typ)
				continue
			}
			if err != nil {
				return fmt.Errorf("migrate %s.%s: %w", namespace, e.key, err)
			}
			migrated++
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM legacy_prefs WHERE namespace = ?`, namespace); err != nil {
			return fmt.Errorf("clear legacy entries: %w", err)
		}

		m.log.Info(ctx, "migrated legacy preferences",
			"namespace", namespace, "migrated", migrated, "skipped", len(entries)-migrated)
		return nil
	})
}
