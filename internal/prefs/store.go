package prefs

import "context"

// Store is typed access to one encrypted preference namespace. Values are
// encrypted at rest; an absent key reads back as the supplied default, with
// no way to distinguish "absent" from "stored default" (use Contains when
// that matters).
//
// Each put is its own atomic commit at the key-value layer. There are no
// multi-key transactions: a crash between two field writes of the same
// record leaves it partially updated (accepted; see the repository layer).
type Store interface {
	GetString(ctx context.Context, key, def string) (string, error)
	GetInt(ctx context.Context, key string, def int64) (int64, error)
	GetBool(ctx context.Context, key string, def bool) (bool, error)

	PutString(ctx context.Context, key, value string) error
	PutInt(ctx context.Context, key string, value int64) error
	PutBool(ctx context.Context, key string, value bool) error

	Remove(ctx context.Context, key string) error
	Contains(ctx context.Context, key string) (bool, error)
}
