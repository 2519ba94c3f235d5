package passwords

import "context"

// Repository is the persistence contract for password records. Reading the
// name of a record listed in the all-IDs index fails with
// common.ErrCorruptRecord when absent; other fields read back as defaults.
type Repository interface {
	ReadAllIDs(ctx context.Context) ([]int32, error)
	AddID(ctx context.Context, id int32) error
	RemoveID(ctx context.Context, id int32) error

	NewRecordID(ctx context.Context) (int32, error)
	NewPropertyID(ctx context.Context, id int32) (int32, error)

	ReadName(ctx context.Context, id int32) (string, error)
	WriteName(ctx context.Context, id int32, name string) error
	ReadPassword(ctx context.Context, id int32) (string, error)
	WritePassword(ctx context.Context, id int32, value string) error

	ReadPropertyIDs(ctx context.Context, id int32) ([]int32, error)
	WritePropertyIDs(ctx context.Context, id int32, propertyIDs []int32) error
	ReadPropertyName(ctx context.Context, id, propertyID int32) (string, error)
	WritePropertyName(ctx context.Context, id, propertyID int32, name string) error
	ReadPropertyValue(ctx context.Context, id, propertyID int32) (string, error)
	WritePropertyValue(ctx context.Context, id, propertyID int32, value string) error
	ReadPropertyHidden(ctx context.Context, id, propertyID int32) (bool, error)
	WritePropertyHidden(ctx context.Context, id, propertyID int32, hidden bool) error

	// RemoveProperty removes one property's fields without touching the
	// property-ID list.
	RemoveProperty(ctx context.Context, id, propertyID int32) error
	RemoveAllProperties(ctx context.Context, id int32) error

	// RemoveRecord removes every field and property and drops the record
	// from the all-IDs index. Passwords reference no files, so DeleteRecord
	// and RemoveRecord coincide; both are kept for symmetry with cards.
	RemoveRecord(ctx context.Context, id int32) error
	DeleteRecord(ctx context.Context, id int32) error
}
