package cards

import "context"

// DefaultColor is the ARGB display color assigned to cards that never had
// one picked (opaque blue).
const DefaultColor = int32(-14575885)

// Repository is the persistence contract for card records. Reads of a
// mandatory field (name, code type) on a record listed in the all-IDs index
// fail with common.ErrCorruptRecord when the field is absent; optional
// fields read back as their defaults.
type Repository interface {
	// All-IDs index.
	ReadAllIDs(ctx context.Context) ([]int32, error)
	AddID(ctx context.Context, id int32) error
	RemoveID(ctx context.Context, id int32) error

	// Identifier generation. Returned IDs are random int32 values checked
	// against the current ID set; property IDs are additionally never zero.
	NewRecordID(ctx context.Context) (int32, error)
	NewPropertyID(ctx context.Context, id int32) (int32, error)

	// Scalar fields.
	ReadName(ctx context.Context, id int32) (string, error)
	WriteName(ctx context.Context, id int32, name string) error
	ReadCode(ctx context.Context, id int32) (string, error)
	WriteCode(ctx context.Context, id int32, code string) error
	RemoveCode(ctx context.Context, id int32) error
	ReadCodeType(ctx context.Context, id int32) (CodeType, error)
	WriteCodeType(ctx context.Context, id int32, ct CodeType) error
	ReadCodeAsText(ctx context.Context, id int32) (bool, error)
	WriteCodeAsText(ctx context.Context, id int32, asText bool) error
	ReadColor(ctx context.Context, id int32) (int32, error)
	WriteColor(ctx context.Context, id int32, argb int32) error
	ReadFrontImagePath(ctx context.Context, id int32) (string, error)
	WriteFrontImagePath(ctx context.Context, id int32, path string) error
	RemoveFrontImagePath(ctx context.Context, id int32) error
	ReadBackImagePath(ctx context.Context, id int32) (string, error)
	WriteBackImagePath(ctx context.Context, id int32, path string) error
	RemoveBackImagePath(ctx context.Context, id int32) error

	// Properties.
	ReadPropertyIDs(ctx context.Context, id int32) ([]int32, error)
	WritePropertyIDs(ctx context.Context, id int32, propertyIDs []int32) error
	ReadPropertyName(ctx context.Context, id, propertyID int32) (string, error)
	WritePropertyName(ctx context.Context, id, propertyID int32, name string) error
	ReadPropertyValue(ctx context.Context, id, propertyID int32) (string, error)
	WritePropertyValue(ctx context.Context, id, propertyID int32, value string) error

	// RemoveProperty removes one property's fields. It does not touch the
	// property-ID list; updating the list is the caller's responsibility.
	RemoveProperty(ctx context.Context, id, propertyID int32) error

	// RemoveAllProperties removes every listed property and the list itself.
	RemoveAllProperties(ctx context.Context, id int32) error

	// RemoveRecord removes every field and property and drops the record
	// from the all-IDs index. Image files on disk are left alone.
	RemoveRecord(ctx context.Context, id int32) error

	// DeleteRecord is RemoveRecord plus best-effort deletion of the image
	// files the record references. Safe to call twice.
	DeleteRecord(ctx context.Context, id int32) error
}
