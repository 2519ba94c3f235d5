package passwords

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/dmitrijs2005/cardkeep/internal/prefs"
)

// PrefsRepository implements Repository over an encrypted preference store.
type PrefsRepository struct {
	store prefs.Store
	log   logging.Logger

	// idsMu serializes the all-IDs read-modify-write.
	idsMu sync.Mutex

	// randID is a test seam for forcing ID collisions.
	randID func() int32
}

func NewPrefsRepository(store prefs.Store, log logging.Logger) *PrefsRepository {
	return &PrefsRepository{store: store, log: log, randID: common.GenerateRandInt32}
}

func (r *PrefsRepository) ReadAllIDs(ctx context.Context) ([]int32, error) {
	encoded, err := r.store.GetString(ctx, allIDsKey, "")
	if err != nil {
		return nil, err
	}
	return prefs.DecodeIDs(encoded)
}

func (r *PrefsRepository) AddID(ctx context.Context, id int32) error {
	r.idsMu.Lock()
	defer r.idsMu.Unlock()

	ids, err := r.ReadAllIDs(ctx)
	if err != nil {
		return err
	}
	if containsID(ids, id) {
		return nil
	}
	return r.writeAllIDs(ctx, append(ids, id))
}

func (r *PrefsRepository) RemoveID(ctx context.Context, id int32) error {
	r.idsMu.Lock()
	defer r.idsMu.Unlock()

	ids, err := r.ReadAllIDs(ctx)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	return r.writeAllIDs(ctx, kept)
}

func (r *PrefsRepository) writeAllIDs(ctx context.Context, ids []int32) error {
	encoded, present := prefs.EncodeIDs(ids)
	if !present {
		return r.store.Remove(ctx, allIDsKey)
	}
	return r.store.PutString(ctx, allIDsKey, encoded)
}

func (r *PrefsRepository) NewRecordID(ctx context.Context) (int32, error) {
	used, err := r.ReadAllIDs(ctx)
	if err != nil {
		return 0, err
	}
	for {
		id := r.randID()
		if !containsID(used, id) {
			return id, nil
		}
	}
}

func (r *PrefsRepository) NewPropertyID(ctx context.Context, id int32) (int32, error) {
	used, err := r.ReadPropertyIDs(ctx, id)
	if err != nil {
		return 0, err
	}
	for {
		propertyID := r.randID()
		if propertyID != 0 && !containsID(used, propertyID) {
			return propertyID, nil
		}
	}
}

func (r *PrefsRepository) ReadName(ctx context.Context, id int32) (string, error) {
	key := fieldKey(id, fieldName)
	ok, err := r.store.Contains(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("password %d name: %w", id, common.ErrCorruptRecord)
	}
	return r.store.GetString(ctx, key, "")
}

func (r *PrefsRepository) WriteName(ctx context.Context, id int32, name string) error {
	return r.store.PutString(ctx, fieldKey(id, fieldName), name)
}

func (r *PrefsRepository) ReadPassword(ctx context.Context, id int32) (string, error) {
	return r.store.GetString(ctx, fieldKey(id, fieldPassword), "")
}

func (r *PrefsRepository) WritePassword(ctx context.Context, id int32, value string) error {
	return r.store.PutString(ctx, fieldKey(id, fieldPassword), value)
}

func (r *PrefsRepository) ReadPropertyIDs(ctx context.Context, id int32) ([]int32, error) {
	encoded, err := r.store.GetString(ctx, fieldKey(id, fieldPropertyIDs), "")
	if err != nil {
		return nil, err
	}
	return prefs.DecodeIDs(encoded)
}

func (r *PrefsRepository) WritePropertyIDs(ctx context.Context, id int32, propertyIDs []int32) error {
	encoded, present := prefs.EncodeIDs(propertyIDs)
	if !present {
		return r.store.Remove(ctx, fieldKey(id, fieldPropertyIDs))
	}
	return r.store.PutString(ctx, fieldKey(id, fieldPropertyIDs), encoded)
}

func (r *PrefsRepository) ReadPropertyName(ctx context.Context, id, propertyID int32) (string, error) {
	return r.store.GetString(ctx, propKey(id, propertyID, propFieldName), "")
}

func (r *PrefsRepository) WritePropertyName(ctx context.Context, id, propertyID int32, name string) error {
	return r.store.PutString(ctx, propKey(id, propertyID, propFieldName), name)
}

func (r *PrefsRepository) ReadPropertyValue(ctx context.Context, id, propertyID int32) (string, error) {
	return r.store.GetString(ctx, propKey(id, propertyID, propFieldValue), "")
}

func (r *PrefsRepository) WritePropertyValue(ctx context.Context, id, propertyID int32, value string) error {
	return r.store.PutString(ctx, propKey(id, propertyID, propFieldValue), value)
}

func (r *PrefsRepository) ReadPropertyHidden(ctx context.Context, id, propertyID int32) (bool, error) {
	return r.store.GetBool(ctx, propKey(id, propertyID, propFieldHidden), false)
}

func (r *PrefsRepository) WritePropertyHidden(ctx context.Context, id, propertyID int32, hidden bool) error {
	return r.store.PutBool(ctx, propKey(id, propertyID, propFieldHidden), hidden)
}

func (r *PrefsRepository) RemoveProperty(ctx context.Context, id, propertyID int32) error {
	for _, field := range []string{propFieldName, propFieldValue, propFieldHidden} {
		if err := r.store.Remove(ctx, propKey(id, propertyID, field)); err != nil {
			return err
		}
	}
	return nil
}

func (r *PrefsRepository) RemoveAllProperties(ctx context.Context, id int32) error {
	propertyIDs, err := r.ReadPropertyIDs(ctx, id)
	if err != nil {
		return err
	}
	for _, propertyID := range propertyIDs {
		if err := r.RemoveProperty(ctx, id, propertyID); err != nil {
			return err
		}
	}
	return r.store.Remove(ctx, fieldKey(id, fieldPropertyIDs))
}

func (r *PrefsRepository) RemoveRecord(ctx context.Context, id int32) error {
	if err := r.RemoveAllProperties(ctx, id); err != nil {
		return err
	}
	for _, field := range scalarFields {
		if err := r.store.Remove(ctx, fieldKey(id, field)); err != nil {
			return err
		}
	}
	return r.RemoveID(ctx, id)
}

func (r *PrefsRepository) DeleteRecord(ctx context.Context, id int32) error {
	return r.RemoveRecord(ctx, id)
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
