package cards

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/cardkeep/internal/common"
	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/dmitrijs2005/cardkeep/internal/prefs"
)

// removeFile is a test seam for image file deletion.
var removeFile = os.Remove

// PrefsRepository implements Repository over an encrypted preference store.
type PrefsRepository struct {
	store prefs.Store
	log   logging.Logger

	// idsMu serializes the all-IDs read-modify-write. Without it two
	// overlapping AddID/RemoveID calls can lose an update.
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
		// zero is reserved as "no property"
		if propertyID != 0 && !containsID(used, propertyID) {
			return propertyID, nil
		}
	}
}

func (r *PrefsRepository) ReadName(ctx context.Context, id int32) (string, error) {
	return r.readMandatoryString(ctx, id, fieldName)
}

func (r *PrefsRepository) WriteName(ctx context.Context, id int32, name string) error {
	return r.store.PutString(ctx, fieldKey(id, fieldName), name)
}

func (r *PrefsRepository) ReadCode(ctx context.Context, id int32) (string, error) {
	return r.store.GetString(ctx, fieldKey(id, fieldCode), "")
}

func (r *PrefsRepository) WriteCode(ctx context.Context, id int32, code string) error {
	return r.store.PutString(ctx, fieldKey(id, fieldCode), code)
}

func (r *PrefsRepository) RemoveCode(ctx context.Context, id int32) error {
	return r.store.Remove(ctx, fieldKey(id, fieldCode))
}

func (r *PrefsRepository) ReadCodeType(ctx context.Context, id int32) (CodeType, error) {
	key := fieldKey(id, fieldCodeType)
	ok, err := r.store.Contains(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("card %d code type: %w", id, common.ErrCorruptRecord)
	}
	v, err := r.store.GetInt(ctx, key, 0)
	if err != nil {
		return 0, err
	}
	return codeTypeFromStored(v), nil
}

func (r *PrefsRepository) WriteCodeType(ctx context.Context, id int32, ct CodeType) error {
	ct.desc() // reject unknown variants before persisting
	return r.store.PutInt(ctx, fieldKey(id, fieldCodeType), int64(ct))
}

func (r *PrefsRepository) ReadCodeAsText(ctx context.Context, id int32) (bool, error) {
	return r.store.GetBool(ctx, fieldKey(id, fieldCodeTypeText), false)
}

func (r *PrefsRepository) WriteCodeAsText(ctx context.Context, id int32, asText bool) error {
	return r.store.PutBool(ctx, fieldKey(id, fieldCodeTypeText), asText)
}

func (r *PrefsRepository) ReadColor(ctx context.Context, id int32) (int32, error) {
	v, err := r.store.GetInt(ctx, fieldKey(id, fieldColor), int64(DefaultColor))
	return int32(v), err
}

func (r *PrefsRepository) WriteColor(ctx context.Context, id int32, argb int32) error {
	return r.store.PutInt(ctx, fieldKey(id, fieldColor), int64(argb))
}

func (r *PrefsRepository) ReadFrontImagePath(ctx context.Context, id int32) (string, error) {
	return r.store.GetString(ctx, fieldKey(id, fieldFrontImage), "")
}

func (r *PrefsRepository) WriteFrontImagePath(ctx context.Context, id int32, path string) error {
	return r.store.PutString(ctx, fieldKey(id, fieldFrontImage), path)
}

func (r *PrefsRepository) RemoveFrontImagePath(ctx context.Context, id int32) error {
	return r.store.Remove(ctx, fieldKey(id, fieldFrontImage))
}

func (r *PrefsRepository) ReadBackImagePath(ctx context.Context, id int32) (string, error) {
	return r.store.GetString(ctx, fieldKey(id, fieldBackImage), "")
}

func (r *PrefsRepository) WriteBackImagePath(ctx context.Context, id int32, path string) error {
	return r.store.PutString(ctx, fieldKey(id, fieldBackImage), path)
}

func (r *PrefsRepository) RemoveBackImagePath(ctx context.Context, id int32) error {
	return r.store.Remove(ctx, fieldKey(id, fieldBackImage))
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

func (r *PrefsRepository) RemoveProperty(ctx context.Context, id, propertyID int32) error {
	if err := r.store.Remove(ctx, propKey(id, propertyID, propFieldName)); err != nil {
		return err
	}
	return r.store.Remove(ctx, propKey(id, propertyID, propFieldValue))
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
	for _, read := range []func(context.Context, int32) (string, error){
		r.ReadFrontImagePath, r.ReadBackImagePath,
	} {
		path, err := read(ctx, id)
		if err != nil {
			return err
		}
		if path == "" {
			continue
		}
		// best effort: an undeletable file becomes an orphan blob, the
		// record itself stays consistent
		if err := removeFile(path); err != nil && !os.IsNotExist(err) {
			r.log.Warn(ctx, "could not delete image file", "card", id, "path", path, "error", err)
		}
	}
	return r.RemoveRecord(ctx, id)
}

func (r *PrefsRepository) readMandatoryString(ctx context.Context, id int32, field string) (string, error) {
	key := fieldKey(id, field)
	ok, err := r.store.Contains(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("card %d %s: %w", id, field, common.ErrCorruptRecord)
	}
	return r.store.GetString(ctx, key, "")
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
