package cards

import (
	"context"

	"github.com/dmitrijs2005/cardkeep/internal/images"
)

// NewImageFieldStore adapts a card repository to the image session's
// field-persistence contract for one record.
func NewImageFieldStore(r Repository, id int32) images.FieldStore {
	return imageFieldStore{r: r, id: id}
}

type imageFieldStore struct {
	r  Repository
	id int32
}

func (f imageFieldStore) WriteImagePath(ctx context.Context, slot images.Slot, path string) error {
	if slot == images.SlotFront {
		return f.r.WriteFrontImagePath(ctx, f.id, path)
	}
	return f.r.WriteBackImagePath(ctx, f.id, path)
}

func (f imageFieldStore) RemoveImagePath(ctx context.Context, slot images.Slot) error {
	if slot == images.SlotFront {
		return f.r.RemoveFrontImagePath(ctx, f.id)
	}
	return f.r.RemoveBackImagePath(ctx, f.id)
}
