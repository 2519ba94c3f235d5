// Package images manages record image files: the staged edit session that
// tracks the committed ("last") versus in-edit ("current") file per slot,
// promotion of scratch files into encrypted permanent storage on save, and
// decoding for display.
package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cardkeep/internal/logging"
	"github.com/google/uuid"
)

// removeFile is a test seam for file deletion.
var removeFile = os.Remove

// Slot is one of the two image positions of a record.
type Slot int

const (
	SlotFront Slot = iota
	SlotBack
)

func (s Slot) String() string {
	if s == SlotFront {
		return "front"
	}
	return "back"
}

// Change is the explicit per-slot edit state. Tracking it directly, rather
// than inferring "changed" from reference equality of file handles, is what
// makes save/cancel reconciliation unambiguous.
type Change int

const (
	// ChangeNone: the slot still shows the committed image (or none).
	ChangeNone Change = iota
	// ChangeReplaced: the user picked a new file; current points at a
	// scratch file not yet promoted.
	ChangeReplaced
	// ChangeCleared: the user removed the image.
	ChangeCleared
)

// FieldStore persists the image-path fields of the record under edit.
type FieldStore interface {
	WriteImagePath(ctx context.Context, slot Slot, path string) error
	RemoveImagePath(ctx context.Context, slot Slot) error
}

// FileEncryptor promotes a plaintext scratch file into an encrypted copy.
type FileEncryptor interface {
	Encrypt(src, dst string) error
}

type slotState struct {
	last    string
	current string
	change  Change
}

// Session is one staged edit of a record's images. Operations are expected
// to be called from a single flow; a Session is not safe for concurrent use.
// After Save or Cancel the session is closed: both slots satisfy
// last == current with no pending change.
type Session struct {
	slots   [2]slotState
	fields  FieldStore
	enc     FileEncryptor
	permDir string
	log     logging.Logger
}

// NewSession opens an edit session. front and back are the currently
// persisted image paths (empty for none, or for a new record).
func NewSession(fields FieldStore, enc FileEncryptor, permDir string, log logging.Logger, front, back string) *Session {
	s := &Session{fields: fields, enc: enc, permDir: permDir, log: log}
	s.slots[SlotFront] = slotState{last: front, current: front}
	s.slots[SlotBack] = slotState{last: back, current: back}
	return s
}

// Current returns the path being displayed for the slot ("" for none).
func (s *Session) Current(slot Slot) string {
	return s.slots[slot].current
}

// Changed reports whether the slot has a pending edit.
func (s *Session) Changed(slot Slot) bool {
	return s.slots[slot].change != ChangeNone
}

// Pick replaces the slot's image with a freshly supplied scratch file. A
// previously picked scratch file is a throwaway and is deleted; the
// committed file is never touched here.
func (s *Session) Pick(slot Slot, path string) {
	st := &s.slots[slot]
	if st.change == ChangeReplaced && st.current != "" {
		if err := removeFile(st.current); err != nil && !os.IsNotExist(err) {
			s.log.Warn(context.Background(), "could not delete replaced scratch file",
				"slot", slot.String(), "path", st.current, "error", err)
		}
	}
	st.current = path
	st.change = ChangeReplaced
}

// Remove clears the slot. The persisted field is removed immediately, so a
// concurrent read already sees "no image"; a picked scratch file is deleted.
func (s *Session) Remove(ctx context.Context, slot Slot) error {
	if err := s.fields.RemoveImagePath(ctx, slot); err != nil {
		return err
	}
	st := &s.slots[slot]
	if st.change == ChangeReplaced && st.current != "" {
		if err := removeFile(st.current); err != nil && !os.IsNotExist(err) {
			s.log.Warn(ctx, "could not delete removed scratch file",
				"slot", slot.String(), "path", st.current, "error", err)
		}
	}
	st.current = ""
	st.change = ChangeCleared
	return nil
}

// Save commits both slots. For a replaced slot the scratch file is promoted
// into encrypted permanent storage and the new path persisted; the
// superseded committed file and the scratch source are deleted. A promotion
// failure aborts the save: the record must never end up pointing at a
// scratch file that is about to be swept.
func (s *Session) Save(ctx context.Context) error {
	for slot := SlotFront; slot <= SlotBack; slot++ {
		st := &s.slots[slot]
		switch st.change {
		case ChangeNone:
			// untouched slot: no writes, no re-encryption

		case ChangeCleared:
			if st.last != "" {
				s.deleteQuietly(ctx, slot, st.last)
			}
			st.last, st.current = "", ""
			st.change = ChangeNone

		case ChangeReplaced:
			dst := filepath.Join(s.permDir, uuid.NewString()+".img")
			if err := s.enc.Encrypt(st.current, dst); err != nil {
				return fmt.Errorf("promote %s image: %w", slot, err)
			}
			s.deleteQuietly(ctx, slot, st.current)
			if st.last != "" {
				s.deleteQuietly(ctx, slot, st.last)
			}
			if err := s.fields.WriteImagePath(ctx, slot, dst); err != nil {
				return err
			}
			st.last, st.current = dst, dst
			st.change = ChangeNone
		}
	}
	return nil
}

// Cancel discards the session. Picked scratch files are deleted; committed
// files are untouched. A slot that was cleared mid-session gets its
// persisted field restored, so the record reverts to its pre-session state.
func (s *Session) Cancel(ctx context.Context) error {
	for slot := SlotFront; slot <= SlotBack; slot++ {
		st := &s.slots[slot]
		switch st.change {
		case ChangeReplaced:
			if st.current != "" {
				s.deleteQuietly(ctx, slot, st.current)
			}
			// the slot may have been cleared before this pick, which
			// already removed the persisted field; write it back
			if st.last != "" {
				if err := s.fields.WriteImagePath(ctx, slot, st.last); err != nil {
					return err
				}
			}
		case ChangeCleared:
			if st.last != "" {
				if err := s.fields.WriteImagePath(ctx, slot, st.last); err != nil {
					return err
				}
			}
		}
		st.current = st.last
		st.change = ChangeNone
	}
	return nil
}

func (s *Session) deleteQuietly(ctx context.Context, slot Slot, path string) {
	if err := removeFile(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn(ctx, "could not delete image file",
			"slot", slot.String(), "path", path, "error", err)
	}
}
