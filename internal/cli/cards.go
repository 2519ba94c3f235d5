package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cardkeep/internal/cards"
	"github.com/dmitrijs2005/cardkeep/internal/images"
)

func (a *App) listCards(ctx context.Context) {
	ids, err := a.cards.ReadAllIDs(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, id := range ids {
		name, err := a.cards.ReadName(ctx, id)
		if err != nil {
			log.Printf("card %d: %v", id, err)
			continue
		}
		fmt.Printf("%d\t%s\n", id, name)
	}
}

func (a *App) addCard(ctx context.Context) error {

	name, err := GetSimpleText(a.reader, "Card name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	code, err := GetSimpleText(a.reader, "Code", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Code types:")
	for _, ct := range cards.AllCodeTypes() {
		fmt.Printf("  %s\n", ct)
	}
	ctName, err := GetSimpleText(a.reader, "Code type", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	ct, err := cards.ParseCodeType(ctName)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	id, err := a.cards.NewRecordID(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.writeNewCard(ctx, id, name, code, ct); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.addCardProperties(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Created card %d\n", id)
	return nil
}

// addCardProperties prompts for name/value pairs until an empty name.
func (a *App) addCardProperties(ctx context.Context, id int32) error {
	var propertyIDs []int32
	for {
		pn, err := GetSimpleText(a.reader, "Property name (empty to finish)", os.Stdout)
		if err != nil || pn == "" {
			break
		}
		pv, err := GetSimpleText(a.reader, "Property value", os.Stdout)
		if err != nil {
			return err
		}

		propertyID, err := a.cards.NewPropertyID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.cards.WritePropertyName(ctx, id, propertyID, pn); err != nil {
			return err
		}
		if err := a.cards.WritePropertyValue(ctx, id, propertyID, pv); err != nil {
			return err
		}
		propertyIDs = append(propertyIDs, propertyID)
	}
	if len(propertyIDs) == 0 {
		return nil
	}
	return a.cards.WritePropertyIDs(ctx, id, propertyIDs)
}

func (a *App) writeNewCard(ctx context.Context, id int32, name, code string, ct cards.CodeType) error {
	if err := a.cards.WriteName(ctx, id, name); err != nil {
		return err
	}
	if code != "" {
		if err := a.cards.WriteCode(ctx, id, code); err != nil {
			return err
		}
	}
	if err := a.cards.WriteCodeType(ctx, id, ct); err != nil {
		return err
	}
	return a.cards.AddID(ctx, id)
}

func (a *App) showCard(ctx context.Context) error {

	id, err := GetID(a.reader, "Enter card id to show", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	name, err := a.cards.ReadName(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	ct, err := a.cards.ReadCodeType(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	code, err := a.cards.ReadCode(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	color, err := a.cards.ReadColor(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println(name)
	fmt.Printf("Code: %s (%s)\n", code, ct)
	fmt.Printf("Color: #%08X\n", uint32(color))

	propertyIDs, err := a.cards.ReadPropertyIDs(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	for _, propertyID := range propertyIDs {
		pn, err := a.cards.ReadPropertyName(ctx, id, propertyID)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			continue
		}
		pv, err := a.cards.ReadPropertyValue(ctx, id, propertyID)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			continue
		}
		fmt.Printf("%s: %s\n", pn, pv)
	}

	a.showCardImage(ctx, id, images.SlotFront)
	a.showCardImage(ctx, id, images.SlotBack)
	return nil
}

func (a *App) showCardImage(ctx context.Context, id int32, slot images.Slot) {
	var path string
	var err error
	if slot == images.SlotFront {
		path, err = a.cards.ReadFrontImagePath(ctx, id)
	} else {
		path, err = a.cards.ReadBackImagePath(ctx, id)
	}
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	if path == "" {
		return
	}

	data, err := a.loader.Load(ctx, path)
	switch {
	case errors.Is(err, images.ErrTooLarge):
		// downgrade to "no image" instead of failing on every show
		a.dropImage(ctx, id, slot, path)
		log.Printf("%s image too large, removed: %s", slot, path)
		return
	case errors.Is(err, images.ErrDecrypt):
		// possibly transient, keep the file and the field
		log.Printf("Warning: could not decrypt %s image: %s", slot, err.Error())
		return
	case err != nil:
		log.Printf("Error: %s image: %s", slot, err.Error())
		return
	}
	fmt.Printf("%s image: %s (%d bytes)\n", slot, path, len(data))
}

// dropImage deletes an undecodable image file and clears its field.
func (a *App) dropImage(ctx context.Context, id int32, slot images.Slot, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		a.log.Warn(ctx, "could not delete image file", "path", path, "error", err)
	}
	var err error
	if slot == images.SlotFront {
		err = a.cards.RemoveFrontImagePath(ctx, id)
	} else {
		err = a.cards.RemoveBackImagePath(ctx, id)
	}
	if err != nil {
		a.log.Warn(ctx, "could not clear image field", "card", id, "slot", slot.String(), "error", err)
	}
}

func (a *App) deleteCard(ctx context.Context) error {

	id, err := GetID(a.reader, "Enter card id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Delete card %d and its images? (y/n)", id), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "y" {
		fmt.Println("Not deleted")
		return nil
	}

	if err := a.cards.DeleteRecord(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Deleted card %d\n", id)
	return nil
}

// editCardImages runs the staged image-edit flow for one card. Nothing the
// user does here touches permanent storage until "save"; "cancel" (or EOF)
// leaves the card exactly as it was.
func (a *App) editCardImages(ctx context.Context) error {

	id, err := GetID(a.reader, "Enter card id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	front, err := a.cards.ReadFrontImagePath(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	back, err := a.cards.ReadBackImagePath(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fields := cards.NewImageFieldStore(a.cards, id)
	session := images.NewSession(fields, a.crypter, a.config.ImageDir(), a.log, front, back)

	for {
		cmd, err := GetSimpleText(a.reader,
			"Image command (front <file>, back <file>, rmfront, rmback, save, cancel)", os.Stdout)
		if err != nil {
			// abandoned mid-edit: discard the staged changes
			return session.Cancel(ctx)
		}

		switch {
		case cmd == "save":
			if err := session.Save(ctx); err != nil {
				log.Printf("Error: %s", err.Error())
				return err
			}
			fmt.Println("Saved")
			return nil

		case cmd == "cancel":
			if err := session.Cancel(ctx); err != nil {
				log.Printf("Error: %s", err.Error())
				return err
			}
			fmt.Println("Cancelled")
			return nil

		case cmd == "rmfront":
			if err := session.Remove(ctx, images.SlotFront); err != nil {
				log.Printf("Error: %s", err.Error())
			}

		case cmd == "rmback":
			if err := session.Remove(ctx, images.SlotBack); err != nil {
				log.Printf("Error: %s", err.Error())
			}

		case len(cmd) > 6 && cmd[:6] == "front ":
			a.pickImage(session, images.SlotFront, cmd[6:])

		case len(cmd) > 5 && cmd[:5] == "back ":
			a.pickImage(session, images.SlotBack, cmd[5:])

		default:
			fmt.Println("Unknown image command:", cmd)
		}
	}
}

func (a *App) pickImage(session *images.Session, slot images.Slot, src string) {
	staged, err := a.copyToScratch(src)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	session.Pick(slot, staged)
	fmt.Printf("Staged %s image: %s\n", slot, staged)
}

// copyToScratch stages a user-supplied file into the scratch directory so
// the session owns its lifetime from here on.
func (a *App) copyToScratch(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(a.config.ScratchDir, uuid.NewString()+filepath.Ext(src))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}
