package cli

import (
	"context"

	"github.com/dmitrijs2005/cardkeep/internal/cards"
)

// seededFlagKey marks that the example card was created once. The flag, not
// the card's presence, gates seeding: a user who deletes the example must
// not get it back on the next start.
const seededFlagKey = "example_card_added"

func (a *App) seedExampleCard(ctx context.Context) error {
	done, err := a.cardStore.GetBool(ctx, seededFlagKey, false)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	id, err := a.cards.NewRecordID(ctx)
	if err != nil {
		return err
	}
	if err := a.writeNewCard(ctx, id, "Example Card", "12345678", cards.CodeTypeCode128); err != nil {
		return err
	}

	propertyID, err := a.cards.NewPropertyID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.cards.WritePropertyName(ctx, id, propertyID, "Note"); err != nil {
		return err
	}
	if err := a.cards.WritePropertyValue(ctx, id, propertyID, "You can delete this card"); err != nil {
		return err
	}
	if err := a.cards.WritePropertyIDs(ctx, id, []int32{propertyID}); err != nil {
		return err
	}

	a.log.Info(ctx, "seeded example card", "id", id)
	return a.cardStore.PutBool(ctx, seededFlagKey, true)
}
