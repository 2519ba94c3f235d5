package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) listPasswords(ctx context.Context) {
	ids, err := a.passwords.ReadAllIDs(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, id := range ids {
		name, err := a.passwords.ReadName(ctx, id)
		if err != nil {
			log.Printf("password %d: %v", id, err)
			continue
		}
		fmt.Printf("%d\t%s\n", id, name)
	}
}

func (a *App) addPassword(ctx context.Context) error {

	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	secret, err := GetSimpleText(a.reader, "Password", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	id, err := a.passwords.NewRecordID(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.passwords.WriteName(ctx, id, name); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.passwords.WritePassword(ctx, id, secret); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.passwords.AddID(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Created password %d\n", id)
	return nil
}

func (a *App) showPassword(ctx context.Context) error {

	id, err := GetID(a.reader, "Enter password id to show", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	name, err := a.passwords.ReadName(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	secret, err := a.passwords.ReadPassword(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println(name)
	fmt.Printf("Password: %s\n", secret)

	propertyIDs, err := a.passwords.ReadPropertyIDs(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	for _, propertyID := range propertyIDs {
		pn, err := a.passwords.ReadPropertyName(ctx, id, propertyID)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			continue
		}
		pv, err := a.passwords.ReadPropertyValue(ctx, id, propertyID)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			continue
		}
		hidden, err := a.passwords.ReadPropertyHidden(ctx, id, propertyID)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			continue
		}
		if hidden {
			pv = "********"
		}
		fmt.Printf("%s: %s\n", pn, pv)
	}
	return nil
}

func (a *App) deletePassword(ctx context.Context) error {

	id, err := GetID(a.reader, "Enter password id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Delete password %d? (y/n)", id), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "y" {
		fmt.Println("Not deleted")
		return nil
	}

	if err := a.passwords.DeleteRecord(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Deleted password %d\n", id)
	return nil
}
