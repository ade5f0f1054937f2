package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/models"
	"github.com/dmitrijs2005/securevault/internal/shared"
)

// add prompts for a new credential and stores it encrypted under the
// session's master key.
func (a *App) add(ctx context.Context) error {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return nil
	}
	defer shared.WipeByteArray(sess.MasterKey)

	serviceName, err := getSimpleText(a.reader, "Service name", os.Stdout)
	if err != nil {
		return err
	}
	if serviceName == "" {
		fmt.Println("Service name cannot be empty")
		return nil
	}

	username, err := getSimpleText(a.reader, "Username for this service", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Password for this service", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	notes, err := GetMultiline(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.vault.AddEntry(ctx, sess.UserID, serviceName, username, string(password), notes, sess.MasterKey)
	if err != nil {
		return err
	}

	fmt.Printf("Saved entry %s\n", id)
	return nil
}

// list decrypts and prints every entry the user owns.
func (a *App) list(ctx context.Context) error {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return nil
	}
	defer shared.WipeByteArray(sess.MasterKey)

	entries, err := a.vault.GetAllEntries(ctx, sess.UserID, sess.MasterKey)
	if err != nil {
		if errors.Is(err, common.ErrDecryptionFailed) {
			fmt.Println("Vault data could not be decrypted; the store may be damaged")
			return nil
		}
		return err
	}

	if len(entries) == 0 {
		fmt.Println("The vault is empty")
		return nil
	}

	for _, e := range entries {
		printEntry(e)
	}
	return nil
}

// get looks up the oldest entry for a service name.
func (a *App) get(ctx context.Context, serviceName string) error {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return nil
	}
	defer shared.WipeByteArray(sess.MasterKey)

	entry, err := a.vault.GetEntryByService(ctx, sess.UserID, serviceName, sess.MasterKey)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			fmt.Printf("No entry for %q\n", serviceName)
			return nil
		case errors.Is(err, common.ErrDecryptionFailed):
			fmt.Println("Entry could not be decrypted; the store may be damaged")
			return nil
		}
		return err
	}

	printEntry(entry)
	return nil
}

// update changes the password and/or notes of an entry. Empty password
// input keeps the current one; notes are replaced only when the user asks,
// and an empty replacement removes them.
func (a *App) update(ctx context.Context, entryID string) error {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return nil
	}
	defer shared.WipeByteArray(sess.MasterKey)

	password, err := getPassword("New password (leave empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	var newPassword *string
	if len(password) > 0 {
		s := string(password)
		newPassword = &s
	}

	var newNotes *string
	answer, err := getSimpleText(a.reader, "Replace notes? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if answer == "y" {
		notes, err := GetMultiline(a.reader, "New notes (empty removes them)", os.Stdout)
		if err != nil {
			return err
		}
		newNotes = &notes
	}

	if err := a.vault.UpdateEntry(ctx, sess.UserID, entryID, newPassword, newNotes, sess.MasterKey); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Printf("No entry with id %s\n", entryID)
			return nil
		}
		return err
	}

	fmt.Println("Entry updated")
	return nil
}

// delete removes one entry by id.
func (a *App) delete(ctx context.Context, entryID string) error {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return nil
	}
	defer shared.WipeByteArray(sess.MasterKey)

	if err := a.vault.DeleteEntry(ctx, sess.UserID, entryID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Printf("No entry with id %s\n", entryID)
			return nil
		}
		return err
	}

	fmt.Println("Entry deleted")
	return nil
}

func printEntry(e *models.DecryptedEntry) {
	fmt.Printf("[%s] %s\n", e.ID, e.ServiceName)
	fmt.Printf("  username: %s\n", e.Username)
	fmt.Printf("  password: %s\n", e.Password)
	if e.Notes != "" {
		fmt.Printf("  notes:    %s\n", e.Notes)
	}
	fmt.Printf("  updated:  %s\n", e.UpdatedAt.Format("2006-01-02 15:04:05"))
}
