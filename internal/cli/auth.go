package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/shared"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password, creates the account and
// provisions its master key. The password byte slices are wiped before
// returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	if len(username) < minUsernameLen {
		fmt.Printf("Username must be at least %d characters\n", minUsernameLen)
		return nil
	}

	password, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if len(password) < minPasswordLen {
		fmt.Printf("Password must be at least %d characters\n", minPasswordLen)
		return nil
	}

	confirm, err := getPassword("Repeat the password", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		fmt.Println("Passwords do not match")
		return nil
	}

	if err := a.identity.Register(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			fmt.Println("That username is already taken")
			return nil
		}
		return err
	}

	fmt.Println("Account created, you can now log in")
	return nil
}

// Login prompts for credentials, unlocks the master key and opens a session.
// The key is handed to the session store and wiped locally.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	identity, masterKey, err := a.identity.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrAuthFailed) {
			fmt.Println("Invalid username or password")
			return nil
		}
		return err
	}
	defer shared.WipeByteArray(masterKey)

	token, err := a.sessions.Create(ctx, identity.ID, identity.Username, masterKey)
	if err != nil {
		return err
	}

	a.token = token
	a.username = identity.Username
	fmt.Printf("Logged in as %s\n", identity.Username)
	return nil
}

// Logout revokes the active session; the store wipes the cached master key.
func (a *App) Logout(ctx context.Context) error {
	if a.token == "" {
		return nil
	}
	if err := a.sessions.Revoke(ctx, a.token); err != nil && !errors.Is(err, common.ErrInvalidToken) {
		return err
	}
	a.token = ""
	a.username = ""
	fmt.Println("Logged out")
	return nil
}

// DeleteAccount removes the logged-in user and every entry they own after
// an explicit confirmation.
func (a *App) DeleteAccount(ctx context.Context) error {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return nil
	}

	answer, err := getSimpleText(a.reader,
		"This permanently deletes your account and all entries. Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.identity.DeleteAccount(ctx, sess.UserID); err != nil {
		return err
	}

	_ = a.sessions.Revoke(ctx, a.token)
	a.token = ""
	a.username = ""
	fmt.Println("Account deleted")
	return nil
}
