package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/signer"
)

// getSimpleText, getPassword, and getSecret are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getSecret = GetSecret

// ImportKey prompts for an account, key type, WIF key, and password, and
// stores the key encrypted in the local store. The WIF and password are
// wiped before returning.
func (a *App) ImportKey(ctx context.Context) error {
	account, err := getSimpleText(a.reader, "Enter account name", os.Stdout)
	if err != nil {
		return err
	}
	keyType, err := getSimpleText(a.reader, "Enter key type (posting/active)", os.Stdout)
	if err != nil {
		return err
	}

	wif, err := getSecret("Enter WIF private key", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(wif)

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.ImportKey(account, keyType, string(wif), password); err != nil {
		return err
	}

	fmt.Println("Key imported.")
	return nil
}

// RemoveKey prompts for an account and key type and deletes the stored key.
func (a *App) RemoveKey(ctx context.Context) error {
	account, err := getSimpleText(a.reader, "Enter account name", os.Stdout)
	if err != nil {
		return err
	}
	keyType, err := getSimpleText(a.reader, "Enter key type (posting/active)", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.authService.RemoveKey(account, keyType); err != nil {
		return err
	}
	fmt.Println("Key removed.")
	return nil
}

// Login prompts for credentials and authenticates against the server.
//
// When a stored key exists for the account the hbauth flow is used and the
// prompt asks for the store password; otherwise the wif flow asks for the
// raw key directly. On success a.user holds the logged-in profile.
func (a *App) Login(ctx context.Context) error {
	account, err := getSimpleText(a.reader, "Enter account name", os.Stdout)
	if err != nil {
		return err
	}
	keyType, err := getSimpleText(a.reader, "Enter key type (posting/active)", os.Stdout)
	if err != nil {
		return err
	}

	loginType := signer.LoginTypeWIF
	var credential []byte
	if a.authService.HasKey(account, keyType) {
		loginType = signer.LoginTypeHbauth
		credential, err = getPassword(os.Stdout)
	} else {
		credential, err = getSecret("Enter WIF private key", os.Stdout)
	}
	if err != nil {
		return err
	}
	defer common.WipeByteArray(credential)

	user, err := a.authService.Login(ctx, account, keyType, string(loginType), credential)
	if err != nil {
		fmt.Printf("Login failed: %s\n", err.Error())
		return err
	}

	a.user = user
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.KeyType)
	return nil
}

// Logout destroys the server session and forgets the local profile.
func (a *App) Logout(ctx context.Context) error {
	user, err := a.authService.Logout(ctx)
	if err != nil {
		return err
	}
	a.user = user
	fmt.Println("Logged out.")
	return nil
}

// Whoami refreshes and prints the current session state.
func (a *App) Whoami(ctx context.Context) error {
	user, err := a.authService.Session(ctx)
	if err != nil {
		return err
	}
	a.user = user
	if user.IsLoggedIn {
		fmt.Printf("Logged in as %s (login: %s, key: %s)\n", user.Username, user.LoginType, user.KeyType)
	} else {
		fmt.Println("Not logged in.")
	}
	return nil
}
