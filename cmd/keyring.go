package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/keyring"
	"github.com/illarion/pwcrypt/internal/prompt"
)

// KeyringSave saves the encryption passphrase to the OS keyring
func KeyringSave(env *Env) {
	passphrase, err := prompt.ReadPasswordConfirm("Enter encryption passphrase: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	if len(passphrase) == 0 {
		HandleError(errors.New("passphrase must not be empty"))
	}

	if err := keyring.SavePassphrase(env.Config.Profile, string(passphrase)); err != nil {
		HandleError(err)
	}

	fmt.Printf("Passphrase saved to keyring (profile %s)\n", env.Config.Profile)
}

// KeyringDelete removes the passphrase from the OS keyring
func KeyringDelete(env *Env) {
	if err := keyring.DeletePassphrase(env.Config.Profile); err != nil {
		fmt.Println("No passphrase stored in keyring")
		return
	}

	fmt.Println("Passphrase removed from keyring")
}

// KeyringStatus checks if a passphrase is stored in the keyring
func KeyringStatus(env *Env) {
	if keyring.HasPassphrase(env.Config.Profile) {
		fmt.Printf("Passphrase: stored in keyring (profile %s)\n", env.Config.Profile)
	} else {
		fmt.Println("Passphrase: not stored")
	}
}
