package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/prompt"
)

// Decrypt prints the plaintext of an encrypted password.
// An empty value is read from stdin.
func Decrypt(env *Env, algorithm string, encrypted string) {
	if encrypted == "" {
		line, err := prompt.ReadLine(os.Stdin)
		if err != nil {
			HandleError(err)
		}
		encrypted = string(line)
	}
	if algorithm == "" {
		algorithm = env.Config.Algorithm
	}

	kd, err := env.Config.KeyDerivation()
	if err != nil {
		HandleError(err)
	}

	passphrase := GetPassphraseOrExit(env, "Enter encryption passphrase: ")
	defer crypto.ClearBytes(passphrase)

	plaintext, err := crypto.DecryptString(string(passphrase), algorithm, encrypted, kd)
	if err != nil {
		HandleError(err)
	}

	fmt.Println(plaintext)
}
