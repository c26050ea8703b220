package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/prompt"
)

// Encrypt reads a password and prints its encrypted form
func Encrypt(env *Env, algorithm string, fromStdin bool) {
	if algorithm == "" {
		algorithm = env.Config.Algorithm
	}

	kd, err := env.Config.KeyDerivation()
	if err != nil {
		HandleError(err)
	}

	passphrase := GetPassphraseOrExit(env, "Enter encryption passphrase: ")
	defer crypto.ClearBytes(passphrase)

	var password []byte
	if fromStdin || !prompt.IsTerminal() {
		password, err = prompt.ReadLine(os.Stdin)
	} else {
		password, err = prompt.ReadPasswordConfirm("Enter password to encrypt: ")
	}
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	ctx, err := crypto.Initialize(string(passphrase), algorithm, kd)
	if err != nil {
		HandleError(err)
	}
	defer ctx.Destroy()

	encrypted, err := ctx.Encrypt(string(password))
	if err != nil {
		HandleError(err)
	}

	fmt.Println(encrypted)
}
