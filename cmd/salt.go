package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/illarion/pwcrypt/internal/crypto"
)

// Salt prints a fresh random salt for the pbkdf2 derivation
func Salt() {
	kdf, err := crypto.NewPBKDF2Derivation()
	if err != nil {
		HandleError(err)
	}

	fmt.Println(base64.StdEncoding.EncodeToString(kdf.Salt))
}
