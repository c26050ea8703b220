package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwcrypt/internal/git"
	"github.com/illarion/pwcrypt/internal/keyring"
)

// Status shows where the passphrase comes from, the active settings and
// whether secret-bearing files are exposed to git
func Status(env *Env, formPath string) {
	cfg := env.Config
	if formPath == "" {
		formPath = cfg.FormPath
	}

	fmt.Println("Configuration:")
	if cfg.ConfigFile != "" {
		fmt.Printf("  File:        %s\n", cfg.ConfigFile)
	} else {
		fmt.Println("  File:        (none, defaults and environment)")
	}
	fmt.Printf("  Algorithm:   %s\n", cfg.Algorithm)
	fmt.Printf("  Derivation:  %s\n", cfg.Derivation.Kind)
	fmt.Printf("  Empty value: %s\n", cfg.EmptyPolicy)

	fmt.Println()
	fmt.Println("Passphrase:")
	switch {
	case cfg.EncryptionKey != "":
		fmt.Println("  Source:      configuration")
	case keyring.HasPassphrase(cfg.Profile):
		fmt.Printf("  Source:      keyring (profile %s)\n", cfg.Profile)
	default:
		fmt.Println("  Source:      prompt")
	}

	fmt.Println()
	fmt.Println("Form:")
	if info, err := os.Stat(formPath); err == nil {
		fmt.Printf("  %s: %s\n", formPath, formatSize(info.Size()))
	} else {
		fmt.Printf("  %s: not created (run 'pwcrypt form init')\n", formPath)
	}

	wd, err := os.Getwd()
	if err != nil {
		HandleError(err)
	}
	fmt.Print(git.CheckExposure(wd, []string{cfg.ConfigFile, formPath}).Format())
}
