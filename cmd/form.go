package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/prompt"
	"github.com/illarion/pwcrypt/internal/storage"
	"github.com/illarion/pwcrypt/internal/validator"
)

// FormInit creates the form database
func FormInit(env *Env, formPath string) {
	err := WithForm(env, formPath, func(db *storage.Storage) error {
		if err := db.Initialize(); err != nil {
			return err
		}
		fmt.Printf("✓ Initialized %s\n", db.Path())
		return nil
	})
	if err != nil {
		HandleError(err)
	}
}

// FormSet stores a field value. With no value the password is read from the terminal.
func FormSet(env *Env, formPath string, field string, value *string) {
	var input string
	if value != nil {
		input = *value
	} else {
		password, err := prompt.ReadPassword(fmt.Sprintf("Enter value for %s: ", field))
		if err != nil {
			HandleError(err)
		}
		input = string(password)
		crypto.ClearBytes(password)
	}

	err := WithForm(env, formPath, func(db *storage.Storage) error {
		return db.SetField(field, input)
	})
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("set: %s\n", field)
}

// FormGet prints the stored value of a field
func FormGet(env *Env, formPath string, field string) {
	var value string
	err := WithForm(env, formPath, func(db *storage.Storage) error {
		var err error
		value, err = db.GetField(field)
		return err
	})
	if err != nil {
		HandleError(err)
	}
	fmt.Println(value)
}

// FormParams sets validator parameters given as key=value pairs, or prints
// them when no pairs are given. An empty value ("key=") keeps the key with
// an empty string; "key" alone removes it.
func FormParams(env *Env, formPath string, field string, pairs []string) {
	var params map[string]string
	err := WithForm(env, formPath, func(db *storage.Storage) error {
		var err error
		params, err = db.GetParams(field)
		if err != nil || len(pairs) == 0 {
			return err
		}

		if params == nil {
			params = make(map[string]string)
		}
		for _, pair := range pairs {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				delete(params, key)
				continue
			}
			params[key] = value
		}
		return db.SetParams(field, params)
	})
	if err != nil {
		HandleError(err)
	}
	printParams(params)
}

func printParams(params map[string]string) {
	if len(params) == 0 {
		fmt.Println("  (none)")
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := params[k]
		// Never echo the passphrase
		if k == validator.ParamEncryptionKey && v != "" {
			v = "********"
		}
		fmt.Printf("  %s=%s\n", k, v)
	}
}

// FormList shows all stored fields
func FormList(env *Env, formPath string) {
	err := WithForm(env, formPath, func(db *storage.Storage) error {
		fields, err := db.ListFields()
		if err != nil {
			return err
		}

		modified, err := db.GetModified()
		if err != nil {
			return err
		}

		fmt.Println("Fields:")
		if len(fields) == 0 {
			fmt.Println("  (none)")
		}
		for _, field := range fields {
			params, err := db.GetParams(field)
			if err != nil {
				return fmt.Errorf("failed to read params of %s: %w", field, err)
			}
			_, hasKey := params[validator.ParamEncryptionKey]
			algorithm, hasAlgorithm := params[validator.ParamAlgorithm]
			if hasKey && hasAlgorithm {
				fmt.Printf("  %s (encrypt: %s)\n", field, algorithm)
			} else {
				fmt.Printf("  %s\n", field)
			}
		}

		if info, err := os.Stat(db.Path()); err == nil {
			fmt.Printf("\n%s: %s (last modified: %s)\n", db.Path(), formatSize(info.Size()), modified.Format("2006-01-02 15:04:05"))
		}
		return nil
	})
	if err != nil {
		HandleError(err)
	}
}

// FormRemove removes fields and their parameters
func FormRemove(env *Env, formPath string, fields []string) {
	err := WithForm(env, formPath, func(db *storage.Storage) error {
		for _, field := range fields {
			if err := db.DeleteField(field); err != nil {
				return err
			}
			fmt.Printf("removed: %s\n", field)
		}
		return nil
	})
	if err != nil {
		HandleError(err)
	}
}
