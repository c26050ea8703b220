package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/pwcrypt/internal/storage"
)

// Compact compacts the form database to reclaim unused space
func Compact(env *Env, formPath string) {
	err := WithForm(env, formPath, func(db *storage.Storage) error {
		// Get file size before
		info, err := os.Stat(db.Path())
		if err != nil {
			return err
		}
		sizeBefore := info.Size()

		if err := db.Compact(); err != nil {
			return err
		}

		// Get file size after
		info, err = os.Stat(db.Path())
		if err != nil {
			return err
		}

		fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
		return nil
	})
	if err != nil {
		HandleError(err)
	}
}
