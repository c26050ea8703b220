package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/pwcrypt/internal/storage"
	"github.com/illarion/pwcrypt/internal/validator"
	"go.uber.org/zap"
)

var errValidationFailed = errors.New("validation failed")

// Validate runs the password encryption validator on a stored field.
// Exits with status 1 when validation fails.
func Validate(env *Env, formPath string, field string) {
	opts, err := env.Config.ValidatorOptions()
	if err != nil {
		HandleError(err)
	}
	opts = append(opts, validator.WithLogger(env.Logger.With(zap.String("field", field))))
	v := validator.New(opts...)

	var encrypted bool
	err = WithForm(env, formPath, func(db *storage.Storage) error {
		var err error
		encrypted, err = validateField(db, v, field)
		return err
	})
	if err != nil {
		HandleError(err)
	}

	if encrypted {
		fmt.Printf("%s: encrypted\n", field)
	} else {
		fmt.Printf("%s: valid (not encrypted)\n", field)
	}
}

// validateField reports whether the stored value was replaced
func validateField(db *storage.Storage, v *validator.Validator, field string) (bool, error) {
	initialized, err := db.IsInitialized()
	if err != nil {
		return false, err
	}
	if !initialized {
		return false, fmt.Errorf("%s: %w", db.Path(), storage.ErrNotInitialized)
	}

	group, err := db.Group(field)
	if err != nil {
		return false, err
	}
	before := group.FieldContents(0)

	if !v.Validate(group) {
		return false, fmt.Errorf("%s: %w", field, errValidationFailed)
	}
	return group.FieldContents(0) != before, nil
}
