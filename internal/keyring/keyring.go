package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "pwcrypt"

// ErrNotFound is returned when no passphrase is stored for a profile
var ErrNotFound = errors.New("passphrase not found in keyring")

// SavePassphrase stores the encryption passphrase of a profile in the OS keyring
func SavePassphrase(profile string, passphrase string) error {
	if err := keyring.Set(serviceName, profile, passphrase); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// GetPassphrase retrieves the passphrase of a profile from the OS keyring
func GetPassphrase(profile string) (string, error) {
	passphrase, err := keyring.Get(serviceName, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return passphrase, nil
}

// DeletePassphrase removes the passphrase of a profile from the OS keyring
func DeletePassphrase(profile string) error {
	err := keyring.Delete(serviceName, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// HasPassphrase checks if a passphrase is stored for the profile
func HasPassphrase(profile string) bool {
	_, err := keyring.Get(serviceName, profile)
	return err == nil
}
