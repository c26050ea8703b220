package validator

import "errors"

var (
	// ErrConfigurationAbsent means encryptionKey or algorithm is missing.
	// The field passes validation unchanged.
	ErrConfigurationAbsent = errors.New("encryption not configured")
	ErrEmptyConfiguration  = errors.New("encryption key or algorithm is empty")
	ErrHostContract        = errors.New("host rejected the encrypted password")
)
