// Package validator encrypts password fields on behalf of a validation host.
//
// The host exposes a PasswordGroup: the entered value, the validator
// parameters configured for the field, and a way to replace the stored value.
// Validate reads two parameters:
//   - encryptionKey: the passphrase keys are derived from
//   - algorithm: the cipher name (AES, DES, DESede, Blowfish, ...)
//
// When either is missing the validator does nothing and passes. Otherwise the
// value is encrypted and the base64 ciphertext replaces it in the host. Any
// failure is logged and reported as false; nothing is written in that case.
package validator
