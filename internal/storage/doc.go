// Package storage provides the BBolt form state database for pwcrypt.
//
// Database structure uses three buckets:
//   - config: format version and timestamps
//   - fields: field name -> current value (plaintext until encrypted)
//   - params: field name -> JSON object of validator parameters
//
// A FieldGroup binds one field to the validator's PasswordGroup interface,
// so the validator can read the entered value and its parameters and write
// the encrypted value back.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
