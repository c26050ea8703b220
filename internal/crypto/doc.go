// Package crypto provides password encryption for pwcrypt.
//
// A CipherContext is built per call from a passphrase and an algorithm name:
//   - The key comes from a KeyDerivation (SeededDerivation by default)
//   - Blocks are encrypted in ECB mode with PKCS#5 padding
//   - Ciphertext leaves the package as standard base64, no line breaks
//
// SeededDerivation seeds a SHA1PRNG-compatible generator with the raw
// passphrase bytes. The same passphrase always yields the same key and, since
// ECB is deterministic, the same ciphertext. This keeps values compatible with
// existing installers but is weak; PBKDF2Derivation is the salted alternative.
//
// Supported algorithms: AES, DES, DESede (TripleDES), Blowfish, Twofish,
// CAST5 and XTEA. Names are matched case-insensitively.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call CipherContext.Destroy() when done with a context
package crypto
