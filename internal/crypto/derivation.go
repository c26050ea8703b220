package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)
)

// KeyDerivation turns a passphrase into key material for an algorithm
type KeyDerivation interface {
	DeriveKey(passphrase []byte, alg *Algorithm) ([]byte, error)
}

// SeededDerivation feeds the passphrase as the seed of a deterministic
// generator and lets the algorithm's key generator draw from it.
//
// The key depends on nothing but the passphrase. Keep it for values that must
// match ciphertext produced by existing installers; prefer PBKDF2Derivation
// otherwise.
type SeededDerivation struct{}

// DeriveKey derives the algorithm's default-size key from the passphrase
func (SeededDerivation) DeriveKey(passphrase []byte, alg *Algorithm) ([]byte, error) {
	rnd := NewSeededRandom(passphrase)
	defer rnd.Destroy()

	return alg.GenerateKey(rnd)
}

// PBKDF2Derivation derives keys with PBKDF2-HMAC-SHA256
type PBKDF2Derivation struct {
	Salt       []byte
	Iterations int
}

// NewPBKDF2Derivation creates a PBKDF2 derivation with a random salt
func NewPBKDF2Derivation() (*PBKDF2Derivation, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &PBKDF2Derivation{
		Salt:       salt,
		Iterations: DefaultIters,
	}, nil
}

// DeriveKey derives a key of the algorithm's size from the passphrase
func (k *PBKDF2Derivation) DeriveKey(passphrase []byte, alg *Algorithm) ([]byte, error) {
	if len(k.Salt) == 0 {
		return nil, fmt.Errorf("pbkdf2 salt is empty")
	}
	iters := k.Iterations
	if iters <= 0 {
		iters = DefaultIters
	}

	raw := pbkdf2.Key(passphrase, k.Salt, iters, alg.KeySize, sha256.New)
	defer ClearBytes(raw)

	return alg.FixKey(raw)
}
