package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	ErrUnknownAlgorithm  = errors.New("unknown algorithm")
	ErrInitialization    = errors.New("cipher initialization failed")
	ErrEncryption        = errors.New("encryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidPadding    = errors.New("invalid padding")
)

// CipherContext holds the derived key and the block cipher bound to it.
// A context is meant for a single call and must not be shared.
type CipherContext struct {
	alg   *Algorithm
	key   []byte
	block cipher.Block
}

// Initialize derives a key from the passphrase and prepares the named cipher.
// A nil derivation means SeededDerivation.
func Initialize(passphrase, algorithm string, kd KeyDerivation) (*CipherContext, error) {
	alg, err := LookupAlgorithm(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	if kd == nil {
		kd = SeededDerivation{}
	}

	seed := []byte(passphrase)
	defer ClearBytes(seed)

	key, err := kd.DeriveKey(seed, alg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to derive key: %w", ErrInitialization, err)
	}

	block, err := alg.NewCipher(key)
	if err != nil {
		ClearBytes(key)
		return nil, fmt.Errorf("%w: failed to create cipher: %w", ErrInitialization, err)
	}

	return &CipherContext{
		alg:   alg,
		key:   key,
		block: block,
	}, nil
}

// Algorithm returns the algorithm the context was initialized with
func (c *CipherContext) Algorithm() *Algorithm {
	return c.alg
}

// Key returns a copy of the derived key
func (c *CipherContext) Key() []byte {
	key := make([]byte, len(c.key))
	copy(key, c.key)
	return key
}

// Encrypt encrypts the UTF-8 bytes of plaintext and returns standard base64
func (c *CipherContext) Encrypt(plaintext string) (string, error) {
	if c.block == nil {
		return "", fmt.Errorf("%w: context destroyed", ErrEncryption)
	}

	padded := pkcs5Pad([]byte(plaintext), c.alg.BlockSize)
	defer ClearBytes(padded)

	ciphertext := ecbEncrypt(c.block, padded)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt
func (c *CipherContext) Decrypt(encoded string) (string, error) {
	if c.block == nil {
		return "", fmt.Errorf("%w: context destroyed", ErrInvalidCiphertext)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%c.alg.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	padded := ecbDecrypt(c.block, ciphertext)
	defer ClearBytes(padded)

	plaintext, err := pkcs5Unpad(padded, c.alg.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// Destroy clears the key and releases the cipher
func (c *CipherContext) Destroy() {
	ClearBytes(c.key)
	c.block = nil
}

// EncryptString encrypts plaintext with a one-shot context
func EncryptString(passphrase, algorithm, plaintext string, kd KeyDerivation) (string, error) {
	ctx, err := Initialize(passphrase, algorithm, kd)
	if err != nil {
		return "", err
	}
	defer ctx.Destroy()

	return ctx.Encrypt(plaintext)
}

// DecryptString decrypts a value produced by EncryptString
func DecryptString(passphrase, algorithm, encoded string, kd KeyDerivation) (string, error) {
	ctx, err := Initialize(passphrase, algorithm, kd)
	if err != nil {
		return "", err
	}
	defer ctx.Destroy()

	return ctx.Decrypt(encoded)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
