package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"fmt"
	"io"
	"math/bits"
	"sort"
	"strings"

	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/cast5"
	"golang.org/x/crypto/twofish"
	"golang.org/x/crypto/xtea"
)

// Algorithm describes a symmetric block cipher usable for password encryption
type Algorithm struct {
	Name      string   // Canonical name
	Aliases   []string // Alternative names, matched case-insensitively
	KeySize   int      // Default key size in bytes
	BlockSize int      // Cipher block size in bytes

	oddParity bool // DES family: every key byte carries odd parity

	// generateKey draws a key of KeySize bytes from r
	generateKey func(r io.Reader, size int) ([]byte, error)
	newCipher   func(key []byte) (cipher.Block, error)
}

// GenerateKey draws a key for this algorithm from r
func (a *Algorithm) GenerateKey(r io.Reader) ([]byte, error) {
	return a.generateKey(r, a.KeySize)
}

// NewCipher creates the block cipher bound to key
func (a *Algorithm) NewCipher(key []byte) (cipher.Block, error) {
	return a.newCipher(key)
}

// FixKey applies the algorithm's key constraints (such as DES parity) to raw
// key material of KeySize bytes. Keys that cannot be fixed return an error.
func (a *Algorithm) FixKey(raw []byte) ([]byte, error) {
	if len(raw) != a.KeySize {
		return nil, fmt.Errorf("%s key must be %d bytes, got %d", a.Name, a.KeySize, len(raw))
	}
	key := make([]byte, len(raw))
	copy(key, raw)
	if a.oddParity {
		for off := 0; off < len(key); off += des.BlockSize {
			setParity(key[off : off+des.BlockSize])
			if isWeakDESKey(key[off : off+des.BlockSize]) {
				ClearBytes(key)
				return nil, fmt.Errorf("%s key is weak", a.Name)
			}
		}
	}
	return key, nil
}

var algorithms = []*Algorithm{
	{
		Name:        "AES",
		KeySize:     16,
		BlockSize:   aes.BlockSize,
		generateKey: readKey,
		newCipher:   aes.NewCipher,
	},
	{
		Name:        "DES",
		KeySize:     8,
		BlockSize:   des.BlockSize,
		oddParity:   true,
		generateKey: readDESKey,
		newCipher:   des.NewCipher,
	},
	{
		Name:        "DESede",
		Aliases:     []string{"TripleDES"},
		KeySize:     24,
		BlockSize:   des.BlockSize,
		oddParity:   true,
		generateKey: readDESedeKey,
		newCipher:   des.NewTripleDESCipher,
	},
	{
		Name:        "Blowfish",
		KeySize:     16,
		BlockSize:   blowfish.BlockSize,
		generateKey: readKey,
		newCipher: func(key []byte) (cipher.Block, error) {
			return blowfish.NewCipher(key)
		},
	},
	{
		Name:        "Twofish",
		KeySize:     16,
		BlockSize:   twofish.BlockSize,
		generateKey: readKey,
		newCipher: func(key []byte) (cipher.Block, error) {
			return twofish.NewCipher(key)
		},
	},
	{
		Name:        "CAST5",
		Aliases:     []string{"CAST-128"},
		KeySize:     cast5.KeySize,
		BlockSize:   cast5.BlockSize,
		generateKey: readKey,
		newCipher: func(key []byte) (cipher.Block, error) {
			return cast5.NewCipher(key)
		},
	},
	{
		Name:        "XTEA",
		KeySize:     16,
		BlockSize:   xtea.BlockSize,
		generateKey: readKey,
		newCipher: func(key []byte) (cipher.Block, error) {
			return xtea.NewCipher(key)
		},
	},
}

// LookupAlgorithm finds an algorithm by name or alias, ignoring case
func LookupAlgorithm(name string) (*Algorithm, error) {
	for _, alg := range algorithms {
		if strings.EqualFold(alg.Name, name) {
			return alg, nil
		}
		for _, alias := range alg.Aliases {
			if strings.EqualFold(alias, name) {
				return alg, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Algorithms returns all supported algorithms sorted by name
func Algorithms() []*Algorithm {
	result := make([]*Algorithm, len(algorithms))
	copy(result, algorithms)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// readKey takes size bytes from r as the key
func readKey(r io.Reader, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// readDESKey draws 8-byte keys until one is not weak, fixing parity each time
func readDESKey(r io.Reader, size int) ([]byte, error) {
	key := make([]byte, size)
	for {
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		setParity(key)
		if !isWeakDESKey(key) {
			return key, nil
		}
	}
}

// readDESedeKey draws a single three-part key and fixes parity on each part.
// Weak parts are kept.
func readDESedeKey(r io.Reader, size int) ([]byte, error) {
	key, err := readKey(r, size)
	if err != nil {
		return nil, err
	}
	for off := 0; off < size; off += des.BlockSize {
		setParity(key[off : off+des.BlockSize])
	}
	return key, nil
}

// setParity sets the low bit of every byte so each byte has odd parity
func setParity(key []byte) {
	for i, b := range key {
		b &= 0xfe
		key[i] = b | byte((bits.OnesCount8(b)&1)^1)
	}
}

var weakDESKeys = [][des.BlockSize]byte{
	{0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01},
	{0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE},
	{0x1F, 0x1F, 0x1F, 0x1F, 0x0E, 0x0E, 0x0E, 0x0E},
	{0xE0, 0xE0, 0xE0, 0xE0, 0xF1, 0xF1, 0xF1, 0xF1},
	{0x01, 0xFE, 0x01, 0xFE, 0x01, 0xFE, 0x01, 0xFE},
	{0x1F, 0xE0, 0x1F, 0xE0, 0x0E, 0xF1, 0x0E, 0xF1},
	{0x01, 0xE0, 0x01, 0xE0, 0x01, 0xF1, 0x01, 0xF1},
	{0x1F, 0xFE, 0x1F, 0xFE, 0x0E, 0xFE, 0x0E, 0xFE},
	{0x01, 0x1F, 0x01, 0x1F, 0x01, 0x0E, 0x01, 0x0E},
	{0xE0, 0xFE, 0xE0, 0xFE, 0xF1, 0xFE, 0xF1, 0xFE},
	{0xFE, 0x01, 0xFE, 0x01, 0xFE, 0x01, 0xFE, 0x01},
	{0xE0, 0x1F, 0xE0, 0x1F, 0xF1, 0x0E, 0xF1, 0x0E},
	{0xE0, 0x01, 0xE0, 0x01, 0xF1, 0x01, 0xF1, 0x01},
	{0xFE, 0x1F, 0xFE, 0x1F, 0xFE, 0x0E, 0xFE, 0x0E},
	{0x1F, 0x01, 0x1F, 0x01, 0x0E, 0x01, 0x0E, 0x01},
	{0xFE, 0xE0, 0xFE, 0xE0, 0xFE, 0xF1, 0xFE, 0xF1},
}

// isWeakDESKey reports whether key is one of the weak or semi-weak DES keys
func isWeakDESKey(key []byte) bool {
	for _, weak := range weakDESKeys {
		if ConstantTimeCompare(key, weak[:]) {
			return true
		}
	}
	return false
}
