package crypto

import (
	"crypto/cipher"
	"crypto/subtle"
)

// crypto/cipher has no ECB mode. Blocks are processed independently, which
// matches an ALG/ECB/PKCS5Padding transform.

// ecbEncrypt encrypts src into a new slice.
// len(src) must be a multiple of the block size.
func ecbEncrypt(block cipher.Block, src []byte) []byte {
	bs := block.BlockSize()
	dst := make([]byte, len(src))
	for off := 0; off < len(src); off += bs {
		block.Encrypt(dst[off:off+bs], src[off:off+bs])
	}
	return dst
}

// ecbDecrypt is the inverse of ecbEncrypt
func ecbDecrypt(block cipher.Block, src []byte) []byte {
	bs := block.BlockSize()
	dst := make([]byte, len(src))
	for off := 0; off < len(src); off += bs {
		block.Decrypt(dst[off:off+bs], src[off:off+bs])
	}
	return dst
}

// pkcs5Pad appends 1..blockSize bytes, each holding the pad length
func pkcs5Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs5Unpad strips and verifies PKCS#5 padding
func pkcs5Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, ErrInvalidPadding
	}
	expected := make([]byte, padLen)
	for i := range expected {
		expected[i] = byte(padLen)
	}
	if subtle.ConstantTimeCompare(data[len(data)-padLen:], expected) != 1 {
		return nil, ErrInvalidPadding
	}
	return data[:len(data)-padLen], nil
}
