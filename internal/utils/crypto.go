package utils

// Field-level crypto for guest records. Identity numbers must be readable
// again (AES-256-CBC, stored as "ivhex:cipherhex"); IP and MAC addresses
// only ever need equality checks, so they are reduced to sha256 digests.

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrCiphertextFormat = errors.New("malformed encrypted field")

// HashField returns the sha256 digest of a value as a hex string.
func HashField(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// EncryptField encrypts a value with AES-256-CBC under the given 32-byte
// key. The random IV is prepended: "ivhex:cipherhex".
func EncryptField(key []byte, value string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	plain := pkcs7Pad([]byte(value), aes.BlockSize)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
	return fmt.Sprintf("%s:%s", hex.EncodeToString(iv), hex.EncodeToString(out)), nil
}

// DecryptField reverses EncryptField.
func DecryptField(key []byte, encoded string) (string, error) {
	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 {
		return "", ErrCiphertextFormat
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrCiphertextFormat
	}
	data, err := hex.DecodeString(parts[1])
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrCiphertextFormat
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	pad := make([]byte, n)
	for i := range pad {
		pad[i] = byte(n)
	}
	return append(b, pad...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, ErrCiphertextFormat
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, ErrCiphertextFormat
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrCiphertextFormat
		}
	}
	return b[:len(b)-n], nil
}
