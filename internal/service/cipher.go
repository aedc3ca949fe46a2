package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrCiphertextCorrupt = errors.New("ciphertext corrupt")

// MessageCipher encrypts chat message bodies at rest with AES-256-CBC. The key
// is derived from the configured secret via SHA-256; each message gets a fresh
// random IV. Ciphertext and IV are stored hex-encoded.
type MessageCipher struct {
	key [32]byte
}

func NewMessageCipher(secret string) *MessageCipher {
	return &MessageCipher{key: sha256.Sum256([]byte(secret))}
}

// Encrypt returns the hex ciphertext and hex IV for the given plaintext.
func (c *MessageCipher) Encrypt(plaintext string) (string, string, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", "", fmt.Errorf("init cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), hex.EncodeToString(iv), nil
}

// Decrypt reverses Encrypt. Corrupt or truncated input yields
// ErrCiphertextCorrupt rather than garbage plaintext.
func (c *MessageCipher) Decrypt(ciphertextHex, ivHex string) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", ErrCiphertextCorrupt
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", ErrCiphertextCorrupt
	}
	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrCiphertextCorrupt
	}

	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", ErrCiphertextCorrupt
	}
	return string(plain), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padding")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
