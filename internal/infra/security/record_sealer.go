// Package security seals fallback registration records at rest.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// sealedPrefix marks a line written by RecordSealer. The version lets a future
// key rotation tell old lines apart.
const sealedPrefix = "v1:"

// recordAAD binds every ciphertext to fallback records, so a sealed line
// copied into another store does not open there.
var recordAAD = []byte("training-registration/fallback-record")

var (
	ErrKeySize      = errors.New("fallback key must be 16, 24 or 32 bytes")
	ErrNotSealed    = errors.New("fallback line is not sealed")
	ErrTamperedLine = errors.New("fallback line failed authentication")
)

// RecordSealer encrypts one fallback line at a time with AES-GCM.
type RecordSealer struct {
	aead cipher.AEAD
}

func NewRecordSealer(key string) (*RecordSealer, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(key))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("fallback sealer cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fallback sealer gcm: %w", err)
	}
	return &RecordSealer{aead: aead}, nil
}

// Encrypt seals a JSON record line as "v1:" + base64(nonce || ciphertext).
func (s *RecordSealer) Encrypt(line string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("fallback record nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(line), recordAAD)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a line produced by Encrypt.
func (s *RecordSealer) Decrypt(line string) (string, error) {
	body, ok := strings.CutPrefix(line, sealedPrefix)
	if !ok {
		return "", ErrNotSealed
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTamperedLine, err)
	}
	ns := s.aead.NonceSize()
	if len(data) < ns+s.aead.Overhead() {
		return "", fmt.Errorf("%w: %d bytes", ErrTamperedLine, len(data))
	}
	plain, err := s.aead.Open(nil, data[:ns], data[ns:], recordAAD)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTamperedLine, err)
	}
	return string(plain), nil
}
