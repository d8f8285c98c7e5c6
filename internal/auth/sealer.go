package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// TokenSealer encrypts GitHub access tokens before they reach the store.
//
// Sealed form: base64url(nonce || secretbox(token)), with a fresh random
// 24-byte nonce per call.
type TokenSealer struct {
	key [32]byte
}

// NewTokenSealer derives the 32-byte secretbox key from key with SHA-256.
func NewTokenSealer(key string) (*TokenSealer, error) {
	if len(key) < 16 {
		return nil, errors.New("auth: token key must be at least 16 characters")
	}
	return &TokenSealer{key: sha256.Sum256([]byte(key))}, nil
}

// Seal encrypts plaintext. The empty string seals to the empty string so an
// unlinked account stays distinguishable.
func (s *TokenSealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("auth: generating nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open reverses Seal.
func (s *TokenSealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("auth: decoding sealed token: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", errors.New("auth: sealed token too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errors.New("auth: sealed token cannot be opened with this key")
	}
	return string(plain), nil
}
