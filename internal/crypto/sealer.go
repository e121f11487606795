// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// sealedPrefix marks values produced by an enabled sealer.
const sealedPrefix = "sealed.v1:"

// keyDerivationSalt domain-separates the sealing key from any other use of
// the same secret.
var keyDerivationSalt = []byte("apk-portal/token-sealing/v1")

// ErrCannotOpen is returned when a sealed value cannot be decrypted.
var ErrCannotOpen = errors.New("cannot open sealed value")

// aeadSealer seals values with AES-256-GCM under a key derived from the
// configured secret with Argon2id. Output: prefix ‖ base64(nonce ‖ ciphertext).
type aeadSealer struct {
	aead cipher.AEAD
}

// plainSealer stores values unchanged.
type plainSealer struct{}

// NewTokenSealer returns a [TokenSealer] for secret. An empty secret yields a
// sealer that stores values as plain text.
//
// The key is derived once with Argon2id:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewTokenSealer(secret string) (TokenSealer, error) {
	if secret == "" {
		return plainSealer{}, nil
	}

	key := argon2.IDKey([]byte(secret), keyDerivationSalt, 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &aeadSealer{aead: gcm}, nil
}

func (s *aeadSealer) Enabled() bool { return true }

// Seal implements [TokenSealer].
func (s *aeadSealer) Seal(name, value string) (string, error) {
	if value == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := s.aead.Seal(nonce, nonce, []byte(value), []byte(name))
	return sealedPrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [TokenSealer]. Values without the sealed prefix were
// written before sealing was enabled and are returned unchanged.
func (s *aeadSealer) Open(name, sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return sealed, nil
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", ErrCannotOpen, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrCannotOpen)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCannotOpen, err)
	}

	return string(plaintext), nil
}

func (plainSealer) Enabled() bool { return false }

// Seal implements [TokenSealer].
func (plainSealer) Seal(_, value string) (string, error) {
	return value, nil
}

// Open implements [TokenSealer]. Sealed values cannot be read back without
// the secret.
func (plainSealer) Open(_, sealed string) (string, error) {
	if strings.HasPrefix(sealed, sealedPrefix) {
		return "", fmt.Errorf("%w: APP_STORAGE_KEY is not set", ErrCannotOpen)
	}
	return sealed, nil
}
