// Package encryption seals stored setting overrides at rest.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"settings-ui/internal/types"
	"settings-ui/internal/utils"
)

// Service defines the encryption interface
type Service interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	// Enabled reports whether values are actually sealed.
	Enabled() bool
}

// NewService creates encryption service. An empty ENCRYPTION_KEY disables encryption.
func NewService(configManager types.ConfigManager) (Service, error) {
	return NewServiceWithKey(configManager.GetEncryptionKey())
}

// NewServiceWithKey creates an encryption service for an explicit passphrase.
func NewServiceWithKey(key string) (Service, error) {
	if key == "" {
		return &noopService{}, nil
	}

	utils.ValidatePasswordStrength(key, "ENCRYPTION_KEY")

	block, err := aes.NewCipher(utils.DeriveAESKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return &aesService{gcm: gcm}, nil
}

// aesService implements AES-256-GCM encryption with a random nonce prefix, hex encoded.
type aesService struct {
	gcm cipher.AEAD
}

func (s *aesService) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

func (s *aesService) Decrypt(ciphertext string) (string, error) {
	data, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid hex data: %w", err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := s.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}

func (s *aesService) Enabled() bool { return true }

// noopService disables encryption
type noopService struct{}

func (s *noopService) Encrypt(plaintext string) (string, error) {
	return plaintext, nil
}

func (s *noopService) Decrypt(ciphertext string) (string, error) {
	return ciphertext, nil
}

func (s *noopService) Enabled() bool { return false }
