package utils

import (
	"crypto/sha256"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SecretStrength is the rough strength of an admin key or encryption key.
type SecretStrength int

const (
	SecretWeak SecretStrength = iota
	SecretMedium
	SecretStrong
	SecretVeryStrong
)

func (s SecretStrength) String() string {
	switch s {
	case SecretWeak:
		return "weak"
	case SecretMedium:
		return "medium"
	case SecretStrong:
		return "strong"
	case SecretVeryStrong:
		return "very strong"
	}
	return "unknown"
}

// SecretCheck is the result of CheckSecretStrength.
type SecretCheck struct {
	Strength    SecretStrength `json:"strength"`
	Score       int            `json:"score"`
	IsValid     bool           `json:"is_valid"`
	Suggestions []string       `json:"suggestions"`
}

type charClass struct {
	pattern    *regexp.Regexp
	score      int
	suggestion string
}

var secretCharClasses = []charClass{
	{regexp.MustCompile(`[a-z]`), 1, "add lowercase letters"},
	{regexp.MustCompile(`[A-Z]`), 1, "add uppercase letters"},
	{regexp.MustCompile(`[0-9]`), 1, "add digits"},
	{regexp.MustCompile(`[^a-zA-Z0-9]`), 2, "add symbols"},
}

// 常见弱口令片段
var commonSecretPatterns = []string{
	"123456", "password", "qwerty", "admin", "root", "test", "111111", "000000", "abc123",
}

// CheckSecretStrength scores a secret by length, character classes and common patterns.
func CheckSecretStrength(secret string) SecretCheck {
	result := SecretCheck{Suggestions: make([]string, 0)}

	switch {
	case len(secret) < 8:
		result.Suggestions = append(result.Suggestions, "use at least 8 characters")
	case len(secret) >= 16:
		result.Score += 3
	case len(secret) >= 12:
		result.Score += 2
	default:
		result.Score++
	}

	for _, class := range secretCharClasses {
		if class.pattern.MatchString(secret) {
			result.Score += class.score
		} else {
			result.Suggestions = append(result.Suggestions, class.suggestion)
		}
	}

	lower := strings.ToLower(secret)
	for _, pattern := range commonSecretPatterns {
		if strings.Contains(lower, pattern) {
			result.Score -= 2
			result.Suggestions = append(result.Suggestions, "avoid common patterns")
			break
		}
	}

	switch {
	case result.Score < 3:
		result.Strength = SecretWeak
	case result.Score < 5:
		result.Strength = SecretMedium
	case result.Score < 7:
		result.Strength = SecretStrong
	default:
		result.Strength = SecretVeryStrong
	}
	result.IsValid = result.Strength >= SecretMedium && len(secret) >= 8
	return result
}

// ValidatePasswordStrength logs a warning when a configured secret is weak. It never rejects it.
func ValidatePasswordStrength(secret, name string) {
	result := CheckSecretStrength(secret)
	if result.IsValid {
		return
	}
	logrus.WithFields(logrus.Fields{
		"name":        name,
		"strength":    result.Strength.String(),
		"suggestions": strings.Join(result.Suggestions, "; "),
	}).Warn("Weak secret configured, consider a longer random value")
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsBcryptHash reports whether the value looks like a bcrypt hash ($2a$, $2b$ or $2y$).
func IsBcryptHash(value string) bool {
	return len(value) > 4 && (value[:4] == "$2a$" || value[:4] == "$2b$" || value[:4] == "$2y$")
}

// DeriveAESKey derives a 32-byte AES-256 key from an arbitrary passphrase.
func DeriveAESKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}
