package utils

import (
	"os"
	"path/filepath"
	"testing"

	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolean(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{" YES ", false, true},
		{"1", false, true},
		{"off", true, false},
		{"0", true, false},
		{"", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBoolean(tt.in, tt.def), tt.in)
	}
}

func TestParseInteger(t *testing.T) {
	assert.Equal(t, 8080, ParseInteger(" 8080 ", 1))
	assert.Equal(t, 1, ParseInteger("", 1))
	assert.Equal(t, 1, ParseInteger("x", 1))
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SETTINGS_UI_TEST_VAR", "  value ")
	assert.Equal(t, "value", GetEnvOrDefault("SETTINGS_UI_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("SETTINGS_UI_TEST_UNSET", "fallback"))
}

func TestCheckSecretStrength(t *testing.T) {
	weak := CheckSecretStrength("abc")
	assert.False(t, weak.IsValid)
	assert.Equal(t, SecretWeak, weak.Strength)
	assert.Contains(t, weak.Suggestions, "use at least 8 characters")

	common := CheckSecretStrength("password123")
	assert.Contains(t, common.Suggestions, "avoid common patterns")

	strong := CheckSecretStrength("v9#Kq2!xLm8@Tz4w")
	assert.True(t, strong.IsValid)
	assert.Equal(t, SecretVeryStrong, strong.Strength)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-key")
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))
	assert.True(t, CheckPasswordHash("s3cret-key", hash))
	assert.False(t, CheckPasswordHash("other", hash))
	assert.False(t, IsBcryptHash("plain-key"))
}

func TestDeriveAESKey(t *testing.T) {
	key := DeriveAESKey("passphrase")
	assert.Len(t, key, 32)
	assert.Equal(t, key, DeriveAESKey("passphrase"))
	assert.NotEqual(t, key, DeriveAESKey("other"))
}

type logConfigOnly struct {
	types.ConfigManager
	cfg types.LogConfig
}

func (l logConfigOnly) GetLogConfig() types.LogConfig { return l.cfg }

func TestSetupLoggerWritesFile(t *testing.T) {
	defer logrus.SetOutput(os.Stdout)
	defer logrus.SetLevel(logrus.InfoLevel)

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	SetupLogger(logConfigOnly{cfg: types.LogConfig{Level: "debug", Format: "json", EnableFile: true, FilePath: path}})

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	logrus.Info("hello file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
}

func TestSetupLoggerInvalidLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	SetupLogger(logConfigOnly{cfg: types.LogConfig{Level: "chatty", Format: "text"}})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
