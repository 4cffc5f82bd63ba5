package container

import (
	"context"
	"embed"
	"net/http"
	"net/http/httptest"
	"testing"

	"settings-ui/internal/app"
	"settings-ui/internal/settings"
	"settings-ui/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
)

func buildTestContainer(t *testing.T, env map[string]string) *dig.Container {
	t.Helper()
	t.Setenv("DATABASE_DSN", ":memory:")
	t.Setenv("SETTINGS_SCHEMA_PATH", "")
	t.Setenv("SETTINGS_BACKEND", "database")
	t.Setenv("REDIS_DSN", "")
	t.Setenv("ENCRYPTION_KEY", "")
	t.Setenv("AUTH_KEY", "")
	t.Setenv("EMPTY_INPUT_POLICY", "")
	for k, v := range env {
		t.Setenv(k, v)
	}

	cont, err := BuildContainer()
	require.NoError(t, err)
	require.NoError(t, cont.Provide(func() embed.FS { return embed.FS{} }))
	return cont
}

func TestBuildContainerResolvesApp(t *testing.T) {
	cont := buildTestContainer(t, nil)
	err := cont.Invoke(func(application *app.App, store types.SettingsStore, builder *settings.Builder) {
		assert.NotNil(t, application)
		assert.NotNil(t, store)

		catalog := builder.Build(context.Background())
		assert.False(t, catalog.IsEmpty())
		d, found := catalog.Lookup("mail_smtp_port")
		require.True(t, found)
		assert.Equal(t, "Mail", d.Category)
		assert.Equal(t, settings.FieldInteger, d.FieldType)
	})
	require.NoError(t, err)
}

func TestNewConverterRejectsUnknownPolicy(t *testing.T) {
	_, err := NewConverter(policyConfig{policy: "drop"})
	assert.Error(t, err)

	conv, err := NewConverter(policyConfig{policy: "empty"})
	require.NoError(t, err)
	assert.Equal(t, settings.EmptyAsString, conv.EmptyPolicy)
}

type policyConfig struct {
	types.ConfigManager
	policy string
}

func (p policyConfig) GetSettingsConfig() types.SettingsConfig {
	return types.SettingsConfig{EmptyInputPolicy: p.policy}
}

func TestRouterAuthAndRoutes(t *testing.T) {
	cont := buildTestContainer(t, map[string]string{"AUTH_KEY": "router-secret"})

	err := cont.Invoke(func(engine *gin.Engine) {
		do := func(method, path string, header map[string]string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, nil)
			for k, v := range header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			return w
		}

		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/health", nil).Code)
		assert.Equal(t, http.StatusFound, do(http.MethodGet, "/", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/settings", nil).Code)
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/settings", map[string]string{"Authorization": "Bearer router-secret"}).Code)

		page := do(http.MethodGet, "/admin/settings?auth_key=router-secret", nil)
		assert.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), `name="settings[app_name]"`)

		assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/nope", nil).Code)
		assert.NotEmpty(t, do(http.MethodGet, "/health", nil).Header().Get("X-Request-ID"))
	})
	require.NoError(t, err)
}
