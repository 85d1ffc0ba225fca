package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withEnv(t *testing.T, values map[string]string) {
	t.Helper()
	previous := Env
	Env = values
	t.Cleanup(func() { Env = previous })
}

func TestGetEnv_PrefersLoadedFile(t *testing.T) {
	withEnv(t, map[string]string{"APP_PORT": "4100"})
	t.Setenv("APP_PORT", "4200")

	assert.Equal(t, "4100", GetEnv("APP_PORT", "4000"))
}

func TestGetEnv_FallsBackToProcessAndDefault(t *testing.T) {
	withEnv(t, map[string]string{})
	t.Setenv("AFILMORY_TEST_VALUE", "from-os")

	assert.Equal(t, "from-os", GetEnv("AFILMORY_TEST_VALUE", "def"))
	assert.Equal(t, "def", GetEnv("AFILMORY_TEST_MISSING", "def"))
}

func TestGetEnvInt(t *testing.T) {
	withEnv(t, map[string]string{"API_RATE_LIMIT": "60", "BROKEN": "sixty"})

	assert.Equal(t, 60, GetEnvInt("API_RATE_LIMIT", 120))
	assert.Equal(t, 120, GetEnvInt("BROKEN", 120))
	assert.Equal(t, 7, GetEnvInt("NOT_SET_AT_ALL", 7))
}

func TestGetEnvDuration(t *testing.T) {
	withEnv(t, map[string]string{"SETTINGS_CACHE_TTL": "90s", "BROKEN": "soon"})

	assert.Equal(t, 90*time.Second, GetEnvDuration("SETTINGS_CACHE_TTL", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("BROKEN", time.Minute))
}

func TestIsDev(t *testing.T) {
	withEnv(t, map[string]string{"APP_ENV": "dev"})
	assert.True(t, IsDev())

	Env["APP_ENV"] = "prod"
	assert.False(t, IsDev())
}
