package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"db_driver":"postgres","app_port":9000,"jwt_ttl":"1h"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nAPP_PORT=9100\nJWT_SECRET='s3cret'\n"), 0o644))
	t.Setenv("APP_PORT", "9200")

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "9200", get("APP_PORT", ""))
	assert.Equal(t, "s3cret", get("JWT_SECRET", ""))
	assert.Equal(t, time.Hour, duration("JWT_TTL", time.Minute))
}

func TestMissingFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".nope")))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, defaultAPIPrefix, get("API_PREFIX", ""))
}

func TestMergeEnvironSkipsUnrelatedKeys(t *testing.T) {
	out := defaultValues()
	mergeEnviron([]string{"PATH=/usr/bin", "REDIS_ADDR=cache:6379", "garbage"}, out)

	_, hasPath := out["PATH"]
	assert.False(t, hasPath)
	assert.Equal(t, "cache:6379", out["REDIS_ADDR"])
}

func TestDurationFallback(t *testing.T) {
	mu.Lock()
	values["CACHE_TTL"] = "not-a-duration"
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		delete(values, "CACHE_TTL")
		mu.Unlock()
	})

	assert.Equal(t, defaultCacheTTL, duration("CACHE_TTL", defaultCacheTTL))
}
