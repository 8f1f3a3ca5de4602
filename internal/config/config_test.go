package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"api_key": "test-key",
		"database_url": "postgres://localhost/hr_agent",
		"profiles_dir": "/data/profiles",
		"default_user_id": "jane_smith",
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/hr_agent", cfg.DatabaseURL)
	assert.Equal(t, "/data/profiles", cfg.ProfilesDir)
	assert.Equal(t, "jane_smith", cfg.DefaultUserID)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvProfilesDir, "/env/profiles")
	t.Setenv(EnvPort, "7070")

	cfg := FromEnv()

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "/env/profiles", cfg.ProfilesDir)
	assert.Equal(t, 7070, cfg.Port)
}

func TestFromEnv_InvalidPortIgnored(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, 0, cfg.Port)
}

func TestMerge_FileWinsOverFallback(t *testing.T) {
	file := &Config{APIKey: "file-key", Port: 9090}
	env := &Config{APIKey: "env-key", DatabaseURL: "postgres://env", Port: 7070}

	merged := file.Merge(env)

	assert.Equal(t, "file-key", merged.APIKey)
	assert.Equal(t, "postgres://env", merged.DatabaseURL)
	assert.Equal(t, 9090, merged.Port)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultProfilesDir, cfg.ProfilesDir)
	assert.Equal(t, DefaultOutputsDir, cfg.OutputsDir)
	assert.Equal(t, DefaultUserID, cfg.DefaultUserID)
	assert.Equal(t, DefaultGmailCredentials, cfg.GmailCredentials)
	assert.Equal(t, DefaultGmailToken, cfg.GmailToken)
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{ProfilesDir: "/custom", Port: 9999}
	cfg.ApplyDefaults()

	assert.Equal(t, "/custom", cfg.ProfilesDir)
	assert.Equal(t, 9999, cfg.Port)
}

func TestResolve_NoFile(t *testing.T) {
	t.Setenv(EnvDefaultUser, "alice")

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.DefaultUserID)
	assert.Equal(t, DefaultProfilesDir, cfg.ProfilesDir)
}

func TestResolve_FileOverridesEnv(t *testing.T) {
	t.Setenv(EnvDefaultUser, "alice")

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"default_user_id": "bob"}`), 0644))

	cfg, err := Resolve(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.DefaultUserID)
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := &Config{Port: 70000, DefaultUserID: "x"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{Port: 8080, DefaultUserID: "default_user"}

	err := cfg.Validate()
	assert.NoError(t, err)
}
