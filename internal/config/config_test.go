package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Server.Port, cfg.Server.Port)
	assert.Equal(t, "/storage/v1/object/public", cfg.Storage.PublicPath)
	assert.Equal(t, int64(10<<20), cfg.Server.UploadLimit())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
server:
  port: "9000"
database:
  type: mysql
  mysql:
    host: mysql.internal
    port: 3307
storage:
  endpoint: ref.supabase.co
  access_key: key
  secret_key: secret
  bucket: homes
  use_ssl: true
  public_hosts:
    ref.supabase.co: ref.supabase.in
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("STORAGE_BUCKET", "listing-images")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "override.internal", cfg.Database.MySQL.Host)
	assert.Equal(t, 3307, cfg.Database.MySQL.Port)
	assert.Equal(t, "listing-images", cfg.Storage.Bucket)
	assert.Equal(t, "ref.supabase.in", cfg.Storage.PublicHosts["ref.supabase.co"])
	assert.True(t, cfg.Storage.UseSSL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_RequiresStorage(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.endpoint")
	assert.Contains(t, err.Error(), "credentials")
}
