package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.AITimeout())
	assert.Equal(t, "idea_history.json", cfg.History.Path)
	assert.Equal(t, 20, cfg.History.Limit)
	assert.Equal(t, "", cfg.Database.Driver)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("DB_PASSWORD", "pw-from-env")

	cfg, err := Load(writeConfig(t, `
ai:
  apiKey: sk-from-file
database:
  driver: mysql
  password: pw-from-file
`))
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
	assert.Equal(t, "pw-from-env", cfg.Database.Password)
}

func TestDSNBuilders(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: sanity
  password: secret
  name: ideas
`))
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5432 user=sanity password=secret dbname=ideas sslmode=disable",
		cfg.PostgresDSN())

	cfg.Database.Port = 3306
	assert.Equal(t,
		"sanity:secret@tcp(db.internal:3306)/ideas?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
