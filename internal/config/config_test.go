package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sqliteConfig = `
env: development
app:
  timeout: 5s
db:
  driver: sqlite3
  path: data/test.db
  cfg:
    max_open_conns: 1
scheduler:
  priority:
    time_boost_weight: 0.5
  variants:
    adaptive_aggressive:
      time_boost_weight: 1
  classifier:
    mastered_streak: 4
requeue:
  incorrect_gap: 12
experiment:
  variants: [baseline, adaptive]
  vibration:
    fallback_length: 8
model:
  enabled: true
  persist_interval: 1m
  max_bytes: 4096
deck:
  - id: apple
    meaning: яблоко
    difficulty: 1
  - id: house
    meaning: дом
`

const postgresWithoutConn = `
env: production
app:
  timeout: 5s
db:
  driver: postgres
  cfg:
    max_open_conns: 10
`

// writeConfig chdirs into a temp dir holding configs/<name>.yaml.
// Tests using it cannot run in parallel.
func writeConfig(t *testing.T, name, body string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name+".yaml"), []byte(body), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("CONFIG_NAME", name)
}

func TestInit_SQLite(t *testing.T) {
	writeConfig(t, "sqlite", sqliteConfig)

	cfg, err := Init()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5*time.Second, cfg.App.Timeout)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Nil(t, cfg.DB.Conn)
	assert.Equal(t, 1.0, cfg.Scheduler.Variants["adaptive_aggressive"].TimeBoostWeight)
	assert.Equal(t, 4, cfg.Scheduler.Classifier.MasteredStreak)
	assert.Equal(t, 12, cfg.Requeue.IncorrectGap)
	assert.Equal(t, []string{"baseline", "adaptive"}, cfg.Experiment.Variants)
	assert.Equal(t, 8, cfg.Experiment.Vibration.FallbackLength)
	assert.True(t, cfg.Model.Enabled)
	assert.Equal(t, time.Minute, cfg.Model.PersistInterval)
	require.Len(t, cfg.Deck, 2)
	assert.Equal(t, "apple", cfg.Deck[0].ID)
}

func TestInit_EnvOverride(t *testing.T) {
	writeConfig(t, "sqlite", sqliteConfig)
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("BOT_TOKEN", "token")

	cfg, err := Init()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.DB.Path)
	assert.Equal(t, "token", cfg.BotToken)
}

func TestInit_PostgresNeedsConn(t *testing.T) {
	writeConfig(t, "pg", postgresWithoutConn)

	_, err := Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.conn")
}

func TestInit_MissingFile(t *testing.T) {
	writeConfig(t, "present", sqliteConfig)
	t.Setenv("CONFIG_NAME", "absent")

	_, err := Init()
	assert.Error(t, err)
}

func TestInit_DriverOverride(t *testing.T) {
	writeConfig(t, "sqlite", sqliteConfig)
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Init()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)

	t.Setenv("DB_DRIVER", "mysql")
	_, err = Init()
	assert.Error(t, err)
}
