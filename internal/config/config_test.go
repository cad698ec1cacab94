package config_test

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"workboard/internal/config"
	"workboard/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"BOARD_COLUMNS", "TASK_API_TIMEOUT", "LOG_LEVEL", "DB_HOST", "REDIS_URL", "TASK_API_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv("TASK_API_TIMEOUT", "not-a-duration")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := config.Load()

	assert.Equal(t, model.DefaultColumns(), cfg.Columns)
	assert.Equal(t, 10*time.Second, cfg.TaskAPITimeout)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.DatabaseEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOARD_COLUMNS", "to_do,in_progress,done")
	t.Setenv("TASK_API_URL", "http://tasks.internal/api/")
	t.Setenv("TASK_API_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")

	cfg := config.Load()

	assert.Equal(t, []model.Status{"to_do", "in_progress", "done"}, cfg.Columns)
	assert.Equal(t, "http://tasks.internal/api/", cfg.TaskAPIURL)
	assert.Equal(t, 3*time.Second, cfg.TaskAPITimeout)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.DatabaseEnabled())
	assert.Contains(t, cfg.DSN(), "host=db port=5433")
}
