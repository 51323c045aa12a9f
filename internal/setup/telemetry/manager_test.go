package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalyx/unbanmanager/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceType(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Bot: config.BotConfig{RequestTimeout: 2500}}

	assert.Equal(t, "bot", ServiceBot.String())
	assert.Equal(t, "db", ServiceDB.String())
	assert.Equal(t, 2500*time.Millisecond, ServiceBot.GetRequestTimeout(cfg))
	assert.Equal(t, 5*time.Second, ServiceDB.GetRequestTimeout(cfg))
}

func TestManagerGetLoggers(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	manager := NewManager(t.Context(), ServiceBot, logDir,
		&config.Debug{LogLevel: "debug", MaxLogsToKeep: 3, MaxLogLines: 100}, &config.Telemetry{}, "test")
	defer manager.Stop(t.Context())

	assert.Empty(t, manager.TracingServiceName())
	assert.NotEmpty(t, manager.GetInstanceID())

	mainLogger, dbLogger, err := manager.GetLoggers()
	require.NoError(t, err)

	mainLogger.Info("hello")
	dbLogger.Info("query")

	sessionDir := manager.GetCurrentSessionDir()
	for _, name := range []string{"main.log", "database.log"} {
		content, err := os.ReadFile(filepath.Join(sessionDir, name))
		require.NoError(t, err)
		assert.NotEmpty(t, content)
	}
}

func TestManagerRejectsInvalidLevel(t *testing.T) {
	t.Parallel()

	manager := NewManager(t.Context(), ServiceDB, t.TempDir(),
		&config.Debug{LogLevel: "loud"}, &config.Telemetry{}, "test")

	_, _, err := manager.GetLoggers()
	require.Error(t, err)
}

func TestRotateLogSessions(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	for i := range 4 {
		dir := filepath.Join(logDir, "session"+string(rune('a'+i)))
		require.NoError(t, os.Mkdir(dir, 0o755))

		modTime := time.Now().Add(time.Duration(i-10) * time.Minute)
		require.NoError(t, os.Chtimes(dir, modTime, modTime))
	}

	manager := &Manager{logDir: logDir, maxLogsToKeep: 2}
	require.NoError(t, manager.rotateLogSessions())

	remaining, err := filepath.Glob(filepath.Join(logDir, "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(logDir, "sessiond")}, remaining)
}
