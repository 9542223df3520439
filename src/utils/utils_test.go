package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFloat64s(t *testing.T) {
	require.Equal(t, []float64{1.5e9, 0, 86400e9}, Float64s([]time.Duration{1500 * time.Millisecond, 0, 24 * time.Hour}))
	require.Empty(t, Float64s(nil))
}

func TestFormatClock(t *testing.T) {
	require.Equal(t, "0:00:00", FormatClock(0))
	require.Equal(t, "0:01:05", FormatClock(65*time.Second))
	require.Equal(t, "23:59:59", FormatClock(24*time.Hour-time.Second))
	require.Equal(t, "1:00:00", FormatClock(time.Hour+400*time.Millisecond))
}

func TestInitLoggerWritesFileWithShortSource(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "run.log")
	closeLog, err := InitLogger(path, slog.LevelInfo)
	require.NoError(t, err)

	slog.Debug("Hidden")
	slog.Info("Elevator started", "id", 2)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	require.Contains(t, line, `msg="Elevator started" id=2`)
	require.Contains(t, line, "source=utils_test.go:")
	require.NotContains(t, line, "Hidden")
}
