package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	assert.Contains(t, path, ".storefront")
	assert.Equal(t, "storefront.log", filepath.Base(path))
	assert.Equal(t, DefaultLogDir(), filepath.Dir(path))
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	// Given: a config pointing at a temp file without stderr
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, cleanup, err := Setup(Config{Level: "info", FilePath: path})
	require.NoError(t, err)

	// When: logging below and at the level
	logger.Debug("hidden_event")
	logger.Info("favorites_loaded", slog.Int("count", 2))
	cleanup()

	// Then: only the info line is written, as JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "hidden_event")
	assert.Contains(t, content, `"msg":"favorites_loaded"`)
	assert.Contains(t, content, `"count":2`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromString("DEBUG"))
	assert.Equal(t, slog.LevelWarn, LevelFromString("warning"))
	assert.Equal(t, slog.LevelError, LevelFromString("error"))
	assert.Equal(t, slog.LevelInfo, LevelFromString("nonsense"))
}

func TestRotatingWriter_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rot.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer w.Close()

	// Given: writes that exceed 1MB
	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 3; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: rotated files exist
	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFindLogFile_Explicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	got, err := FindLogFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = FindLogFile(path + ".missing")
	assert.Error(t, err)
}

const sampleLog = `{"time":"2026-01-02T10:00:00.000Z","level":"DEBUG","msg":"search_complete","total":2}
{"time":"2026-01-02T10:00:01.000Z","level":"WARN","msg":"favorites_persist_failed","error_code":"ERR_202_STORAGE_WRITE"}
not json at all
{"time":"2026-01-02T10:00:02.000Z","level":"INFO","msg":"theme_applied","theme":"dark"}
`

func TestViewer_Tail_FiltersByLevelAndPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0644))

	// Level filter keeps warn and above, and raw lines
	v := NewViewer(ViewerConfig{Level: "info", NoColor: true}, nil)
	entries, err := v.Tail(path, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "favorites_persist_failed", entries[0].Msg)
	assert.False(t, entries[1].IsValid)

	// Pattern filter
	v = NewViewer(ViewerConfig{Pattern: regexp.MustCompile("theme")}, nil)
	entries, err = v.Tail(path, 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dark", entries[0].Attrs["theme"])

	// n limits lines read
	v = NewViewer(ViewerConfig{}, nil)
	entries, err = v.Tail(path, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "theme_applied", entries[0].Msg)
}

func TestViewer_FormatEntry(t *testing.T) {
	var buf bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	entry := parseLine(`{"time":"2026-01-02T10:00:01.000Z","level":"WARN","msg":"probe","b":1,"a":"x"}`)
	line := v.FormatEntry(entry)
	assert.True(t, strings.HasSuffix(line, "WARN  probe a=x b=1"), line)

	v.Print([]LogEntry{parseLine("raw line")})
	assert.Equal(t, "raw line\n", buf.String())
}

func TestViewer_Follow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0644))

	v := NewViewer(ViewerConfig{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := make(chan LogEntry, 4)
	done := make(chan error, 1)
	go func() { done <- v.Follow(ctx, path, entries) }()
	time.Sleep(100 * time.Millisecond)

	// When: a line is appended
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"time":"2026-01-02T10:00:03.000Z","level":"INFO","msg":"appended"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Then: only the new entry is delivered
	select {
	case e := <-entries:
		assert.Equal(t, "appended", e.Msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for followed entry")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestRotatingWriter_KeepsMaxFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)

	// Given: five writes that each fill the file
	chunk := bytes.Repeat([]byte("y"), 1<<20)
	for i := 0; i < 5; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	// Then: only two rotated files remain next to the active one
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")
	assert.Equal(t, path, w.Path())

	// Writes after Close fail
	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestSetup_RecordsCarryPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pid.log")
	logger, cleanup, err := Setup(Config{FilePath: path})
	require.NoError(t, err)

	logger.Info("session_opened")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pid":`)
}
