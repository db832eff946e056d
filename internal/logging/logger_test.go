package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/djvu2cbz/internal/config"
)

func newTestLogger(verbose bool) (*Logger, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut, file bytes.Buffer
	l := New(Options{Stdout: &out, Stderr: &errOut, File: &file, Verbose: verbose, RunID: "run-1"})
	return l, &out, &errOut, &file
}

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
	assert.NotEmpty(t, l.RunID())
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "djvu2cbz.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)

	l.Info("to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO]")
	assert.Contains(t, string(b), "to file")
	assert.Contains(t, string(b), "run="+l.RunID())
}

func TestLevels_RouteToStreams(t *testing.T) {
	l, out, errOut, _ := newTestLogger(false)

	l.Info("converting %d documents", 3)
	l.Warn("page count unknown")
	l.Success("done")
	l.Error("failed: %s", "book.djvu")

	assert.Contains(t, out.String(), "[INFO] converting 3 documents")
	assert.Contains(t, out.String(), "[WARN] page count unknown")
	assert.Contains(t, out.String(), "[SUCCESS] done")
	assert.NotContains(t, out.String(), "failed")
	assert.Contains(t, errOut.String(), "[ERROR] failed: book.djvu")
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	quiet, out, _, _ := newTestLogger(false)
	quiet.Debug("hidden")
	assert.NotContains(t, out.String(), "hidden")

	loud, out2, _, _ := newTestLogger(true)
	loud.Debug("shown")
	assert.Contains(t, out2.String(), "[DEBUG] shown")
}

func TestWith_AddsField(t *testing.T) {
	l, out, _, file := newTestLogger(false)
	l.With("doc", "book.djvu").Info("rendering")

	assert.Contains(t, out.String(), "doc=book.djvu")
	assert.Contains(t, file.String(), "doc=book.djvu")
}

func TestRunID_OnlyInFileSink(t *testing.T) {
	l, out, _, file := newTestLogger(false)
	l.Info("hello")

	assert.NotContains(t, out.String(), "run-1")
	assert.Contains(t, file.String(), "run=run-1")
	for _, line := range strings.Split(strings.TrimSpace(file.String()), "\n") {
		assert.NotContains(t, line, "\x1b[", "file sink must be plain text")
	}
}
