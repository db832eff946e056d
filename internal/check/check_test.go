package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/tool"
)

type recLogger struct{ lines []string }

func (l *recLogger) add(level, f string, a ...any) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(f, a...))
}
func (l *recLogger) Info(f string, a ...any)    { l.add("INFO", f, a...) }
func (l *recLogger) Success(f string, a ...any) { l.add("SUCCESS", f, a...) }
func (l *recLogger) Warn(f string, a ...any)    { l.add("WARN", f, a...) }
func (l *recLogger) Error(f string, a ...any)   { l.add("ERROR", f, a...) }

func (l *recLogger) has(prefix string) bool {
	for _, s := range l.lines {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

type bannerRunner struct{}

func (bannerRunner) Run(_ context.Context, name string, _ ...string) (tool.Result, error) {
	return tool.Result{Stderr: "\nDDJVU --- DjVuLibre-3.5.28\nUsage: ...\n", ExitCode: 1}, errors.New("exit status 1")
}

func fakeTool(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))
	return p
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	p := fakeTool(t, dir, "ddjvu")

	got, err := Locate(p)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = Locate(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = Locate(dir)
	assert.Error(t, err, "a directory is not a tool")

	_, err = Locate("djvu2cbz-definitely-not-on-path")
	assert.Error(t, err)
}

func TestCheckDeps(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DdjvuPath = fakeTool(t, dir, "ddjvu")
	cfg.DjvusedPath = filepath.Join(dir, "djvused")
	cfg.TempDir = t.TempDir()

	var warned []string
	warn := func(f string, a ...any) { warned = append(warned, fmt.Sprintf(f, a...)) }

	require.NoError(t, CheckDeps(&cfg, warn))
	assert.Len(t, warned, 1, "missing djvused is a warning only")

	cfg.DdjvuPath = filepath.Join(dir, "nope", "ddjvu")
	err := CheckDeps(&cfg, nil)
	assert.ErrorIs(t, err, ErrRendererNotFound)
}

func TestCheckDeps_TempDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DdjvuPath = fakeTool(t, dir, "ddjvu")
	cfg.TempDir = filepath.Join(dir, "does-not-exist")

	assert.ErrorIs(t, CheckDeps(&cfg, nil), ErrTempDirUnusable)
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DdjvuPath = fakeTool(t, dir, "ddjvu")
	cfg.DjvusedPath = filepath.Join(dir, "missing-djvused")
	cfg.TempDir = t.TempDir()

	log := &recLogger{}
	problems := RunCheck(context.Background(), &cfg, log, bannerRunner{})

	assert.Equal(t, 1, problems)
	assert.True(t, log.has("SUCCESS ddjvu: DDJVU --- DjVuLibre-3.5.28"), "lines: %v", log.lines)
	assert.True(t, log.has("WARN djvused not found"))
	assert.True(t, log.has("SUCCESS Scratch directory"))
}
