// Package check provides system diagnostics (the check command) and the
// pre-batch dependency validation (CheckDeps) for the DjVuLibre tools.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/tool"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrRendererNotFound = errors.New("ddjvu renderer not found")
	ErrTempDirUnusable  = errors.New("temporary directory not writable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
}

// Locate resolves a tool path. Paths containing a separator must name an
// existing regular file; bare names are looked up on PATH.
func Locate(path string) (string, error) {
	if strings.ContainsRune(path, filepath.Separator) || strings.ContainsRune(path, '/') {
		fi, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if !fi.Mode().IsRegular() {
			return "", fmt.Errorf("%s is not a regular file", path)
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// CheckDeps is the pre-batch validation. The renderer is required. The
// script evaluator is optional because page counting falls back without
// it; its absence is reported through warn when non-nil.
func CheckDeps(cfg *config.Config, warn func(string, ...any)) error {
	if _, err := Locate(cfg.DdjvuPath); err != nil {
		return fmt.Errorf("%w at %s", ErrRendererNotFound, cfg.DdjvuPath)
	}
	if _, err := Locate(cfg.DjvusedPath); err != nil && warn != nil {
		warn("djvused not found at %s; page counts will come from the page listing", cfg.DjvusedPath)
	}
	if err := tempDirWritable(cfg.TempDir); err != nil {
		return fmt.Errorf("%w: %v", ErrTempDirUnusable, err)
	}
	return nil
}

// RunCheck runs the interactive check flow: reports where each tool was
// found, the first line of its usage banner, and whether the scratch
// parent is writable. It is informational only and returns the number of
// problems found.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger, r tool.Runner) int {
	log.Info("=== System Check ===")

	problems := 0
	if !checkTool(ctx, log, r, "ddjvu", cfg.DdjvuPath, true) {
		problems++
	}
	if !checkTool(ctx, log, r, "djvused", cfg.DjvusedPath, false) {
		problems++
	}

	dir := cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := tempDirWritable(cfg.TempDir); err != nil {
		log.Error("Scratch directory %s: %v", dir, err)
		problems++
	} else {
		log.Success("Scratch directory %s is writable", dir)
	}
	return problems
}

// checkTool locates one tool and logs its banner line.
func checkTool(ctx context.Context, log Logger, r tool.Runner, label, path string, required bool) bool {
	resolved, err := Locate(path)
	if err != nil {
		if required {
			log.Error("%s not found (%s)", label, path)
		} else {
			log.Warn("%s not found (%s); page listing will be used for counts", label, path)
		}
		return false
	}

	// Both tools print usage and exit non-zero when given no document.
	res, _ := r.Run(ctx, resolved)
	if line := bannerLine(res); line != "" {
		log.Success("%s: %s (%s)", label, line, resolved)
	} else {
		log.Success("%s: %s", label, resolved)
	}
	return true
}

func bannerLine(res tool.Result) string {
	for _, out := range []string{res.Stderr, res.Stdout} {
		for _, l := range strings.Split(out, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				return l
			}
		}
	}
	return ""
}

// tempDirWritable creates and removes a probe directory under dir (or the
// system temp dir when empty).
func tempDirWritable(dir string) error {
	p, err := os.MkdirTemp(dir, "djvu2cbz-check-*")
	if err != nil {
		return err
	}
	return os.Remove(p)
}
