package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment variables read by [LoadEnv].
const EnvPrefix = "DJVU2CBZ_"

// LoadFile decodes the YAML file at path over cfg. Keys absent from the file
// keep their current values; unknown keys are rejected so typos surface.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads dotenv files (".env" in the working directory when none are
// given; missing files are ignored) and then applies DJVU2CBZ_* variables
// from the process environment to cfg.
func LoadEnv(cfg *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

// applyEnv copies recognized variables into cfg using lookup.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("DDJVU"); ok {
		cfg.DdjvuPath = v
	}
	if v, ok := get("DJVUSED"); ok {
		cfg.DjvusedPath = v
	}
	if v, ok := get("TEMP_DIR"); ok {
		cfg.TempDir = v
	}
	if v, ok := get("OUTPUT_DIR"); ok {
		cfg.OutputDir = NormalizeDirArg(v)
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := get("QUALITY"); ok {
		n, err := parseInt(v, EnvPrefix+"QUALITY")
		if err != nil {
			return err
		}
		cfg.Quality = n
	}
	if v, ok := get("WORKERS"); ok {
		n, err := parseInt(v, EnvPrefix+"WORKERS")
		if err != nil {
			return err
		}
		cfg.Workers = n
	}
	if v, ok := get("TOOL_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s must be a duration such as 90s or 5m (got %q)", EnvPrefix+"TOOL_TIMEOUT", v)
		}
		cfg.ToolTimeout = d
	}
	return nil
}

// parseInt parses a whole number setting; returns a clear error on failure.
func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number (got %q)", name, s)
	}
	return n, nil
}
