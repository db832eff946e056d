package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/djvu2cbz/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() {
		t.Error("ColorAlways should enable colors")
	}
	Configure(config.ColorNever)
	if Enabled() {
		t.Error("ColorNever should disable colors")
	}
}

func TestConfigure_AutoRespectsNoColor(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })
	t.Setenv("NO_COLOR", "1")

	Configure(config.ColorAuto)
	if Enabled() {
		t.Error("NO_COLOR should disable colors in auto mode")
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
	if IsTerminal(nil) {
		t.Error("nil is not a terminal")
	}
	if got := Width(f, 80); got != 80 {
		t.Errorf("Width() = %d, want fallback 80", got)
	}
}
