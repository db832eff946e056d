package display

import (
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical archive 42 MiB", 42 * 1024 * 1024, "42.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"sub-second", 850*time.Millisecond + 400*time.Microsecond, "850ms"},
		{"seconds", 12*time.Second + 340*time.Millisecond, "12.3s"},
		{"minutes", 92*time.Second + 600*time.Millisecond, "1m33s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatElapsed(tt.d); got != tt.want {
				t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "page"); got != "1 page" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(0, "document"); got != "0 documents" {
		t.Errorf("Plural(0) = %q", got)
	}
	if got := Plural(12, "page"); got != "12 pages" {
		t.Errorf("Plural(12) = %q", got)
	}
}
