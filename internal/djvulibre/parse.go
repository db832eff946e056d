package djvulibre

import (
	"errors"
	"strconv"
	"strings"
)

// pageMarker prefixes each page line in ddjvu -l output.
const pageMarker = "Page "

// ErrNoPageCount is returned when tool output holds no usable page count.
var ErrNoPageCount = errors.New("no page count in tool output")

// ParsePageCount reads djvused "n" output: a single non-negative integer,
// surrounding whitespace ignored.
func ParsePageCount(stdout string) (int, error) {
	s := strings.TrimSpace(stdout)
	if s == "" {
		return 0, ErrNoPageCount
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrNoPageCount
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrNoPageCount
	}
	return n, nil
}

// CountPageMarkers counts lines of a ddjvu page listing whose trimmed text
// starts with the page marker.
func CountPageMarkers(stdout string) int {
	n := 0
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), pageMarker) {
			n++
		}
	}
	return n
}
