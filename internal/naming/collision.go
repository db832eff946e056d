package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out archive paths so that no two source documents
// in one run write the same archive. This happens when "book.djvu" and
// "book.djv" share a directory, or when names differ only in case on a
// case-insensitive filesystem. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // folded archive path → source that owns it
	counters map[string]int    // folded requested path → next suffix to try
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the archive path for source. The requested path is
// returned unchanged when unclaimed (or already owned by source); otherwise
// the first free "<stem> (N).cbz" variant, N starting at 2.
func (cr *CollisionResolver) Resolve(source, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.claim(source, requested) {
		return requested
	}

	dir := filepath.Dir(requested)
	ext := filepath.Ext(requested)
	stem := strings.TrimSuffix(filepath.Base(requested), ext)

	key := fold(requested)
	n := cr.counters[key]
	if n < 2 {
		n = 2
	}
	for ; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if cr.claim(source, candidate) {
			cr.counters[key] = n + 1
			return candidate
		}
	}
}

// Owner returns the source that claimed path, if any.
func (cr *CollisionResolver) Owner(path string) (string, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	src, ok := cr.owners[fold(path)]
	return src, ok
}

func (cr *CollisionResolver) claim(source, path string) bool {
	key := fold(path)
	owner, taken := cr.owners[key]
	if taken && owner != source {
		return false
	}
	cr.owners[key] = source
	return true
}

func fold(path string) string { return strings.ToLower(filepath.Clean(path)) }
