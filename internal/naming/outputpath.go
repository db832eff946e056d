package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ArchiveExt is the extension given to every output archive.
const ArchiveExt = ".cbz"

// ArchivePath mirrors source, which must lie under inputRoot, into
// outputRoot and swaps its extension for .cbz:
//
//	<inputRoot>/a/b/book.djvu → <outputRoot>/a/b/book.cbz
func ArchivePath(inputRoot, outputRoot, source string) (string, error) {
	rel, err := filepath.Rel(inputRoot, source)
	if err != nil {
		return "", fmt.Errorf("mirror %s: %w", source, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("mirror %s: not under %s", source, inputRoot)
	}
	return filepath.Join(outputRoot, Stem(rel)+ArchiveExt), nil
}

// Stem returns path without its final extension.
func Stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
