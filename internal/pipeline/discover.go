package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/djvu2cbz/internal/naming"
)

// Source document extensions (lowercase, with leading dot).
var documentExtensions = map[string]bool{
	".djvu": true,
	".djv":  true,
}

// IsDocument reports whether path has a source document extension,
// compared case-insensitively.
func IsDocument(path string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover walks inputDir, collects files with a document
// extension, and returns the paths sorted lexicographically for a
// deterministic processing order.
func Discover(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Job pairs one source document with the archive it produces.
type Job struct {
	Source  string
	Archive string
}

// BuildJobs mirrors each source under outputRoot, creating the archive
// directories as it goes. resolver keeps archive paths distinct.
func BuildJobs(inputRoot, outputRoot string, sources []string, resolver *naming.CollisionResolver) ([]Job, error) {
	jobs := make([]Job, 0, len(sources))
	for _, src := range sources {
		archive, err := naming.ArchivePath(inputRoot, outputRoot, src)
		if err != nil {
			return nil, err
		}
		archive = resolver.Resolve(src, archive)
		if err := os.MkdirAll(filepath.Dir(archive), 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		jobs = append(jobs, Job{Source: src, Archive: archive})
	}
	return jobs, nil
}
