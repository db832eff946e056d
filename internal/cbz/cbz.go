// Package cbz assembles comic book archives: zip files whose entries are
// page images stored uncompressed in page order.
//
// Archives are written to a temporary file next to the destination and
// renamed into place, so an interrupted run never leaves a truncated
// archive and an existing archive is replaced in one step.
package cbz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// Ext is the archive file extension.
const Ext = ".cbz"

// ErrNoEntries is returned when the source directory holds no page images.
var ErrNoEntries = errors.New("no page images to archive")

// entryTime is stamped on every entry so identical pages give identical
// archives.
var entryTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Info describes a written archive.
type Info struct {
	Entries int
	Bytes   int64
}

// Write archives every .png file directly inside srcDir into dst, in
// ascending name order, with entry names equal to the file names. Any
// existing file at dst is replaced.
func Write(ctx context.Context, dst, srcDir string) (Info, error) {
	names, err := pageFiles(srcDir)
	if err != nil {
		return Info{}, err
	}
	if len(names) == 0 {
		return Info{}, ErrNoEntries
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".djvu2cbz-*"+Ext+".tmp")
	if err != nil {
		return Info{}, fmt.Errorf("create archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Info{}, err
		}
		if err := addEntry(zw, srcDir, name); err != nil {
			return Info{}, fmt.Errorf("add %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Info{}, fmt.Errorf("finish archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return Info{}, fmt.Errorf("sync archive: %w", err)
	}
	fi, err := tmp.Stat()
	if err != nil {
		return Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return Info{}, fmt.Errorf("close archive: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return Info{}, fmt.Errorf("rename archive: %w", err)
	}
	committed = true
	return Info{Entries: len(names), Bytes: fi.Size()}, nil
}

// Discard removes the archive at dst if one exists.
func Discard(dst string) error {
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Entries returns the entry names of the archive at path, in archive order.
func Entries(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func pageFiles(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, de := range des {
		if de.Type().IsRegular() && strings.EqualFold(filepath.Ext(de.Name()), ".png") {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func addEntry(zw *zip.Writer, dir, name string) error {
	src, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: entryTime,
	})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
