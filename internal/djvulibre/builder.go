package djvulibre

import (
	"fmt"
	"strconv"
)

// Format is a ddjvu output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// Ext returns the file extension ddjvu output in this format is written
// with, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// RenderRequest describes one single-page render.
type RenderRequest struct {
	Doc     string
	Page    int // 1-based.
	Format  Format
	Quality int // 1-100.
	Out     string
}

// RenderArgs returns the ddjvu arguments for req. Pages are rendered in
// color and ddjvu is told to skip corrupted chunks rather than abort.
func RenderArgs(req RenderRequest) []string {
	return []string{
		"-page=" + strconv.Itoa(req.Page),
		"-format=" + string(req.Format),
		"-mode=color",
		"-quality=" + strconv.Itoa(req.Quality),
		"-skip",
		req.Doc,
		req.Out,
	}
}

// PageCountArgs returns the djvused arguments that print the page count.
func PageCountArgs(doc string) []string {
	return []string{doc, "-e", "n"}
}

// ListArgs returns the ddjvu arguments that list the document's pages.
func ListArgs(doc string) []string {
	return []string{"-l", doc}
}

func (r RenderRequest) validate() error {
	if r.Page < 1 {
		return fmt.Errorf("page must be 1-based (got %d)", r.Page)
	}
	switch r.Format {
	case FormatPNG, FormatTIFF:
	default:
		return fmt.Errorf("unsupported render format %q", r.Format)
	}
	if r.Out == "" {
		return fmt.Errorf("render of page %d has no output path", r.Page)
	}
	return nil
}
