// Package extract renders single DjVu pages to PNG files.
//
// A page is first rendered straight to PNG. If that produces no file, the
// page is rendered to TIFF instead and re-encoded to PNG in process. Tool
// exit status alone is never trusted: a method only counts as successful
// when its output file exists.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/backmassage/djvu2cbz/internal/djvulibre"
)

// Method identifies how a page was produced.
type Method int

const (
	MethodNone Method = iota
	MethodPrimary
	MethodSecondary
)

func (m Method) String() string {
	switch m {
	case MethodPrimary:
		return "png"
	case MethodSecondary:
		return "tiff"
	}
	return "none"
}

// ErrPageNotRendered is returned when neither method produced the page.
var ErrPageNotRendered = errors.New("page not rendered")

// Renderer renders one page to a file.
type Renderer interface {
	RenderPage(ctx context.Context, req djvulibre.RenderRequest) error
}

// Extractor produces one PNG per call.
type Extractor struct {
	Renderer Renderer
}

// ExtractPage renders page (1-based) of doc to out, which must end in
// ".png". On failure no file is left at out.
func (e *Extractor) ExtractPage(ctx context.Context, doc string, page int, out string, quality int) (Method, error) {
	if !strings.HasSuffix(out, djvulibre.FormatPNG.Ext()) {
		return MethodNone, fmt.Errorf("output %s must end in .png", out)
	}

	req := djvulibre.RenderRequest{Doc: doc, Page: page, Format: djvulibre.FormatPNG, Quality: quality, Out: out}
	primaryErr := e.Renderer.RenderPage(ctx, req)
	if primaryErr == nil && exists(out) {
		return MethodPrimary, nil
	}
	_ = os.Remove(out)
	if err := ctx.Err(); err != nil {
		return MethodNone, fmt.Errorf("%w: page %d: %w", ErrPageNotRendered, page, err)
	}

	tiffPath := strings.TrimSuffix(out, djvulibre.FormatPNG.Ext()) + djvulibre.FormatTIFF.Ext()
	req.Format, req.Out = djvulibre.FormatTIFF, tiffPath
	secondaryErr := e.Renderer.RenderPage(ctx, req)
	defer os.Remove(tiffPath)

	if secondaryErr == nil && exists(tiffPath) {
		if err := Reencode(tiffPath, out); err != nil {
			_ = os.Remove(out)
			return MethodNone, fmt.Errorf("%w: page %d: %w", ErrPageNotRendered, page, err)
		}
		return MethodSecondary, nil
	}

	cause := secondaryErr
	if cause == nil {
		cause = primaryErr
	}
	if cause == nil {
		cause = errors.New("renderer produced no file")
	}
	return MethodNone, fmt.Errorf("%w: page %d: %w", ErrPageNotRendered, page, cause)
}

// Reencode decodes the TIFF at src and writes it as PNG to dst.
func Reencode(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := tiff.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}
	return writePNG(dst, img)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
