// Package tooltest provides in-process stand-ins for the DjVuLibre tools so
// counting, extraction and batch behavior can be tested without the real
// binaries.
package tooltest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/tiff"

	"github.com/backmassage/djvu2cbz/internal/tool"
)

// Tool names the Simulator answers to.
const (
	Ddjvu   = "ddjvu"
	Djvused = "djvused"
)

var errExit = errors.New("exit status 1")

// Doc describes how one simulated document behaves.
type Doc struct {
	Pages       int          // Real page count; renders past it fail.
	ScriptFails bool         // djvused exits non-zero.
	ScriptOut   string       // Overrides djvused stdout when set.
	Listed      int          // Page lines printed by ddjvu -l.
	ListFails   bool         // ddjvu -l exits non-zero.
	PNGFails    map[int]bool // Primary render fails for these pages.
	PartialPNG  bool         // A failed primary render leaves a partial file.
	PNGNoFile   map[int]bool // Primary render exits 0 without writing.
	TIFFFails   map[int]bool // Secondary render fails for these pages.
	Panic       bool         // Any tool call on this doc panics.
}

// Call records one invocation.
type Call struct {
	Name string
	Args []string
}

// Simulator implements tool.Runner over a set of documents keyed by path.
type Simulator struct {
	mu    sync.Mutex
	docs  map[string]Doc
	calls []Call
}

// NewSimulator returns a Simulator over docs.
func NewSimulator(docs map[string]Doc) *Simulator {
	if docs == nil {
		docs = map[string]Doc{}
	}
	return &Simulator{docs: docs}
}

// Set adds or replaces a document.
func (s *Simulator) Set(path string, d Doc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = d
}

// Calls returns a copy of every invocation so far.
func (s *Simulator) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the invocations of the tool with base name name.
func (s *Simulator) CallsTo(name string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if filepath.Base(c.Name) == name {
			out = append(out, c)
		}
	}
	return out
}

// Run implements tool.Runner. Tools are matched on the base name of name,
// so configured absolute paths work too.
func (s *Simulator) Run(ctx context.Context, name string, args ...string) (tool.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Name: name, Args: append([]string(nil), args...)})
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return tool.Result{ExitCode: -1}, fmt.Errorf("%s: %w", name, err)
	}

	switch filepath.Base(name) {
	case Djvused:
		return s.djvused(args)
	case Ddjvu:
		if len(args) == 2 && args[0] == "-l" {
			return s.list(args[1])
		}
		return s.render(args)
	}
	return tool.Result{ExitCode: -1}, fmt.Errorf("%s: %w", name, os.ErrNotExist)
}

func (s *Simulator) doc(path string) (Doc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[path]
	if ok && d.Panic {
		panic("simulated tool crash on " + path)
	}
	return d, ok
}

func fail(name, msg string) (tool.Result, error) {
	return tool.Result{ExitCode: 1, Stderr: msg + "\n"}, fmt.Errorf("%s: %w", name, errExit)
}

func (s *Simulator) djvused(args []string) (tool.Result, error) {
	if len(args) != 3 {
		return fail(Djvused, "usage")
	}
	d, ok := s.doc(args[0])
	if !ok || d.ScriptFails {
		return fail(Djvused, "cannot open "+args[0])
	}
	if d.ScriptOut != "" {
		return tool.Result{Stdout: d.ScriptOut}, nil
	}
	return tool.Result{Stdout: strconv.Itoa(d.Pages) + "\n"}, nil
}

func (s *Simulator) list(path string) (tool.Result, error) {
	d, ok := s.doc(path)
	if !ok || d.ListFails {
		return fail(Ddjvu, "cannot open "+path)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Document %s\n", path)
	for i := 1; i <= d.Listed; i++ {
		fmt.Fprintf(&b, "  Page %d, size 2x2\n", i)
	}
	return tool.Result{Stdout: b.String()}, nil
}

func (s *Simulator) render(args []string) (tool.Result, error) {
	if len(args) < 2 {
		return fail(Ddjvu, "usage")
	}
	var page int
	var format string
	for _, a := range args[:len(args)-2] {
		switch {
		case strings.HasPrefix(a, "-page="):
			page, _ = strconv.Atoi(strings.TrimPrefix(a, "-page="))
		case strings.HasPrefix(a, "-format="):
			format = strings.TrimPrefix(a, "-format=")
		}
	}
	docPath, out := args[len(args)-2], args[len(args)-1]

	d, ok := s.doc(docPath)
	if !ok || page < 1 || page > d.Pages {
		return fail(Ddjvu, fmt.Sprintf("page %d out of range", page))
	}

	switch format {
	case "png":
		if d.PNGFails[page] {
			if d.PartialPNG {
				_ = os.WriteFile(out, []byte("partial"), 0o644)
			}
			return fail(Ddjvu, "corrupted chunk")
		}
		if d.PNGNoFile[page] {
			return tool.Result{}, nil
		}
		if err := writePNG(out, page); err != nil {
			return fail(Ddjvu, err.Error())
		}
	case "tiff":
		if d.TIFFFails[page] {
			return fail(Ddjvu, "corrupted chunk")
		}
		if err := writeTIFF(out, page); err != nil {
			return fail(Ddjvu, err.Error())
		}
	default:
		return fail(Ddjvu, "unsupported format "+format)
	}
	return tool.Result{}, nil
}

// PageImage returns the 2x2 image the Simulator renders for page.
func PageImage(page int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	c := color.RGBA{R: uint8(page), G: uint8(page * 7), B: uint8(page * 13), A: 0xff}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(path string, page int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, PageImage(page)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTIFF(path string, page int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, PageImage(page), nil); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Pages returns a set of page numbers, for the Doc maps.
func Pages(pages ...int) map[int]bool {
	m := make(map[int]bool, len(pages))
	for _, p := range pages {
		m[p] = true
	}
	return m
}
