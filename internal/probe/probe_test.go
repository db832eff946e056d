package probe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/djvu2cbz/internal/djvulibre"
	"github.com/backmassage/djvu2cbz/internal/logging"
	"github.com/backmassage/djvu2cbz/internal/tool/tooltest"
)

type fakeScript struct {
	n   int
	err error
}

func (f fakeScript) QueryPageCount(context.Context, string) (int, error) { return f.n, f.err }

type fakeLister struct {
	n   int
	err error
}

func (f fakeLister) ListPages(context.Context, string) (int, error) { return f.n, f.err }

var errTool = errors.New("exit status 1")

func TestCountPages_Strategies(t *testing.T) {
	tests := []struct {
		name   string
		script fakeScript
		lister fakeLister
		want   PageCount
	}{
		{"script wins", fakeScript{n: 12}, fakeLister{n: 3}, PageCount{12, SourceScript}},
		{"script fails, listing used", fakeScript{err: errTool}, fakeLister{n: 7}, PageCount{7, SourceListing}},
		{"script reports zero", fakeScript{n: 0}, fakeLister{n: 4}, PageCount{4, SourceListing}},
		{"both fail", fakeScript{err: errTool}, fakeLister{err: errTool}, PageCount{100, SourceDefault}},
		{"listing has no pages", fakeScript{err: errTool}, fakeLister{n: 0}, PageCount{100, SourceDefault}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Counter{Script: tt.script, Lister: tt.lister, DefaultPages: 100}
			got := c.CountPages(context.Background(), "book.djvu")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Source != SourceDefault, got.Measured())
		})
	}
}

func TestCountPages_DefaultIsPositive(t *testing.T) {
	c := &Counter{DefaultPages: 0}
	got := c.CountPages(context.Background(), "book.djvu")
	assert.Equal(t, PageCount{1, SourceDefault}, got)
}

func TestCountPages_DefaultLogsWarning(t *testing.T) {
	var out bytes.Buffer
	log := logging.New(logging.Options{Stdout: &out})
	c := &Counter{Script: fakeScript{err: errTool}, Lister: fakeLister{err: errTool}, DefaultPages: 50, Log: log}

	c.CountPages(context.Background(), "book.djvu")
	assert.Contains(t, out.String(), "[WARN] Could not determine page count, attempting 50 pages")
}

func TestCountPages_WithDjvuLibreTools(t *testing.T) {
	sim := tooltest.NewSimulator(map[string]tooltest.Doc{
		"script.djvu":  {Pages: 30, Listed: 30},
		"listing.djvu": {ScriptFails: true, Listed: 8},
		"garbled.djvu": {ScriptOut: "n/a", ListFails: true},
	})
	c := &Counter{
		Script:       djvulibre.Djvused{Path: tooltest.Djvused, Runner: sim},
		Lister:       djvulibre.Ddjvu{Path: tooltest.Ddjvu, Runner: sim},
		DefaultPages: 100,
	}

	assert.Equal(t, PageCount{30, SourceScript}, c.CountPages(context.Background(), "script.djvu"))
	assert.Equal(t, PageCount{8, SourceListing}, c.CountPages(context.Background(), "listing.djvu"))
	assert.Equal(t, PageCount{100, SourceDefault}, c.CountPages(context.Background(), "garbled.djvu"))
	assert.Len(t, sim.CallsTo(tooltest.Ddjvu), 2, "listing only runs when the script fails")
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "script", SourceScript.String())
	assert.Equal(t, "listing", SourceListing.String())
	assert.Equal(t, "default", SourceDefault.String())
	assert.Equal(t, "unknown", Source(9).String())
}
