package extract

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/backmassage/djvu2cbz/internal/djvulibre"
	"github.com/backmassage/djvu2cbz/internal/tool/tooltest"
)

const doc = "book.djvu"

func newExtractor(d tooltest.Doc) (*Extractor, *tooltest.Simulator) {
	sim := tooltest.NewSimulator(map[string]tooltest.Doc{doc: d})
	return &Extractor{Renderer: djvulibre.Ddjvu{Path: tooltest.Ddjvu, Runner: sim}}, sim
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}

func TestExtractPage_Primary(t *testing.T) {
	dir := t.TempDir()
	e, sim := newExtractor(tooltest.Doc{Pages: 3})
	out := filepath.Join(dir, "page_0002.png")

	m, err := e.ExtractPage(context.Background(), doc, 2, out, 85)
	require.NoError(t, err)
	assert.Equal(t, MethodPrimary, m)
	assert.Equal(t, []string{"page_0002.png"}, entries(t, dir))
	assert.Len(t, sim.Calls(), 1)
}

func TestExtractPage_SecondaryReencodes(t *testing.T) {
	dir := t.TempDir()
	e, sim := newExtractor(tooltest.Doc{Pages: 3, PNGFails: tooltest.Pages(2)})
	out := filepath.Join(dir, "page_0002.png")

	m, err := e.ExtractPage(context.Background(), doc, 2, out, 85)
	require.NoError(t, err)
	assert.Equal(t, MethodSecondary, m)
	assert.Equal(t, []string{"page_0002.png"}, entries(t, dir), "intermediate TIFF must be removed")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	wr, wg, wb, _ := tooltest.PageImage(2).At(0, 0).RGBA()
	assert.Equal(t, []uint32{wr, wg, wb}, []uint32{r, g, b})

	calls := sim.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Args, "-format=tiff")
	assert.Equal(t, filepath.Join(dir, "page_0002.tiff"), calls[1].Args[len(calls[1].Args)-1])
}

func TestExtractPage_ExitZeroWithoutFileIsNotSuccess(t *testing.T) {
	dir := t.TempDir()
	e, _ := newExtractor(tooltest.Doc{Pages: 1, PNGNoFile: tooltest.Pages(1)})

	m, err := e.ExtractPage(context.Background(), doc, 1, filepath.Join(dir, "page_0001.png"), 85)
	require.NoError(t, err)
	assert.Equal(t, MethodSecondary, m)
}

func TestExtractPage_BothFail(t *testing.T) {
	dir := t.TempDir()
	e, _ := newExtractor(tooltest.Doc{
		Pages:      2,
		PNGFails:   tooltest.Pages(1),
		PartialPNG: true,
		TIFFFails:  tooltest.Pages(1),
	})

	m, err := e.ExtractPage(context.Background(), doc, 1, filepath.Join(dir, "page_0001.png"), 85)
	assert.ErrorIs(t, err, ErrPageNotRendered)
	assert.Equal(t, MethodNone, m)
	assert.Empty(t, entries(t, dir), "a failed page leaves no file behind")
}

func TestExtractPage_PastLastPage(t *testing.T) {
	dir := t.TempDir()
	e, _ := newExtractor(tooltest.Doc{Pages: 2})

	_, err := e.ExtractPage(context.Background(), doc, 3, filepath.Join(dir, "page_0003.png"), 85)
	assert.ErrorIs(t, err, ErrPageNotRendered)
	assert.Empty(t, entries(t, dir))
}

func TestExtractPage_RequiresPNGOutput(t *testing.T) {
	e, sim := newExtractor(tooltest.Doc{Pages: 1})
	_, err := e.ExtractPage(context.Background(), doc, 1, filepath.Join(t.TempDir(), "page.jpg"), 85)
	assert.Error(t, err)
	assert.Empty(t, sim.Calls())
}

func TestExtractPage_Canceled(t *testing.T) {
	e, sim := newExtractor(tooltest.Doc{Pages: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ExtractPage(ctx, doc, 1, filepath.Join(t.TempDir(), "page_0001.png"), 85)
	assert.ErrorIs(t, err, ErrPageNotRendered)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sim.Calls(), 1, "no secondary attempt after cancellation")
}

func TestReencode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.tiff")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, tooltest.PageImage(5), nil))
	require.NoError(t, f.Close())

	dst := filepath.Join(dir, "out.png")
	require.NoError(t, Reencode(src, dst))

	g, err := os.Open(dst)
	require.NoError(t, err)
	defer g.Close()
	cfg, err := png.DecodeConfig(g)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}

func TestReencode_CorruptInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.tiff")
	require.NoError(t, os.WriteFile(src, []byte("not a tiff"), 0o644))
	assert.Error(t, Reencode(src, filepath.Join(dir, "out.png")))
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "png", MethodPrimary.String())
	assert.Equal(t, "tiff", MethodSecondary.String())
	assert.Equal(t, "none", MethodNone.String())
}
