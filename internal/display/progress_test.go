package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_CountsDocuments(t *testing.T) {
	p := NewProgress(nil, 3, false)
	p.Done("a.djvu")
	p.Done("b.djvu")
	assert.Equal(t, 2, p.Count())
	p.Finish()
}

func TestProgress_DisabledDrawsNothing(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, false)
	p.Done("a.djvu")
	p.Done("b.djvu")
	p.Finish()
	assert.Empty(t, buf.String())
}

func TestSpinner_DisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "scanning", false)
	s.Start()
	s.Stop()
	assert.Empty(t, buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "__")
}
