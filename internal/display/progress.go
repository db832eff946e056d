package display

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// Progress tracks finished documents during a batch. A disabled Progress
// accepts every call and draws nothing.
type Progress struct {
	bar  *progressbar.ProgressBar
	done atomic.Int64
}

// NewProgress returns a bar over total documents drawn on w. When enabled
// is false the bar writes to io.Discard.
func NewProgress(w io.Writer, total int, enabled bool) *Progress {
	if !enabled || w == nil {
		w = io.Discard
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	return &Progress{bar: bar}
}

// Done records one finished document, described by name.
func (p *Progress) Done(name string) {
	p.done.Add(1)
	p.bar.Describe(name)
	_ = p.bar.Add(1)
}

// Finish completes the bar.
func (p *Progress) Finish() {
	_ = p.bar.Finish()
}

// Count returns how many documents have been recorded.
func (p *Progress) Count() int {
	return int(p.done.Load())
}

// Spinner shows activity for a step of unknown length, such as walking a
// large library.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner returns a spinner with the given suffix drawn on w.
func NewSpinner(w io.Writer, suffix string, enabled bool) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	return &Spinner{s: s, enabled: enabled && w != nil}
}

// Start begins drawing when enabled.
func (s *Spinner) Start() {
	if s.enabled {
		s.s.Start()
	}
}

// Stop clears the spinner.
func (s *Spinner) Stop() {
	if s.enabled {
		s.s.Stop()
	}
}
