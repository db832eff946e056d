package pipeline

import (
	"sync/atomic"
	"time"
)

// RunStats is the batch summary.
type RunStats struct {
	Total        int // Jobs discovered.
	Succeeded    int
	Failed       int
	NotStarted   int // Jobs skipped after an interrupt.
	Pages        int // Pages archived across all documents.
	Reencoded    int // Pages that needed the TIFF path.
	ArchiveBytes int64
	Elapsed      time.Duration
	DryRun       bool
}

// AllConverted reports whether every job produced an archive.
func (s RunStats) AllConverted() bool {
	return s.Succeeded == s.Total
}

// tally accumulates results from concurrent workers.
type tally struct {
	succeeded atomic.Int64
	failed    atomic.Int64
	pages     atomic.Int64
	reencoded atomic.Int64
	bytes     atomic.Int64
}

func (t *tally) record(r DocResult) {
	if !r.OK() {
		t.failed.Add(1)
		return
	}
	t.succeeded.Add(1)
	t.pages.Add(int64(r.Archive.Entries))
	t.reencoded.Add(int64(r.Reencoded))
	t.bytes.Add(r.Archive.Bytes)
}

func (t *tally) stats(total int, elapsed time.Duration) RunStats {
	s := RunStats{
		Total:        total,
		Succeeded:    int(t.succeeded.Load()),
		Failed:       int(t.failed.Load()),
		Pages:        int(t.pages.Load()),
		Reencoded:    int(t.reencoded.Load()),
		ArchiveBytes: t.bytes.Load(),
		Elapsed:      elapsed,
	}
	s.NotStarted = total - s.Succeeded - s.Failed
	return s
}
