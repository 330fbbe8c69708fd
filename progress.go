package main

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// rowProgress renders a per-table row counter on stderr. A nil or disabled
// rowProgress only counts.
type rowProgress struct {
	bar   *progressbar.ProgressBar
	count int64
	start time.Time
}

func newRowProgress(table string, total int64, enabled bool) *rowProgress {
	p := &rowProgress{start: time.Now()}
	if !enabled {
		return p
	}
	p.bar = progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("  "+table),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionClearOnFinish(),
	)
	return p
}

// Add records n copied rows.
func (p *rowProgress) Add(n int) {
	if p == nil {
		return
	}
	p.count += int64(n)
	if p.bar != nil {
		p.bar.Add(n)
	}
}

// Count returns the number of rows recorded so far.
func (p *rowProgress) Count() int64 {
	if p == nil {
		return 0
	}
	return p.count
}

// Finish closes the bar and returns the elapsed time since creation.
func (p *rowProgress) Finish() time.Duration {
	if p == nil {
		return 0
	}
	if p.bar != nil {
		p.bar.Finish()
	}
	return time.Since(p.start)
}
