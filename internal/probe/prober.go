package probe

import (
	"context"

	"github.com/backmassage/djvu2cbz/internal/logging"
)

// Source identifies the strategy that produced a page count.
type Source int

const (
	SourceScript Source = iota
	SourceListing
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceScript:
		return "script"
	case SourceListing:
		return "listing"
	case SourceDefault:
		return "default"
	}
	return "unknown"
}

// PageCount is a positive page count and where it came from.
type PageCount struct {
	Pages  int
	Source Source
}

// Measured reports whether the count came from the document rather than
// the fallback default.
func (c PageCount) Measured() bool { return c.Source != SourceDefault }

// ScriptCounter asks a script evaluator for the page count.
type ScriptCounter interface {
	QueryPageCount(ctx context.Context, doc string) (int, error)
}

// PageLister counts the page lines of a document listing.
type PageLister interface {
	ListPages(ctx context.Context, doc string) (int, error)
}

// Counter applies the counting strategies in order.
type Counter struct {
	Script       ScriptCounter
	Lister       PageLister
	DefaultPages int
	Log          *logging.Logger // Optional.
}

// CountPages returns the document's page count. It never fails; tool
// errors are logged at debug level and the next strategy is tried.
func (c *Counter) CountPages(ctx context.Context, doc string) PageCount {
	if c.Script != nil {
		n, err := c.Script.QueryPageCount(ctx, doc)
		switch {
		case err != nil:
			c.debug("page count script failed: %v", err)
		case n > 0:
			return PageCount{Pages: n, Source: SourceScript}
		default:
			c.debug("page count script reported %d pages", n)
		}
	}

	if c.Lister != nil {
		n, err := c.Lister.ListPages(ctx, doc)
		switch {
		case err != nil:
			c.debug("page listing failed: %v", err)
		case n > 0:
			return PageCount{Pages: n, Source: SourceListing}
		default:
			c.debug("page listing had no page lines")
		}
	}

	pages := c.DefaultPages
	if pages < 1 {
		pages = 1
	}
	if c.Log != nil {
		c.Log.Warn("Could not determine page count, attempting %d pages", pages)
	}
	return PageCount{Pages: pages, Source: SourceDefault}
}

func (c *Counter) debug(format string, args ...any) {
	if c.Log != nil {
		c.Log.Debug(format, args...)
	}
}
