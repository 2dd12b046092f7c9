// Package assembler builds a bounded context string from selected file
// contents for use as model grounding.
package assembler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/superdocs/superdocs/internal/types"
)

// Truncation markers. FileMarker closes an individual file cut at its
// ceiling; TailMarker closes an aggregate cut.
const (
	FileMarker = "\n...[TRUNCATED]"
	TailMarker = "\n...(truncated)..."
)

// Default ceilings, in characters.
const (
	DefaultMaxFileChars   = 5000
	DefaultMaxReadmeChars = 3000
	DefaultMaxTotalChars  = 500000

	// GenerationMaxTotalChars is the tighter aggregate ceiling applied when
	// the assembled context is forwarded as an argument into a generation
	// call rather than reused as chat grounding.
	GenerationMaxTotalChars = 50000
)

// defaultFetchConcurrency bounds parallel content fetches.
const defaultFetchConcurrency = 4

// ContentFetcher is the one connector capability the assembler needs.
type ContentFetcher interface {
	GetFileContent(ctx context.Context, path string) (string, error)
}

// Options configures assembly ceilings. The zero value of any field falls
// back to its default.
type Options struct {
	MaxFileChars     int
	MaxReadmeChars   int
	MaxTotalChars    int
	FetchConcurrency int
}

// DefaultOptions returns the standard chat-context ceilings.
func DefaultOptions() *Options {
	return &Options{
		MaxFileChars:   DefaultMaxFileChars,
		MaxReadmeChars: DefaultMaxReadmeChars,
		MaxTotalChars:  DefaultMaxTotalChars,
	}
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.MaxFileChars <= 0 {
		out.MaxFileChars = DefaultMaxFileChars
	}
	if out.MaxReadmeChars <= 0 {
		out.MaxReadmeChars = DefaultMaxReadmeChars
	}
	if out.MaxTotalChars <= 0 {
		out.MaxTotalChars = DefaultMaxTotalChars
	}
	if out.FetchConcurrency <= 0 {
		out.FetchConcurrency = defaultFetchConcurrency
	}
	return out
}

// Assemble fetches content for each ranked file, truncates per file, and
// concatenates with a delimiter line per source path. A README, when
// fetchable, is prepended under its own smaller ceiling. A file that fails to
// fetch is skipped with a warning; it never aborts assembly of the rest.
// The aggregate string is truncated at the total ceiling, never rejected.
func Assemble(ctx context.Context, fetcher ContentFetcher, ranked []types.RankedFile, opts *Options) string {
	o := opts.withDefaults()

	contents := make([]string, len(ranked))
	failed := make([]bool, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.FetchConcurrency)
	for i, file := range ranked {
		g.Go(func() error {
			content, err := fetcher.GetFileContent(gctx, file.Path)
			if err != nil {
				log.Printf("assembler: skipping %s: %v", file.Path, err)
				failed[i] = true
				return nil
			}
			contents[i] = content
			return nil
		})
	}
	// Fetch errors are swallowed per file, so Wait only reports context
	// cancellation.
	_ = g.Wait()

	var b strings.Builder
	if readme, err := fetcher.GetFileContent(ctx, "README.md"); err == nil {
		fmt.Fprintf(&b, "--- README.md ---\n%s\n", Head(readme, o.MaxReadmeChars))
	}
	// An empty file that fetched fine still gets its delimiter; only failed
	// fetches are dropped.
	for i, file := range ranked {
		if failed[i] {
			continue
		}
		fmt.Fprintf(&b, "\n--- FILE: %s ---\n%s\n", file.Path, Truncate(contents[i], o.MaxFileChars))
	}

	return TruncateTail(b.String(), o.MaxTotalChars)
}

// Truncate cuts s at ceiling characters and appends the file truncation
// marker. Content at or under the ceiling is returned unchanged.
func Truncate(s string, ceiling int) string {
	if len(s) <= ceiling {
		return s
	}
	return s[:ceiling] + FileMarker
}

// Head cuts s at ceiling characters with no marker.
func Head(s string, ceiling int) string {
	if len(s) <= ceiling {
		return s
	}
	return s[:ceiling]
}

// TruncateTail enforces the aggregate ceiling, cutting the tail and closing
// with the aggregate marker.
func TruncateTail(s string, ceiling int) string {
	if len(s) <= ceiling {
		return s
	}
	return s[:ceiling] + TailMarker
}
