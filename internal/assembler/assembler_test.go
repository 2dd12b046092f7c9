package assembler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdocs/superdocs/internal/types"
)

// fakeFetcher serves content from a map. Missing paths return an error.
type fakeFetcher struct {
	files map[string]string
}

func (f *fakeFetcher) GetFileContent(_ context.Context, path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return content, nil
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 12000)
	out := Truncate(long, DefaultMaxFileChars)

	assert.Len(t, out, DefaultMaxFileChars+len(FileMarker))
	assert.True(t, strings.HasSuffix(out, FileMarker))

	short := "short content"
	assert.Equal(t, short, Truncate(short, DefaultMaxFileChars))

	exact := strings.Repeat("y", DefaultMaxFileChars)
	assert.Equal(t, exact, Truncate(exact, DefaultMaxFileChars))
}

func TestHead(t *testing.T) {
	assert.Equal(t, "abc", Head("abcdef", 3))
	assert.Equal(t, "abc", Head("abc", 10))
	assert.NotContains(t, Head(strings.Repeat("z", 100), 10), FileMarker)
}

func TestTruncateTail(t *testing.T) {
	long := strings.Repeat("x", 600)
	out := TruncateTail(long, 500)

	assert.Len(t, out, 500+len(TailMarker))
	assert.True(t, strings.HasSuffix(out, TailMarker))

	assert.Equal(t, "keep", TruncateTail("keep", 500))
}

func TestAssemble_DelimitsAndOrders(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{
		"README.md":    "# Demo",
		"src/api.ts":   "api content",
		"src/index.ts": "index content",
	}}
	ranked := []types.RankedFile{
		{Path: "src/api.ts", Score: 10},
		{Path: "src/index.ts", Score: 5},
	}

	out := Assemble(context.Background(), fetcher, ranked, DefaultOptions())

	assert.Contains(t, out, "--- README.md ---\n# Demo")
	assert.Contains(t, out, "--- FILE: src/api.ts ---\napi content")
	assert.Contains(t, out, "--- FILE: src/index.ts ---\nindex content")

	// README first, then files in rank order
	readmeIdx := strings.Index(out, "README.md")
	apiIdx := strings.Index(out, "src/api.ts")
	indexIdx := strings.Index(out, "src/index.ts")
	assert.Less(t, readmeIdx, apiIdx)
	assert.Less(t, apiIdx, indexIdx)
}

func TestAssemble_TruncatesPerFile(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{
		"big.ts": strings.Repeat("a", 12000),
	}}
	ranked := []types.RankedFile{{Path: "big.ts", Score: 1}}

	out := Assemble(context.Background(), fetcher, ranked, DefaultOptions())

	assert.Contains(t, out, FileMarker)
	// 12000 chars cut to the per-file ceiling
	assert.Contains(t, out, strings.Repeat("a", DefaultMaxFileChars)+FileMarker)
	assert.NotContains(t, out, strings.Repeat("a", DefaultMaxFileChars+1))
}

func TestAssemble_TruncatesReadmeWithoutMarker(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{
		"README.md": strings.Repeat("r", 4000),
	}}

	out := Assemble(context.Background(), fetcher, nil, DefaultOptions())

	assert.Contains(t, out, strings.Repeat("r", DefaultMaxReadmeChars))
	assert.NotContains(t, out, strings.Repeat("r", DefaultMaxReadmeChars+1))
	assert.NotContains(t, out, FileMarker)
}

func TestAssemble_SkipsFailedFetches(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{
		"good.ts": "good content",
	}}
	ranked := []types.RankedFile{
		{Path: "missing.ts", Score: 10},
		{Path: "good.ts", Score: 5},
	}

	out := Assemble(context.Background(), fetcher, ranked, DefaultOptions())

	assert.Contains(t, out, "good content")
	assert.NotContains(t, out, "missing.ts")
}

func TestAssemble_EmptyFileKeepsDelimiter(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{
		"empty.ts": "",
		"good.ts":  "good content",
	}}
	ranked := []types.RankedFile{
		{Path: "empty.ts", Score: 10},
		{Path: "good.ts", Score: 5},
		{Path: "missing.ts", Score: 1},
	}

	out := Assemble(context.Background(), fetcher, ranked, DefaultOptions())

	assert.Contains(t, out, "--- FILE: empty.ts ---")
	assert.Contains(t, out, "--- FILE: good.ts ---\ngood content")
	assert.NotContains(t, out, "missing.ts")
}

func TestAssemble_AggregateCeiling(t *testing.T) {
	files := map[string]string{}
	var ranked []types.RankedFile
	for i := 0; i < 30; i++ {
		path := fmt.Sprintf("file%02d.ts", i)
		files[path] = strings.Repeat("b", 4000)
		ranked = append(ranked, types.RankedFile{Path: path, Score: 30 - i})
	}
	fetcher := &fakeFetcher{files: files}

	opts := DefaultOptions()
	opts.MaxTotalChars = GenerationMaxTotalChars
	out := Assemble(context.Background(), fetcher, ranked, opts)

	assert.Len(t, out, GenerationMaxTotalChars+len(TailMarker))
	assert.True(t, strings.HasSuffix(out, TailMarker))
}

func TestAssemble_NilOptionsUseDefaults(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{"a.ts": "content"}}
	ranked := []types.RankedFile{{Path: "a.ts", Score: 1}}

	out := Assemble(context.Background(), fetcher, ranked, nil)
	assert.Contains(t, out, "content")
}

func TestAssemble_EmptyInput(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{}}

	out := Assemble(context.Background(), fetcher, nil, DefaultOptions())
	require.Equal(t, "", out)
}
