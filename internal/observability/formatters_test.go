package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superdocs/superdocs/internal/types"
)

func TestPrintProjectMetadata(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	meta := &types.ProjectMetadata{
		Name:           "acme-app",
		Framework:      "Next.js",
		PackageManager: "pnpm",
		EntryPoints:    []string{"src/index.ts"},
		EnvFiles:       []string{".env", ".env.local"},
	}

	p.PrintProjectMetadata(meta)
	output := buf.String()

	assert.Contains(t, output, "Project")
	assert.Contains(t, output, "acme-app")
	assert.Contains(t, output, "Next.js")
	assert.Contains(t, output, "pnpm")
	assert.Contains(t, output, "src/index.ts")
}

func TestPrintProjectMetadata_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProjectMetadata(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRankedFiles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := []types.RankedFile{
		{Path: "src/api.ts", Score: 12},
		{Path: "src/page.tsx", Score: 8},
	}

	p.PrintRankedFiles(ranked)
	output := buf.String()

	assert.Contains(t, output, "Important Files")
	assert.Contains(t, output, "src/api.ts")
	assert.Contains(t, output, "12")
}

func TestPrintRankedFiles_Overflow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := make([]types.RankedFile, 8)
	for i := range ranked {
		ranked[i] = types.RankedFile{Path: "file.go", Score: 8 - i}
	}

	p.PrintRankedFiles(ranked)
	output := buf.String()

	assert.Contains(t, output, "and 3 more")
}

func TestPrintRankedFiles_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRankedFiles(nil)

	assert.Empty(t, buf.String())
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	units := []types.GenerationUnit{
		{Title: "Overview", Category: "Getting Started"},
		{Title: "Installation", Category: "Getting Started"},
		{Title: "REST Endpoints", Category: "API Reference"},
	}

	p.PrintPlan(units)
	output := buf.String()

	assert.Contains(t, output, "Plan (3 pages)")
	assert.Contains(t, output, "Getting Started:")
	assert.Contains(t, output, "Overview")
	assert.Contains(t, output, "API Reference:")
}

func TestPrintPlan_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPlan(nil)

	assert.Empty(t, buf.String())
}

func TestPrintUnitStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUnitStatus("Overview", types.StatusGenerated)

	assert.Contains(t, buf.String(), "Overview")
	assert.Contains(t, buf.String(), string(types.StatusGenerated))
}
