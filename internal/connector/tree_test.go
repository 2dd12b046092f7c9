package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdocs/superdocs/internal/types"
)

func TestBuildFileTree_NestsChildren(t *testing.T) {
	entries := []types.TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/index.ts", Type: "blob", Size: 120},
		{Path: "README.md", Type: "blob", Size: 40},
	}

	forest := BuildFileTree(entries)
	require.Len(t, forest, 2)

	src := forest[0]
	assert.Equal(t, "src", src.Path)
	assert.Equal(t, types.NodeDirectory, src.Type)
	require.Len(t, src.Children, 1)
	assert.Equal(t, "src/index.ts", src.Children[0].Path)
	assert.Equal(t, "index.ts", src.Children[0].Name)
	assert.Equal(t, types.NodeFile, src.Children[0].Type)
	assert.Equal(t, int64(120), src.Children[0].Size)

	readme := forest[1]
	assert.Equal(t, "README.md", readme.Path)
	assert.Equal(t, types.NodeFile, readme.Type)
	assert.Empty(t, readme.Children)
}

func TestBuildFileTree_OrderIndependent(t *testing.T) {
	// Child listed before its parent directory
	entries := []types.TreeEntry{
		{Path: "src/index.ts", Type: "blob"},
		{Path: "src", Type: "tree"},
	}

	forest := BuildFileTree(entries)
	require.Len(t, forest, 1)
	assert.Equal(t, "src", forest[0].Path)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "src/index.ts", forest[0].Children[0].Path)
}

func TestBuildFileTree_MissingParentFallsToRoot(t *testing.T) {
	entries := []types.TreeEntry{
		{Path: "orphan/deep/file.ts", Type: "blob"},
	}

	forest := BuildFileTree(entries)
	require.Len(t, forest, 1)
	assert.Equal(t, "orphan/deep/file.ts", forest[0].Path)
	assert.Equal(t, "file.ts", forest[0].Name)
}

func TestBuildFileTree_DuplicatesAndEmptyPaths(t *testing.T) {
	entries := []types.TreeEntry{
		{Path: "", Type: "blob"},
		{Path: "a.ts", Type: "blob"},
		{Path: "a.ts", Type: "blob"},
	}

	forest := BuildFileTree(entries)
	require.Len(t, forest, 1)
	assert.Equal(t, "a.ts", forest[0].Path)
}

func TestBuildFileTree_DeepNesting(t *testing.T) {
	entries := []types.TreeEntry{
		{Path: "a", Type: "tree"},
		{Path: "a/b", Type: "tree"},
		{Path: "a/b/c.go", Type: "blob"},
		{Path: "a/d.go", Type: "blob"},
	}

	forest := BuildFileTree(entries)
	require.Len(t, forest, 1)
	a := forest[0]
	require.Len(t, a.Children, 2)
	assert.Equal(t, "a/b", a.Children[0].Path)
	require.Len(t, a.Children[0].Children, 1)
	assert.Equal(t, "a/b/c.go", a.Children[0].Children[0].Path)
	assert.Equal(t, "a/d.go", a.Children[1].Path)
}

func TestRenderTreeString(t *testing.T) {
	entries := []types.TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/index.ts", Type: "blob"},
	}

	out := RenderTreeString(entries)
	assert.Equal(t, "[DIR] src\n[FILE] src/index.ts", out)
}

func TestRenderTreeString_Empty(t *testing.T) {
	assert.Equal(t, "", RenderTreeString(nil))
}

func TestFlattenTree_RoundTrip(t *testing.T) {
	entries := []types.TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/index.ts", Type: "blob", Size: 10},
		{Path: "README.md", Type: "blob", Size: 5},
	}

	flat := FlattenTree(BuildFileTree(entries))
	assert.Equal(t, entries, flat)
}
