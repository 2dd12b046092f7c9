package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdocs/superdocs/internal/types"
)

func file(path, name string) types.FileNode {
	return types.FileNode{Path: path, Name: name, Type: types.NodeFile}
}

func dir(path, name string, children ...types.FileNode) types.FileNode {
	return types.FileNode{Path: path, Name: name, Type: types.NodeDirectory, Children: children}
}

func TestScoreFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		score    int
		included bool
	}{
		{"api bonus", "api.ts", 10, true},
		{"route bonus", "routes.js", 10, true},
		{"page bonus", "page.tsx", 8, true},
		{"model bonus", "model.go", 7, true},
		{"utils bonus", "helpers-utils.py", 5, true},
		{"index bonus", "index.ts", 5, true},
		{"component uppercase", "Button.tsx", 3, true},
		{"uppercase plus page", "ProfilePage.tsx", 11, true},
		{"no bonus", "misc.c", 0, true},
		{"markdown excluded", "README.md", 0, false},
		{"lockfile excluded", "pnpm-lock.yaml", 0, false},
		{"no extension excluded", "Makefile", 0, false},
		{"json excluded", "package.json", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := ScoreFile(tt.filename)
			assert.Equal(t, tt.included, ok)
			if tt.included {
				assert.Equal(t, tt.score, score)
			}
		})
	}
}

func TestScoreFile_OneBonusPerGroup(t *testing.T) {
	// "api" and "route" are the same signal group and must not stack
	score, ok := ScoreFile("api-routes.ts")
	require.True(t, ok)
	assert.Equal(t, 10, score)
}

func TestRank_OrdersByScore(t *testing.T) {
	tree := []types.FileNode{
		dir("src", "src",
			file("src/helpers.ts", "helpers.ts"),
			file("src/api.ts", "api.ts"),
			file("src/page.tsx", "page.tsx"),
		),
		file("README.md", "README.md"),
	}

	ranked := Rank(tree, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, "src/api.ts", ranked[0].Path)
	assert.Equal(t, "src/page.tsx", ranked[1].Path)
	assert.Equal(t, "src/helpers.ts", ranked[2].Path)
}

func TestRank_RespectsLimit(t *testing.T) {
	tree := []types.FileNode{
		file("a.ts", "a.ts"),
		file("b.ts", "b.ts"),
		file("c.ts", "c.ts"),
	}

	ranked := Rank(tree, 2)
	assert.Len(t, ranked, 2)
}

func TestRank_ZeroLimitUsesDefault(t *testing.T) {
	var tree []types.FileNode
	for i := 0; i < DefaultLimit+5; i++ {
		name := "file" + string(rune('a'+i)) + ".ts"
		tree = append(tree, file(name, name))
	}

	ranked := Rank(tree, 0)
	assert.Len(t, ranked, DefaultLimit)
}

func TestRank_SkipsIgnoredDirs(t *testing.T) {
	tree := []types.FileNode{
		dir("node_modules", "node_modules",
			file("node_modules/api.ts", "api.ts"),
		),
		dir("dist", "dist",
			file("dist/main.js", "main.js"),
		),
		file("main.go", "main.go"),
	}

	ranked := Rank(tree, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, "main.go", ranked[0].Path)
}

func TestRank_StableForTies(t *testing.T) {
	tree := []types.FileNode{
		file("first.ts", "first.ts"),
		file("second.ts", "second.ts"),
	}

	ranked := Rank(tree, 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first.ts", ranked[0].Path)
	assert.Equal(t, "second.ts", ranked[1].Path)
}
