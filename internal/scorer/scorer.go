// Package scorer ranks files in a scanned tree by heuristic documentation
// relevance. The contract is determinism for an identical tree, not accuracy:
// false positives and negatives are acceptable.
package scorer

import (
	"sort"
	"strings"

	"github.com/superdocs/superdocs/internal/types"
)

// DefaultLimit is the number of ranked files returned when no limit is given.
const DefaultLimit = 15

// allowedExtensions is the allow-list of source-code and markup extensions.
// Files outside this list are excluded from the ranking entirely.
var allowedExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".py":   true,
	".go":   true,
	".rs":   true,
	".java": true,
	".cpp":  true,
	".c":    true,
	".html": true,
	".css":  true,
}

// ignoredDirs are generated or vendored directories skipped during traversal.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".git":         true,
	"__pycache__":  true,
}

// nameBonuses are additive filename-substring scores, highest-value signals
// first: routing and API entry points, then pages and views, then data models
// and type definitions, then shared services and utilities, then conventional
// entry files.
var nameBonuses = []struct {
	substrings []string
	bonus      int
}{
	{[]string{"route", "api"}, 10},
	{[]string{"page", "view"}, 8},
	{[]string{"model", "schema", "types"}, 7},
	{[]string{"service", "lib", "utils"}, 5},
	{[]string{"index", "main", "app"}, 5},
}

// Rank traverses a FileNode forest depth-first and returns the top limit
// files by descending score. Ties keep first-seen traversal order. A limit of
// zero or less falls back to DefaultLimit.
func Rank(nodes []types.FileNode, limit int) []types.RankedFile {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var files []types.RankedFile
	var traverse func(ns []types.FileNode)
	traverse = func(ns []types.FileNode) {
		for _, node := range ns {
			if node.Type == types.NodeDirectory {
				if !ignoredDirs[node.Name] {
					traverse(node.Children)
				}
				continue
			}
			score, ok := ScoreFile(node.Name)
			if !ok {
				continue
			}
			files = append(files, types.RankedFile{Path: node.Path, Score: score})
		}
	}
	traverse(nodes)

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Score > files[j].Score
	})

	if len(files) > limit {
		files = files[:limit]
	}
	return files
}

// ScoreFile scores a single filename. The second return value is false when
// the extension is outside the allow-list and the file must be excluded.
func ScoreFile(name string) (int, bool) {
	ext := ""
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		ext = strings.ToLower(name[idx:])
	}
	if !allowedExtensions[ext] {
		return 0, false
	}

	score := 0
	lower := strings.ToLower(name)
	for _, nb := range nameBonuses {
		for _, sub := range nb.substrings {
			if strings.Contains(lower, sub) {
				score += nb.bonus
				break
			}
		}
	}

	// Component naming convention signal.
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		score += 3
	}

	return score, true
}
