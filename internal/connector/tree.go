package connector

import (
	"fmt"
	"strings"

	"github.com/superdocs/superdocs/internal/types"
)

// BuildFileTree reconstructs a FileNode forest from a flat listing. All nodes
// are created before any is attached, so the result does not depend on
// parents appearing before children. An entry whose parent path has no
// corresponding directory node is attached at the root rather than dropped;
// every listed entry stays reachable. Children keep source listing order.
func BuildFileTree(entries []types.TreeEntry) []types.FileNode {
	nodes := make(map[string]*types.FileNode, len(entries))
	order := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		if _, seen := nodes[e.Path]; seen {
			continue
		}
		name := e.Path
		if idx := strings.LastIndex(e.Path, "/"); idx >= 0 {
			name = e.Path[idx+1:]
		}
		nodeType := types.NodeFile
		if e.Type == "tree" {
			nodeType = types.NodeDirectory
		}
		nodes[e.Path] = &types.FileNode{
			Path: e.Path,
			Name: name,
			Type: nodeType,
			Size: e.Size,
		}
		order = append(order, e.Path)
	}

	children := make(map[string][]*types.FileNode)
	var roots []*types.FileNode
	for _, path := range order {
		node := nodes[path]
		idx := strings.LastIndex(path, "/")
		if idx < 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[path[:idx]]
		if ok && parent.Type == types.NodeDirectory {
			children[parent.Path] = append(children[parent.Path], node)
		} else {
			roots = append(roots, node)
		}
	}

	var resolve func(node *types.FileNode) types.FileNode
	resolve = func(node *types.FileNode) types.FileNode {
		out := *node
		for _, child := range children[node.Path] {
			out.Children = append(out.Children, resolve(child))
		}
		return out
	}

	forest := make([]types.FileNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, resolve(root))
	}
	return forest
}

// RenderTreeString renders a flat listing as text for prompting, tagging each
// entry as [DIR] or [FILE].
func RenderTreeString(entries []types.TreeEntry) string {
	var b strings.Builder
	for _, e := range entries {
		tag := "[FILE]"
		if e.Type == "tree" {
			tag = "[DIR]"
		}
		fmt.Fprintf(&b, "%s %s\n", tag, e.Path)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FlattenTree converts a FileNode forest back to a flat listing in
// depth-first traversal order.
func FlattenTree(nodes []types.FileNode) []types.TreeEntry {
	var entries []types.TreeEntry
	var walk func(ns []types.FileNode)
	walk = func(ns []types.FileNode) {
		for _, n := range ns {
			t := "blob"
			if n.Type == types.NodeDirectory {
				t = "tree"
			}
			entries = append(entries, types.TreeEntry{Path: n.Path, Type: t, Size: n.Size})
			if n.Type == types.NodeDirectory {
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return entries
}
