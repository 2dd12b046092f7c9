// Package types holds the shared domain types passed between the connector,
// scoring, assembly, and generation layers.
package types

import "time"

// SourceType identifies the kind of backing source for a connector.
type SourceType string

// Supported source types
const (
	SourceFilesystem SourceType = "filesystem"
	SourceGitHub     SourceType = "github"
)

// ProjectMetadata describes a connected project. It is produced once by a
// successful Connect call and does not change for the lifetime of the
// connector instance.
type ProjectMetadata struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Framework      string    `json:"framework,omitempty"`
	PackageManager string    `json:"package_manager,omitempty"`
	EntryPoints    []string  `json:"entry_points"`
	EnvFiles       []string  `json:"env_files"`
	Readme         string    `json:"readme,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NodeType distinguishes files from directories in a FileNode tree.
type NodeType string

// FileNode entry types
const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
)

// FileNode is one filesystem entry in a source-agnostic tree. Path is the
// canonical source-relative identifier, unique within a tree; it is the join
// key between scanning, scoring, and content fetching. Content is populated
// lazily, never during a scan. A directory's Children hold the entries one
// path segment deeper, in source listing order.
type FileNode struct {
	Path         string     `json:"path"`
	Name         string     `json:"name"`
	Type         NodeType   `json:"type"`
	Size         int64      `json:"size,omitempty"`
	LastModified time.Time  `json:"last_modified,omitempty"`
	Children     []FileNode `json:"children,omitempty"`
	Content      string     `json:"content,omitempty"`
}

// RankedFile pairs a file path with its importance score.
type RankedFile struct {
	Path  string `json:"path"`
	Score int    `json:"score"`
}

// TreeEntry is one row of a flat recursive listing as returned by a Git
// hosting API: "blob" entries are files, "tree" entries are directories.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size,omitempty"`
}
