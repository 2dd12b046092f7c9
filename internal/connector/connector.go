// Package connector normalizes heterogeneous project sources (local
// directories, hosted Git repositories) to a single scan/fetch contract.
package connector

import (
	"context"
	"fmt"

	"github.com/superdocs/superdocs/internal/types"
)

// Config carries the source-specific parameters for Connect. Path is used by
// the filesystem connector; RepoURL and Token by the GitHub connector.
type Config struct {
	Path    string
	Name    string
	RepoURL string
	Token   string
}

// Connector is the capability contract every source adapter implements.
// Connect must be called before Scan or GetFileContent. Scan never reads file
// content eagerly, and repeated scans of an unchanged source return an
// equivalent tree. TreeString and MostImportantFiles are convenience
// operations for the generation pipeline; both serve from a per-instance scan
// cache that Connect invalidates.
type Connector interface {
	Type() types.SourceType
	Connect(ctx context.Context, cfg Config) (*types.ProjectMetadata, error)
	Scan(ctx context.Context) ([]types.FileNode, error)
	GetFileContent(ctx context.Context, path string) (string, error)
	TreeString(ctx context.Context) (string, error)
	MostImportantFiles(ctx context.Context, limit int) ([]types.RankedFile, error)
}

// ErrSourceUnreachable indicates the connector could not establish the source
// identity: the root path or repository does not exist, is not a directory,
// or access was denied. Fatal to the whole operation.
type ErrSourceUnreachable struct {
	Source string
	Cause  error
}

func (e *ErrSourceUnreachable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source unreachable: %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("source unreachable: %s", e.Source)
}

func (e *ErrSourceUnreachable) Unwrap() error {
	return e.Cause
}

// ErrNotFound indicates a single-file fetch missed. Recoverable: the
// assembler skips the file and continues.
type ErrNotFound struct {
	Path string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ErrNotAFile indicates a content fetch resolved to a directory.
type ErrNotAFile struct {
	Path string
}

func (e *ErrNotAFile) Error() string {
	return fmt.Sprintf("path is a directory, not a file: %s", e.Path)
}

// ErrNotConnected indicates Scan or GetFileContent was called before Connect.
type ErrNotConnected struct{}

func (e *ErrNotConnected) Error() string {
	return "connector not initialized: call Connect first"
}
