package connector

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/superdocs/superdocs/internal/scorer"
	"github.com/superdocs/superdocs/internal/types"
)

// ignoredDirs are generated, vendored, or VCS directories excluded from every
// scan.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	".next":        true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// entryPointCandidates are conventional program entry files probed at the
// project root during Connect.
var entryPointCandidates = []string{"main.go", "index.ts", "index.js", "src/index.ts", "src/index.js", "src/main.ts", "app.py", "main.py"}

// FilesystemConnector scans a local directory tree. The zero value is not
// usable; construct with NewFilesystemConnector and call Connect first.
type FilesystemConnector struct {
	root      string
	connected bool

	// Per-instance scan cache, cleared by Connect.
	cachedEntries []types.TreeEntry
	cachedRanked  map[int][]types.RankedFile
}

// NewFilesystemConnector returns an unconnected filesystem connector.
func NewFilesystemConnector() *FilesystemConnector {
	return &FilesystemConnector{}
}

// Type reports the source kind.
func (c *FilesystemConnector) Type() types.SourceType {
	return types.SourceFilesystem
}

// Connect validates that cfg.Path is an existing directory and infers
// best-effort project metadata from root-level manifest files. A missing
// manifest is not an error; the fields stay unset.
func (c *FilesystemConnector) Connect(ctx context.Context, cfg Config) (*types.ProjectMetadata, error) {
	info, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, &ErrSourceUnreachable{Source: cfg.Path, Cause: err}
	}
	if !info.IsDir() {
		return nil, &ErrSourceUnreachable{Source: cfg.Path}
	}

	c.root = cfg.Path
	c.connected = true
	c.cachedEntries = nil
	c.cachedRanked = nil

	meta := &types.ProjectMetadata{
		ID:        base64.StdEncoding.EncodeToString([]byte(cfg.Path)),
		Name:      cfg.Name,
		CreatedAt: time.Now(),
	}
	if meta.Name == "" {
		meta.Name = filepath.Base(cfg.Path)
	}

	rootFiles, err := os.ReadDir(cfg.Path)
	if err != nil {
		return nil, &ErrSourceUnreachable{Source: cfg.Path, Cause: err}
	}
	var rootNames []string
	for _, f := range rootFiles {
		if !f.IsDir() {
			rootNames = append(rootNames, f.Name())
		}
	}

	meta.Framework = "unknown"
	for _, candidate := range manifestCandidates {
		content, err := os.ReadFile(filepath.Join(cfg.Path, candidate))
		if err != nil {
			continue
		}
		meta.Framework = DetectFramework(candidate, content)
		break
	}
	meta.PackageManager = DetectPackageManager(rootNames)

	for _, name := range rootNames {
		if strings.HasPrefix(name, ".env") {
			meta.EnvFiles = append(meta.EnvFiles, name)
		}
	}
	for _, candidate := range entryPointCandidates {
		if _, err := os.Stat(filepath.Join(cfg.Path, candidate)); err == nil {
			meta.EntryPoints = append(meta.EntryPoints, candidate)
		}
	}

	if readme, err := os.ReadFile(filepath.Join(cfg.Path, "README.md")); err == nil {
		meta.Readme = string(readme)
	}

	return meta, nil
}

// Scan recursively enumerates the directory tree, excluding the deny-list of
// generated directories. Paths are relative to the connected root and use
// forward slashes. File content is never read.
func (c *FilesystemConnector) Scan(ctx context.Context) ([]types.FileNode, error) {
	if !c.connected {
		return nil, &ErrNotConnected{}
	}
	nodes, err := c.scanDir(ctx, "")
	if err != nil {
		return nil, err
	}
	c.cachedEntries = FlattenTree(nodes)
	return nodes, nil
}

func (c *FilesystemConnector) scanDir(ctx context.Context, rel string) ([]types.FileNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(c.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	// ReadDir sorts by name; keep that as the listing order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var nodes []types.FileNode
	for _, entry := range entries {
		name := entry.Name()
		path := name
		if rel != "" {
			path = rel + "/" + name
		}

		if entry.IsDir() {
			if ignoredDirs[name] {
				continue
			}
			children, err := c.scanDir(ctx, path)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, types.FileNode{
				Path:     path,
				Name:     name,
				Type:     types.NodeDirectory,
				Children: children,
			})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		nodes = append(nodes, types.FileNode{
			Path:         path,
			Name:         name,
			Type:         types.NodeFile,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return nodes, nil
}

// GetFileContent reads a file relative to the connected root.
func (c *FilesystemConnector) GetFileContent(ctx context.Context, path string) (string, error) {
	if !c.connected {
		return "", &ErrNotConnected{}
	}
	full := filepath.Join(c.root, filepath.FromSlash(path))
	info, err := os.Stat(full)
	if err != nil {
		return "", &ErrNotFound{Path: path}
	}
	if info.IsDir() {
		return "", &ErrNotAFile{Path: path}
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return "", &ErrNotFound{Path: path}
	}
	return string(content), nil
}

// TreeString renders the scanned tree as text for prompting, scanning first
// if no cached listing exists.
func (c *FilesystemConnector) TreeString(ctx context.Context) (string, error) {
	if !c.connected {
		return "", &ErrNotConnected{}
	}
	if c.cachedEntries == nil {
		if _, err := c.Scan(ctx); err != nil {
			return "", err
		}
	}
	return RenderTreeString(c.cachedEntries), nil
}

// MostImportantFiles ranks the scanned tree, caching per limit so repeated
// pipeline calls do not re-scan.
func (c *FilesystemConnector) MostImportantFiles(ctx context.Context, limit int) ([]types.RankedFile, error) {
	if !c.connected {
		return nil, &ErrNotConnected{}
	}
	if ranked, ok := c.cachedRanked[limit]; ok {
		return ranked, nil
	}
	nodes, err := c.Scan(ctx)
	if err != nil {
		return nil, err
	}
	ranked := scorer.Rank(nodes, limit)
	if c.cachedRanked == nil {
		c.cachedRanked = make(map[int][]types.RankedFile)
	}
	c.cachedRanked[limit] = ranked
	return ranked, nil
}
