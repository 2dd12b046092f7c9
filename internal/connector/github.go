package connector

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/superdocs/superdocs/internal/scorer"
	"github.com/superdocs/superdocs/internal/types"
)

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// GitHubConnector reads a hosted repository through the GitHub REST API. It
// lists the entire tree in one recursive call instead of recursing per
// directory, and fetches blob content on demand. An optional bearer token
// grants access to private repositories; without one, only public sources
// are reachable.
type GitHubConnector struct {
	client    *github.Client
	owner     string
	repo      string
	branch    string
	connected bool

	// Per-instance scan cache, cleared by Connect.
	cachedEntries []types.TreeEntry
	cachedRanked  map[int][]types.RankedFile
}

// NewGitHubConnector returns an unconnected GitHub connector.
func NewGitHubConnector() *GitHubConnector {
	return &GitHubConnector{}
}

// NewGitHubConnectorWithClient returns a connector backed by a caller-built
// API client. Used by tests to point at a stub server.
func NewGitHubConnectorWithClient(client *github.Client) *GitHubConnector {
	return &GitHubConnector{client: client}
}

// Type reports the source kind.
func (c *GitHubConnector) Type() types.SourceType {
	return types.SourceGitHub
}

// ParseRepoURL resolves a human-supplied repository reference to an
// owner/name pair. Accepts full https URLs and the "owner/repo" shorthand; a
// trailing ".git" is stripped.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	if m := repoURLPattern.FindStringSubmatch(repoURL); m != nil {
		return m[1], strings.TrimSuffix(m[2], ".git"), nil
	}
	parts := strings.Split(strings.Trim(repoURL, "/"), "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" && !strings.Contains(repoURL, ":") {
		return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
	}
	return "", "", fmt.Errorf("invalid GitHub repository URL: %s", repoURL)
}

// Connect resolves the repository identity and default branch, verifying
// access. Framework detection is best-effort from the root package.json.
func (c *GitHubConnector) Connect(ctx context.Context, cfg Config) (*types.ProjectMetadata, error) {
	owner, repo, err := ParseRepoURL(cfg.RepoURL)
	if err != nil {
		return nil, &ErrSourceUnreachable{Source: cfg.RepoURL, Cause: err}
	}

	if c.client == nil {
		c.client = github.NewClient(nil)
	}
	if cfg.Token != "" {
		c.client = c.client.WithAuthToken(cfg.Token)
	}

	repoData, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, &ErrSourceUnreachable{Source: cfg.RepoURL, Cause: err}
	}

	c.owner = owner
	c.repo = repo
	c.branch = repoData.GetDefaultBranch()
	if c.branch == "" {
		c.branch = "main"
	}
	c.connected = true
	c.cachedEntries = nil
	c.cachedRanked = nil

	meta := &types.ProjectMetadata{
		ID:        owner + "/" + repo,
		Name:      repo,
		Framework: "unknown",
		CreatedAt: time.Now(),
	}

	// Manifest probing is best effort; a repository without one is fine.
	for _, candidate := range manifestCandidates {
		content, err := c.GetFileContent(ctx, candidate)
		if err != nil {
			continue
		}
		meta.Framework = DetectFramework(candidate, []byte(content))
		break
	}

	return meta, nil
}

// Scan lists the whole tree with a single recursive call and reconstructs
// the hierarchy. The flat listing is cached on the connector instance.
func (c *GitHubConnector) Scan(ctx context.Context) ([]types.FileNode, error) {
	if !c.connected {
		return nil, &ErrNotConnected{}
	}

	ref, _, err := c.client.Git.GetRef(ctx, c.owner, c.repo, "heads/"+c.branch)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", c.branch, err)
	}

	tree, _, err := c.client.Git.GetTree(ctx, c.owner, c.repo, ref.GetObject().GetSHA(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree: %w", err)
	}

	entries := make([]types.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, types.TreeEntry{
			Path: e.GetPath(),
			Type: e.GetType(),
			Size: int64(e.GetSize()),
		})
	}
	c.cachedEntries = entries

	return BuildFileTree(entries), nil
}

// GetFileContent fetches one blob through the contents API, decoding the
// transport base64 transparently.
func (c *GitHubConnector) GetFileContent(ctx context.Context, path string) (string, error) {
	if !c.connected {
		return "", &ErrNotConnected{}
	}

	file, dir, resp, err := c.client.Repositories.GetContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return "", &ErrNotFound{Path: path}
		}
		return "", fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if dir != nil || file == nil {
		return "", &ErrNotAFile{Path: path}
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return content, nil
}

// TreeString renders the cached flat listing as text for prompting, scanning
// first if needed.
func (c *GitHubConnector) TreeString(ctx context.Context) (string, error) {
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
// pipeline calls do not replay the tree listing.
func (c *GitHubConnector) MostImportantFiles(ctx context.Context, limit int) ([]types.RankedFile, error) {
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
