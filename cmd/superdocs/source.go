package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/superdocs/superdocs/internal/config"
	"github.com/superdocs/superdocs/internal/connector"
	"github.com/superdocs/superdocs/internal/pipeline"
)

// loadConfig layers the optional JSON config file over environment defaults.
func loadConfig(path string) (config.Config, error) {
	defaults := config.FromEnv()
	if path == "" {
		return defaults, nil
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}
	return fileCfg.MergeWithDefaults(defaults), nil
}

// resolveSource turns the positional source argument into a connector and
// its config. A source that exists on disk is treated as a local project
// directory; anything else is treated as a GitHub URL or owner/repo
// shorthand.
func resolveSource(source, name, token string) (connector.Connector, connector.Config, string, error) {
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, connector.Config{}, "", fmt.Errorf("failed to resolve path %s: %w", source, err)
		}
		if name == "" {
			name = filepath.Base(abs)
		}
		return connector.NewFilesystemConnector(), connector.Config{Path: abs, Name: name}, name, nil
	}

	_, repo, err := connector.ParseRepoURL(source)
	if err != nil {
		return nil, connector.Config{}, "", fmt.Errorf("source %q is neither a directory nor a GitHub repository: %w", source, err)
	}
	if name == "" {
		name = repo
	}
	return connector.NewGitHubConnector(), connector.Config{RepoURL: source, Name: name, Token: token}, name, nil
}

// resolveIdentity parses the owner flag. An empty owner is only valid in
// stateless mode, where the identity never reaches a database.
func resolveIdentity(ownerID, repoName string, hasStore bool) (pipeline.Identity, error) {
	if ownerID == "" {
		if hasStore {
			return pipeline.Identity{}, fmt.Errorf("--owner-id is required when a database is configured")
		}
		return pipeline.Identity{RepoName: repoName}, nil
	}
	uid, err := uuid.Parse(ownerID)
	if err != nil {
		return pipeline.Identity{}, fmt.Errorf("invalid owner-id: %w", err)
	}
	return pipeline.Identity{OwnerID: uid, RepoName: repoName}, nil
}

// slugify converts a page title into a safe Markdown filename.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "page"
	}
	return slug
}
