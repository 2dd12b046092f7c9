package connector

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		owner     string
		repo      string
		expectErr bool
	}{
		{"https URL", "https://github.com/acme/widget", "acme", "widget", false},
		{"trailing .git", "https://github.com/acme/widget.git", "acme", "widget", false},
		{"trailing slash", "https://github.com/acme/widget/", "acme", "widget", false},
		{"shorthand", "acme/widget", "acme", "widget", false},
		{"shorthand with .git", "acme/widget.git", "acme", "widget", false},
		{"not a repo", "https://example.com/acme/widget", "", "", true},
		{"bare name", "widget", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

// newStubConnector spins up a fake GitHub API and returns a connector wired
// against it.
func newStubConnector(t *testing.T) *GitHubConnector {
	t.Helper()

	manifest := `{"dependencies": {"react": "18.0.0"}}`
	readme := "# Widget\n\nDemo project."

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "widget", "default_branch": "main"}`)
	})
	mux.HandleFunc("GET /repos/acme/widget/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ref": "refs/heads/main", "object": {"sha": "abc123", "type": "commit"}}`)
	})
	mux.HandleFunc("GET /repos/acme/widget/git/trees/abc123", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "abc123", "tree": [
			{"path": "src", "type": "tree"},
			{"path": "src/index.ts", "type": "blob", "size": 120},
			{"path": "README.md", "type": "blob", "size": 40}
		]}`)
	})
	mux.HandleFunc("GET /repos/acme/widget/contents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("path") {
		case "package.json":
			writeBlob(w, "package.json", manifest)
		case "README.md":
			writeBlob(w, "README.md", readme)
		case "src":
			fmt.Fprint(w, `[{"type": "file", "name": "index.ts", "path": "src/index.ts"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewGitHubConnectorWithClient(client)
}

func writeBlob(w http.ResponseWriter, name, content string) {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "name": %q, "path": %q, "content": %q}`,
		name, name, encoded)
}

func TestGitHubConnector_Connect(t *testing.T) {
	c := newStubConnector(t)

	meta, err := c.Connect(context.Background(), Config{RepoURL: "https://github.com/acme/widget"})
	require.NoError(t, err)

	assert.Equal(t, "widget", meta.Name)
	assert.Equal(t, "acme/widget", meta.ID)
	assert.Equal(t, "React", meta.Framework)
}

func TestGitHubConnector_Connect_BadURL(t *testing.T) {
	c := newStubConnector(t)

	_, err := c.Connect(context.Background(), Config{RepoURL: "not-a-repo"})
	require.Error(t, err)

	var unreachable *ErrSourceUnreachable
	assert.True(t, errors.As(err, &unreachable))
}

func TestGitHubConnector_Scan(t *testing.T) {
	c := newStubConnector(t)
	_, err := c.Connect(context.Background(), Config{RepoURL: "acme/widget"})
	require.NoError(t, err)

	nodes, err := c.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "src", nodes[0].Path)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "src/index.ts", nodes[0].Children[0].Path)
	assert.Equal(t, "README.md", nodes[1].Path)
}

func TestGitHubConnector_GetFileContent(t *testing.T) {
	c := newStubConnector(t)
	_, err := c.Connect(context.Background(), Config{RepoURL: "acme/widget"})
	require.NoError(t, err)

	content, err := c.GetFileContent(context.Background(), "README.md")
	require.NoError(t, err)
	assert.Contains(t, content, "# Widget")
}

func TestGitHubConnector_GetFileContent_NotFound(t *testing.T) {
	c := newStubConnector(t)
	_, err := c.Connect(context.Background(), Config{RepoURL: "acme/widget"})
	require.NoError(t, err)

	_, err = c.GetFileContent(context.Background(), "missing.ts")
	require.Error(t, err)

	var notFound *ErrNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestGitHubConnector_GetFileContent_Directory(t *testing.T) {
	c := newStubConnector(t)
	_, err := c.Connect(context.Background(), Config{RepoURL: "acme/widget"})
	require.NoError(t, err)

	_, err = c.GetFileContent(context.Background(), "src")
	require.Error(t, err)

	var notAFile *ErrNotAFile
	assert.True(t, errors.As(err, &notAFile))
}

func TestGitHubConnector_TreeString(t *testing.T) {
	c := newStubConnector(t)
	_, err := c.Connect(context.Background(), Config{RepoURL: "acme/widget"})
	require.NoError(t, err)

	tree, err := c.TreeString(context.Background())
	require.NoError(t, err)
	assert.Contains(t, tree, "[DIR] src")
	assert.Contains(t, tree, "[FILE] src/index.ts")
	assert.Contains(t, tree, "[FILE] README.md")
}

func TestGitHubConnector_MostImportantFiles(t *testing.T) {
	c := newStubConnector(t)
	_, err := c.Connect(context.Background(), Config{RepoURL: "acme/widget"})
	require.NoError(t, err)

	ranked, err := c.MostImportantFiles(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "src/index.ts", ranked[0].Path)
}

func TestGitHubConnector_NotConnected(t *testing.T) {
	c := NewGitHubConnector()

	var notConnected *ErrNotConnected

	_, err := c.Scan(context.Background())
	assert.True(t, errors.As(err, &notConnected))

	_, err = c.GetFileContent(context.Background(), "README.md")
	assert.True(t, errors.As(err, &notConnected))

	_, err = c.TreeString(context.Background())
	assert.True(t, errors.As(err, &notConnected))
}
