package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/superdocs/superdocs/internal/assembler"
	"github.com/superdocs/superdocs/internal/llm"
	"github.com/superdocs/superdocs/internal/prompts"
	"github.com/superdocs/superdocs/internal/store"
	"github.com/superdocs/superdocs/internal/types"
)

// Service streams grounded answers over a project's published pages.
type Service struct {
	llm llm.Client
}

// New creates a chat service.
func New(client llm.Client) *Service {
	return &Service{llm: client}
}

// BuildContext concatenates published documents into the grounding string,
// one delimited section per page, truncated at the aggregate chat ceiling
// rather than rejected.
func BuildContext(repoName string, docs []store.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DOCUMENTATION FOR: %s\n\n", repoName)
	for _, doc := range docs {
		fmt.Fprintf(&b, "--- SECTION: %s (%s) ---\n%s\n\n", doc.Title, doc.Category, doc.Content)
	}
	return assembler.TruncateTail(b.String(), assembler.DefaultMaxTotalChars)
}

// Answer sanitizes the transcript, grounds the model in the published pages,
// and streams the response chunk by chunk to onChunk. The caller may stop
// consumption by returning an error from onChunk; output already flushed is
// not rolled back.
func (s *Service) Answer(ctx context.Context, history []types.ChatTurn, repoName string, published []store.Document, query string, onChunk llm.ChunkFunc) error {
	system := prompts.Format(prompts.MustGet("docs.json", "chat_system"), map[string]string{
		"Context": BuildContext(repoName, published),
	})
	return s.llm.StreamChat(ctx, SanitizeHistory(history), system, query, onChunk)
}
