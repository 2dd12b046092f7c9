package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/superdocs/superdocs/internal/assembler"
	"github.com/superdocs/superdocs/internal/llm"
	"github.com/superdocs/superdocs/internal/prompts"
	"github.com/superdocs/superdocs/internal/store"
	"github.com/superdocs/superdocs/internal/types"
)

// failedContentPrefix opens the visible error block a Failed page carries as
// its content. Re-reading a persisted page, it is the one signal that the
// stored content is an error block rather than generated documentation.
const failedContentPrefix = "> **Error**:"

// ProgressEvent reports one content-phase step to the caller.
type ProgressEvent struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ProgressCallback is called as units move through the content phase.
type ProgressCallback func(event ProgressEvent)

// NextPlanned returns the index of the first unit still awaiting content, in
// plan list order. Units already generating, generated, or failed are never
// re-selected implicitly.
func NextPlanned(units []types.GenerationUnit) (int, bool) {
	for i, u := range units {
		if u.Status == types.StatusPlanned {
			return i, true
		}
	}
	return -1, false
}

// GeneratePage generates content for a single unit and persists it. A
// generation-service failure does not return an error: the unit comes back
// Failed with the error message embedded as visible content, recoverable
// only through an explicit regenerate. Persistence failures do propagate.
func (s *Service) GeneratePage(ctx context.Context, id Identity, unit types.GenerationUnit, deepContext string) (types.GenerationUnit, error) {
	unit.Status = types.StatusGenerating

	prompt := prompts.Format(prompts.MustGet("docs.json", "page_content"), map[string]string{
		"PageTitle":   unit.Title,
		"RepoName":    id.RepoName,
		"Description": unit.Description,
		"DeepContext": assembler.Head(deepContext, 40000),
	})

	markdown, err := s.llm.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		var genErr *llm.GenerationError
		if !errors.As(err, &genErr) {
			return unit, err
		}
		unit.Status = types.StatusFailed
		unit.Content = fmt.Sprintf("%s Failed to generate content for this section.\n> \n> *%v*", failedContentPrefix, genErr.Cause)
	} else {
		unit.Status = types.StatusGenerated
		unit.Content = markdown
	}

	if s.store != nil {
		doc, err := s.store.UpsertDocument(ctx, store.Document{
			OwnerID:     id.OwnerID,
			RepoName:    id.RepoName,
			Title:       unit.Title,
			Category:    unit.Category,
			Description: unit.Description,
			Content:     unit.Content,
		})
		if err != nil {
			return unit, err
		}
		unit.DocumentID = doc.ID
	}

	return unit, nil
}

// RunContentPhase drains the queue of Planned units one at a time, in plan
// list order. Generation is deliberately sequential within a project to stay
// under external rate limits and keep per-unit failures attributable; a
// Failed unit does not stop the remaining ones. Returns the updated units.
func (s *Service) RunContentPhase(ctx context.Context, id Identity, units []types.GenerationUnit, deepContext string, onProgress ProgressCallback) ([]types.GenerationUnit, error) {
	out := make([]types.GenerationUnit, len(units))
	copy(out, units)

	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		idx, ok := NextPlanned(out)
		if !ok {
			return out, nil
		}

		emit(onProgress, ProgressEvent{Title: out[idx].Title, Status: string(types.StatusGenerating)})
		unit, err := s.GeneratePage(ctx, id, out[idx], deepContext)
		if err != nil {
			return out, err
		}
		out[idx] = unit
		emit(onProgress, ProgressEvent{
			Title:   unit.Title,
			Status:  string(unit.Status),
			Message: progressMessage(unit),
		})
	}
}

func emit(cb ProgressCallback, event ProgressEvent) {
	if cb != nil {
		cb(event)
	}
}

func progressMessage(unit types.GenerationUnit) string {
	if unit.Status == types.StatusFailed {
		return "content generation failed; regenerate to retry"
	}
	return ""
}
