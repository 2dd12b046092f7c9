// Package pipeline orchestrates the two-phase documentation generation
// workflow: a structural plan call followed by strictly sequential per-page
// content calls, idempotently synchronized with the document store.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/superdocs/superdocs/internal/assembler"
	"github.com/superdocs/superdocs/internal/connector"
	"github.com/superdocs/superdocs/internal/llm"
	"github.com/superdocs/superdocs/internal/planner"
	"github.com/superdocs/superdocs/internal/prompts"
	"github.com/superdocs/superdocs/internal/store"
	"github.com/superdocs/superdocs/internal/types"
)

// Intent selects how a plan invocation treats previously persisted pages.
type Intent string

// Plan intents. IntentOpen hydrates existing pages from the store whenever
// any exist, skipping generation calls entirely except to backfill context
// for still-empty drafts. IntentRegenerate forces a fresh structural plan;
// known pages are matched by their idempotency key and updated in place, and
// pages whose stored content is an error block are queued again as drafts.
const (
	IntentOpen       Intent = "open"
	IntentRegenerate Intent = "new"
)

// Identity names the project a plan run belongs to: the owning user and the
// canonical repository name. Together with a page title it forms the
// persistence key.
type Identity struct {
	OwnerID  uuid.UUID
	RepoName string
}

// DocumentStore is the narrow persistence contract the pipeline needs.
type DocumentStore interface {
	UpsertPlanned(ctx context.Context, doc store.Document) (store.Document, error)
	UpsertDocument(ctx context.Context, doc store.Document) (store.Document, error)
	ListDocuments(ctx context.Context, ownerID uuid.UUID, repoName string) ([]store.Document, error)
}

// Options configures a pipeline service.
type Options struct {
	// RankLimit bounds how many files feed the deep context. Zero means the
	// scorer default.
	RankLimit int
}

// Service drives plan and content generation for one project at a time. A
// nil store is allowed: persistence is skipped and every run is stateless
// (the CLI mode without a database).
type Service struct {
	store     DocumentStore
	llm       llm.Client
	rankLimit int
}

// New creates a pipeline service.
func New(st DocumentStore, client llm.Client, opts Options) *Service {
	return &Service{
		store:     st,
		llm:       client,
		rankLimit: opts.RankLimit,
	}
}

// PlanResult is the outcome of a plan invocation: the ordered units, the
// assembled deep context (empty when hydration needed none), and the project
// metadata (nil when the source was never contacted).
type PlanResult struct {
	Units    []types.GenerationUnit
	Context  string
	Metadata *types.ProjectMetadata
	Hydrated bool
}

// Plan produces the ordered set of documentation pages for a project. Under
// IntentOpen it short-circuits to the persisted pages when any exist,
// re-assembling deep context only if empty drafts remain. Otherwise it
// connects, scans, assembles context, requests a structural plan, and
// persists every unit as an upsert. A failed plan call aborts with no
// partial persistence.
func (s *Service) Plan(ctx context.Context, conn connector.Connector, cfg connector.Config, id Identity, intent Intent) (*PlanResult, error) {
	if intent != IntentRegenerate && s.store != nil {
		saved, err := s.store.ListDocuments(ctx, id.OwnerID, id.RepoName)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing documents: %w", err)
		}
		if len(saved) > 0 {
			return s.hydrate(ctx, conn, cfg, saved)
		}
	}

	metadata, err := conn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	treeString, err := conn.TreeString(ctx)
	if err != nil {
		return nil, err
	}
	deepContext, err := s.assembleContext(ctx, conn)
	if err != nil {
		return nil, err
	}

	manifest := ""
	if content, err := conn.GetFileContent(ctx, "package.json"); err == nil {
		manifest = content
	}

	prompt := prompts.Format(prompts.MustGet("docs.json", "plan"), map[string]string{
		"RepoName":    metadata.Name,
		"FileTree":    assembler.Head(treeString, 10000),
		"Manifest":    assembler.Head(manifest, 5000),
		"DeepContext": assembler.Head(deepContext, 40000),
	})

	raw, err := s.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}
	units, err := planner.ParsePlan(raw)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		for i, unit := range units {
			doc, err := s.store.UpsertPlanned(ctx, store.Document{
				OwnerID:     id.OwnerID,
				RepoName:    id.RepoName,
				Title:       unit.Title,
				Category:    unit.Category,
				Description: unit.Description,
			})
			if err != nil {
				return nil, err
			}
			units[i].DocumentID = doc.ID
			units[i].IsPublished = doc.IsPublished
			// A preserved error block does not count as content; the page
			// stays a draft so the content phase picks it up again.
			if statusForContent(doc.Content) == types.StatusGenerated {
				units[i].Content = doc.Content
				units[i].Status = types.StatusGenerated
			}
		}
	}

	return &PlanResult{
		Units:    units,
		Context:  deepContext,
		Metadata: metadata,
	}, nil
}

// hydrate rebuilds units straight from persisted rows. Deep context is only
// re-assembled when empty drafts remain; a fully generated set never touches
// the source at all.
func (s *Service) hydrate(ctx context.Context, conn connector.Connector, cfg connector.Config, saved []store.Document) (*PlanResult, error) {
	units := make([]types.GenerationUnit, 0, len(saved))
	hasDrafts := false
	for _, doc := range saved {
		unit := unitFromDocument(doc)
		if unit.Status == types.StatusPlanned {
			hasDrafts = true
		}
		units = append(units, unit)
	}

	result := &PlanResult{Units: units, Hydrated: true}
	if !hasDrafts {
		return result, nil
	}

	metadata, err := conn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deepContext, err := s.assembleContext(ctx, conn)
	if err != nil {
		return nil, err
	}
	result.Metadata = metadata
	result.Context = deepContext
	return result, nil
}

// assembleContext ranks the scanned tree and assembles the bounded deep
// context forwarded into generation calls.
func (s *Service) assembleContext(ctx context.Context, conn connector.Connector) (string, error) {
	ranked, err := conn.MostImportantFiles(ctx, s.rankLimit)
	if err != nil {
		return "", err
	}
	opts := assembler.DefaultOptions()
	opts.MaxTotalChars = assembler.GenerationMaxTotalChars
	return assembler.Assemble(ctx, conn, ranked, opts), nil
}

// RegeneratePage generates content for a single page unconditionally,
// overwriting whatever the page already holds, including a persisted error
// block. The page does not need to exist yet: an unknown title is generated
// and persisted as a new document under the same idempotency key. This is
// the recovery path for Failed pages.
func (s *Service) RegeneratePage(ctx context.Context, conn connector.Connector, cfg connector.Config, id Identity, unit types.GenerationUnit) (types.GenerationUnit, error) {
	if s.store != nil {
		saved, err := s.store.ListDocuments(ctx, id.OwnerID, id.RepoName)
		if err != nil {
			return unit, fmt.Errorf("failed to load existing documents: %w", err)
		}
		for _, doc := range saved {
			if doc.Title != unit.Title {
				continue
			}
			unit.DocumentID = doc.ID
			unit.IsPublished = doc.IsPublished
			if unit.Category == "" {
				unit.Category = doc.Category
			}
			if unit.Description == "" {
				unit.Description = doc.Description
			}
			break
		}
	}

	if _, err := conn.Connect(ctx, cfg); err != nil {
		return unit, err
	}
	deepContext, err := s.assembleContext(ctx, conn)
	if err != nil {
		return unit, err
	}

	unit.Content = ""
	unit.Status = types.StatusPlanned
	return s.GeneratePage(ctx, id, unit, deepContext)
}

// unitFromDocument maps a persisted row back to its in-flight representation.
func unitFromDocument(doc store.Document) types.GenerationUnit {
	return types.GenerationUnit{
		ID:          doc.ID.String(),
		Title:       doc.Title,
		Category:    doc.Category,
		Description: doc.Description,
		Content:     doc.Content,
		DocumentID:  doc.ID,
		Status:      statusForContent(doc.Content),
		IsPublished: doc.IsPublished,
	}
}

// statusForContent classifies persisted content: empty means the page is
// still a draft, an error block means the last generation failed, anything
// else is generated documentation.
func statusForContent(content string) types.UnitStatus {
	switch {
	case content == "":
		return types.StatusPlanned
	case strings.HasPrefix(content, failedContentPrefix):
		return types.StatusFailed
	default:
		return types.StatusGenerated
	}
}
