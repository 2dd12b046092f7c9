package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/superdocs/superdocs/internal/connector"
	"github.com/superdocs/superdocs/internal/pipeline"
	"github.com/superdocs/superdocs/internal/types"
)

// PlanRequest starts a plan run against a GitHub repository.
type PlanRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
	RepoURL string `json:"repo_url" validate:"required"`
	// RepoName overrides the name parsed from the URL. Used when the same
	// repository is ingested under several display names.
	RepoName string `json:"repo_name,omitempty"`
	Intent   string `json:"intent,omitempty" validate:"omitempty,oneof=new open"`
	Token    string `json:"token,omitempty"`
}

// ContentRequest regenerates a single documentation page, overwriting
// whatever content it currently holds. This is how a Failed page is retried
// without replanning the whole set.
type ContentRequest struct {
	OwnerID     string `json:"owner_id" validate:"required,uuid"`
	RepoURL     string `json:"repo_url" validate:"required"`
	RepoName    string `json:"repo_name,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Token       string `json:"token,omitempty"`
}

// ChatRequest asks a question about a document's project, grounded in the
// published pages of the same owner/repo pair.
type ChatRequest struct {
	DocumentID string     `json:"document_id" validate:"required,uuid"`
	Query      string     `json:"query" validate:"required"`
	History    []ChatTurn `json:"history,omitempty"`
}

// ChatTurn is one prior message in the conversation transcript.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user model"`
	Content string `json:"content" validate:"required"`
}

// PublishRequest flips a document's publication state.
type PublishRequest struct {
	Published bool   `json:"published"`
	Slug      string `json:"slug,omitempty"`
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// planInputs resolves a plan request into the connector, its config, and the
// project identity.
func (s *Server) planInputs(req PlanRequest) (connector.Connector, connector.Config, pipeline.Identity, error) {
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, connector.Config{}, pipeline.Identity{}, &ErrValidation{Message: "owner_id is not a valid UUID"}
	}

	repoName := req.RepoName
	if repoName == "" {
		_, repo, err := connector.ParseRepoURL(req.RepoURL)
		if err != nil {
			return nil, connector.Config{}, pipeline.Identity{}, &ErrValidation{Message: err.Error()}
		}
		repoName = repo
	}

	token := req.Token
	if token == "" {
		token = s.githubToken
	}

	cfg := connector.Config{
		RepoURL: req.RepoURL,
		Name:    repoName,
		Token:   token,
	}
	id := pipeline.Identity{OwnerID: ownerID, RepoName: repoName}
	return connector.NewGitHubConnector(), cfg, id, nil
}

// handlePlan runs the plan phase and returns the resulting page set. With
// intent "open" (the default) existing pages are served straight from the
// store; intent "new" forces a fresh structural plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	conn, cfg, id, err := s.planInputs(req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	intent := pipeline.Intent(req.Intent)
	if intent == "" {
		intent = pipeline.IntentOpen
	}

	result, err := s.pipeline.Plan(r.Context(), conn, cfg, id, intent)
	if err != nil {
		log.Printf("Plan failed for %s: %v", id.RepoName, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"hydrated": result.Hydrated,
		"metadata": result.Metadata,
		"docs":     result.Units,
	})
}

// handleGenerate runs the full pipeline for a repository and streams per-page
// progress as SSE events. Pages that already hold content are skipped, which
// makes a re-run after a crash resume where it stopped.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	conn, cfg, id, err := s.planInputs(req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	intent := pipeline.Intent(req.Intent)
	if intent == "" {
		intent = pipeline.IntentOpen
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.pipeline.Plan(r.Context(), conn, cfg, id, intent)
	if err != nil {
		log.Printf("Plan failed for %s: %v", id.RepoName, err)
		sse.WriteError(err.Error())
		return
	}
	if err := sse.WriteEvent("plan", result.Units); err != nil {
		return
	}

	units, err := s.pipeline.RunContentPhase(r.Context(), id, result.Units, result.Context, func(event pipeline.ProgressEvent) {
		sse.WriteEvent("progress", event) //nolint:errcheck
	})
	if err != nil {
		log.Printf("Content phase failed for %s: %v", id.RepoName, err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(id.RepoName, units)
}

// handleContent regenerates one page unconditionally and returns the updated
// document. Unlike the batch generate endpoint this never skips a page that
// already holds content.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	conn, cfg, id, err := s.planInputs(PlanRequest{
		OwnerID:  req.OwnerID,
		RepoURL:  req.RepoURL,
		RepoName: req.RepoName,
		Token:    req.Token,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	unit := types.GenerationUnit{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      types.StatusPlanned,
	}
	out, err := s.pipeline.RegeneratePage(r.Context(), conn, cfg, id, unit)
	if err != nil {
		log.Printf("Page regeneration failed for %s/%s: %v", id.RepoName, req.Title, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"doc": out})
}

// handleChat streams a grounded answer about the project a document belongs
// to. The response body is plain text, flushed chunk by chunk.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req ChatRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "document_id is not a valid UUID")
		return
	}

	doc, err := s.db.GetDocument(r.Context(), docID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil {
		notFound := &ErrDocumentNotFound{}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	published, err := s.db.ListPublishedDocuments(r.Context(), doc.OwnerID, doc.RepoName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	history := make([]types.ChatTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, types.ChatTurn{Role: types.ChatRole(turn.Role), Text: turn.Content})
	}

	stream, err := NewTextStreamer(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = s.chat.Answer(r.Context(), history, doc.RepoName, published, req.Query, stream.WriteChunk)
	if err != nil {
		// Headers are already sent; all we can do is log and close.
		log.Printf("Chat stream failed for document %s: %v", docID, err)
	}
}

// handleListDocuments returns all documents for an owner/repo pair. With
// published=true only the published subset is returned.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	ownerID, err := uuid.Parse(r.URL.Query().Get("owner_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "owner_id query parameter is required and must be a UUID")
		return
	}
	repoName := r.URL.Query().Get("repo_name")
	if repoName == "" {
		s.errorResponse(w, http.StatusBadRequest, "repo_name query parameter is required")
		return
	}

	if r.URL.Query().Get("published") == "true" {
		list, err := s.db.ListPublishedDocuments(r.Context(), ownerID, repoName)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"docs": list})
		return
	}

	list, err := s.db.ListDocuments(r.Context(), ownerID, repoName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"docs": list})
}

// handleGetDocument returns a single document by ID.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := s.db.GetDocument(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil {
		notFound := &ErrDocumentNotFound{}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handlePublish flips a document's publication flag and slug.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	doc, err := s.db.GetDocument(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil {
		notFound := &ErrDocumentNotFound{}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	slug := req.Slug
	if req.Published && slug == "" {
		slug = uuid.NewString()
	}
	if err := s.db.SetPublished(r.Context(), id, req.Published, slug); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":        id,
		"published": req.Published,
		"slug":      slug,
	})
}

// handleDeleteDocument removes a document by ID.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	if err := s.db.DeleteDocument(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
