package types

import "github.com/google/uuid"

// UnitStatus tracks a documentation page through the generation state
// machine.
type UnitStatus string

// Generation unit states. A unit starts Planned with empty content, moves to
// Generating while a content call is in flight, and lands on Generated or
// Failed. Failed units keep the surfaced error message as their content and
// are only retried on an explicit regenerate request.
const (
	StatusPlanned    UnitStatus = "planned"
	StatusGenerating UnitStatus = "generating"
	StatusGenerated  UnitStatus = "generated"
	StatusFailed     UnitStatus = "failed"
)

// GenerationUnit is one planned documentation page. Two units are the same
// page iff they share (owner, repo, title); that triple keys every persisted
// write so repeated plan invocations update rather than duplicate.
type GenerationUnit struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Content     string     `json:"content,omitempty"`
	DocumentID  uuid.UUID  `json:"document_id,omitempty"`
	Status      UnitStatus `json:"status"`
	IsPublished bool       `json:"is_published,omitempty"`
}

// ChatRole is the author of a conversation turn.
type ChatRole string

// Chat roles understood by the generation service.
const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatTurn is one entry in an ordered conversation transcript.
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
