package store

import (
	"time"

	"github.com/google/uuid"
)

// Document is one persisted documentation page. The (OwnerID, RepoName,
// Title) triple identifies a unique page across repeated plan invocations.
type Document struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	RepoName    string    `json:"repo_name"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	IsPublished bool      `json:"is_published"`
	PublicSlug  string    `json:"public_slug,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
