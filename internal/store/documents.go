package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, owner_id, repo_name, title, category, description, content, is_published, public_slug, created_at, updated_at`

// UpsertDocument writes a document keyed by (owner_id, repo_name, title).
// An existing row keeps its identity and publication state; only the mutable
// fields (category, description, content) are updated. Returns the stored
// row including its assigned ID.
func (db *DB) UpsertDocument(ctx context.Context, doc Document) (Document, error) {
	var out Document
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (owner_id, repo_name, title, category, description, content)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (owner_id, repo_name, title)
		 DO UPDATE SET category = $4, description = $5, content = $6, updated_at = NOW()
		 RETURNING `+documentColumns,
		doc.OwnerID, doc.RepoName, doc.Title, doc.Category, doc.Description, doc.Content,
	).Scan(&out.ID, &out.OwnerID, &out.RepoName, &out.Title, &out.Category, &out.Description,
		&out.Content, &out.IsPublished, &out.PublicSlug, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("failed to upsert document %q: %w", doc.Title, err)
	}
	return out, nil
}

// UpsertPlanned writes a freshly planned page. A new row starts as an empty
// draft; an existing row only has its category and description overwritten,
// deliberately leaving already generated content and publication state
// intact. Returns the stored row including its assigned ID.
func (db *DB) UpsertPlanned(ctx context.Context, doc Document) (Document, error) {
	var out Document
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (owner_id, repo_name, title, category, description, content)
		 VALUES ($1, $2, $3, $4, $5, '')
		 ON CONFLICT (owner_id, repo_name, title)
		 DO UPDATE SET category = $4, description = $5, updated_at = NOW()
		 RETURNING `+documentColumns,
		doc.OwnerID, doc.RepoName, doc.Title, doc.Category, doc.Description,
	).Scan(&out.ID, &out.OwnerID, &out.RepoName, &out.Title, &out.Category, &out.Description,
		&out.Content, &out.IsPublished, &out.PublicSlug, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("failed to upsert planned document %q: %w", doc.Title, err)
	}
	return out, nil
}

// FindDocument retrieves a document by its idempotency key. Returns nil
// without error when no row matches.
func (db *DB) FindDocument(ctx context.Context, ownerID uuid.UUID, repoName, title string) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE owner_id = $1 AND repo_name = $2 AND title = $3`,
		ownerID, repoName, title,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document %q: %w", title, err)
	}
	return &doc, nil
}

// ListDocuments returns all documents for an owner/repo pair in creation
// order.
func (db *DB) ListDocuments(ctx context.Context, ownerID uuid.UUID, repoName string) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE owner_id = $1 AND repo_name = $2
		 ORDER BY created_at ASC`,
		ownerID, repoName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListPublishedDocuments returns the published documents for an owner/repo
// pair in creation order. This is the context scope for grounded chat.
func (db *DB) ListPublishedDocuments(ctx context.Context, ownerID uuid.UUID, repoName string) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE owner_id = $1 AND repo_name = $2 AND is_published
		 ORDER BY created_at ASC`,
		ownerID, repoName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list published documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// GetDocument retrieves a document by ID. Returns nil without error when no
// row matches.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return &doc, nil
}

// SetPublished flips the publication flag and slug for a document.
func (db *DB) SetPublished(ctx context.Context, id uuid.UUID, published bool, slug string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE documents SET is_published = $1, public_slug = $2, updated_at = NOW() WHERE id = $3`,
		published, slug, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update publication state for %s: %w", id, err)
	}
	return nil
}

// DeleteDocument removes a document by ID.
func (db *DB) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.OwnerID, &d.RepoName, &d.Title, &d.Category, &d.Description,
		&d.Content, &d.IsPublished, &d.PublicSlug, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
