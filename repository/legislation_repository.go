package repository

import (
	"context"
	"errors"
	"fmt"

	"vozdalei-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LegislationRepository handles database operations for legislative documents
type LegislationRepository struct {
	db *pgxpool.Pool
}

// NewLegislationRepository creates a new legislation repository
func NewLegislationRepository(db *pgxpool.Pool) *LegislationRepository {
	return &LegislationRepository{db: db}
}

// Upsert inserts a document or refreshes an existing one matched by its
// identity (source, type, number, year)
func (r *LegislationRepository) Upsert(ctx context.Context, doc *models.LegislativeDocument) error {
	query := `
		INSERT INTO legislations (
			external_id, source, type, number, year, title, summary,
			full_text, simplified_text, status, author, presentation_date,
			url, urn, category, tags, raw_data
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (source, type, number, year) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			full_text = EXCLUDED.full_text,
			status = EXCLUDED.status,
			author = EXCLUDED.author,
			presentation_date = EXCLUDED.presentation_date,
			url = EXCLUDED.url,
			urn = EXCLUDED.urn,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.ExternalID,
		doc.Source,
		doc.Type,
		doc.Number,
		doc.Year,
		doc.Title,
		doc.Summary,
		doc.FullText,
		doc.SimplifiedText,
		doc.Status,
		doc.Author,
		doc.PresentationDate,
		doc.URL,
		doc.URN,
		doc.Category,
		doc.Tags,
		doc.RawData,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	return err
}

const legislationColumns = `id, external_id, source, type, number, year, title, summary,
	full_text, simplified_text, status, author, presentation_date,
	url, urn, category, tags, raw_data, created_at, updated_at`

// GetByID retrieves a document by its internal ID. Returns nil when the
// document does not exist.
func (r *LegislationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LegislativeDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM legislations WHERE id = $1`, legislationColumns)

	doc, err := scanLegislation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Search finds stored documents whose title or summary matches the terms
func (r *LegislationRepository) Search(ctx context.Context, terms string, limit int) ([]*models.LegislativeDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT %s FROM legislations
		WHERE title ILIKE '%%' || $1 || '%%' OR summary ILIKE '%%' || $1 || '%%'
		ORDER BY year DESC, updated_at DESC
		LIMIT $2`, legislationColumns)

	rows, err := r.db.Query(ctx, query, terms, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLegislations(rows)
}

// ListByCategory lists stored documents in one category, newest first
func (r *LegislationRepository) ListByCategory(ctx context.Context, category string, limit int) ([]*models.LegislativeDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT %s FROM legislations
		WHERE category = $1
		ORDER BY year DESC, updated_at DESC
		LIMIT $2`, legislationColumns)

	rows, err := r.db.Query(ctx, query, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLegislations(rows)
}

// UpdateSimplifiedText stores the cached simplified rendition
func (r *LegislationRepository) UpdateSimplifiedText(ctx context.Context, id uuid.UUID, simplified string) error {
	query := `
		UPDATE legislations SET
			simplified_text = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, simplified)
	return err
}

func scanLegislation(row pgx.Row) (*models.LegislativeDocument, error) {
	doc := &models.LegislativeDocument{}
	err := row.Scan(
		&doc.ID,
		&doc.ExternalID,
		&doc.Source,
		&doc.Type,
		&doc.Number,
		&doc.Year,
		&doc.Title,
		&doc.Summary,
		&doc.FullText,
		&doc.SimplifiedText,
		&doc.Status,
		&doc.Author,
		&doc.PresentationDate,
		&doc.URL,
		&doc.URN,
		&doc.Category,
		&doc.Tags,
		&doc.RawData,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func scanLegislations(rows pgx.Rows) ([]*models.LegislativeDocument, error) {
	var docs []*models.LegislativeDocument
	for rows.Next() {
		doc, err := scanLegislation(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
