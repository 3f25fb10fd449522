package repository

import (
	"context"
	"errors"

	"vozdalei-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteRepository handles database operations for bookmarked legislation
type FavoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create bookmarks a document for a user. Bookmarking the same document
// twice keeps the first bookmark.
func (r *FavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	query := `
		INSERT INTO favorites (user_id, legislation_id, notes)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, legislation_id) DO UPDATE SET notes = EXCLUDED.notes
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query, fav.UserID, fav.LegislationID, fav.Notes).
		Scan(&fav.ID, &fav.CreatedAt)
}

// ListByUser lists a user's bookmarks with the bookmarked documents
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Favorite, error) {
	query := `
		SELECT f.id, f.user_id, f.legislation_id, f.notes, f.created_at,
			l.id, l.external_id, l.source, l.type, l.number, l.year, l.title, l.summary,
			l.full_text, l.simplified_text, l.status, l.author, l.presentation_date,
			l.url, l.urn, l.category, l.tags, l.raw_data, l.created_at, l.updated_at
		FROM favorites f
		JOIN legislations l ON l.id = f.legislation_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		fav := &models.Favorite{}
		doc := &models.LegislativeDocument{}
		err := rows.Scan(
			&fav.ID,
			&fav.UserID,
			&fav.LegislationID,
			&fav.Notes,
			&fav.CreatedAt,
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
		fav.Legislation = doc
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// Get retrieves one bookmark by ID. Returns nil when it does not exist.
func (r *FavoriteRepository) Get(ctx context.Context, id uuid.UUID) (*models.Favorite, error) {
	query := `
		SELECT id, user_id, legislation_id, notes, created_at
		FROM favorites
		WHERE id = $1`

	fav := &models.Favorite{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fav.ID,
		&fav.UserID,
		&fav.LegislationID,
		&fav.Notes,
		&fav.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return fav, nil
}

// Delete removes a bookmark. Reports whether a row was deleted.
func (r *FavoriteRepository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
