package repository

import (
	"context"

	"vozdalei-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryRepository handles database operations for query records
type QueryRepository struct {
	db *pgxpool.Pool
}

// NewQueryRepository creates a new query repository
func NewQueryRepository(db *pgxpool.Pool) *QueryRepository {
	return &QueryRepository{db: db}
}

// Create records one user interaction
func (r *QueryRepository) Create(ctx context.Context, query *models.Query) error {
	sql := `
		INSERT INTO queries (
			user_id, query_text, query_type, response, simplified_response, audio_url
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, sql,
		query.UserID,
		query.QueryText,
		query.QueryType,
		query.Response,
		query.SimplifiedResponse,
		query.AudioURL,
	).Scan(&query.ID, &query.CreatedAt)

	return err
}

// ListByUser lists a user's query history, newest first
func (r *QueryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Query, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `
		SELECT id, user_id, query_text, query_type, response, simplified_response, audio_url, created_at
		FROM queries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []*models.Query
	for rows.Next() {
		q := &models.Query{}
		err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.QueryText,
			&q.QueryType,
			&q.Response,
			&q.SimplifiedResponse,
			&q.AudioURL,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// ListRecent lists the most recent queries across all users
func (r *QueryRepository) ListRecent(ctx context.Context, limit int) ([]*models.Query, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `
		SELECT id, user_id, query_text, query_type, response, simplified_response, audio_url, created_at
		FROM queries
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []*models.Query
	for rows.Next() {
		q := &models.Query{}
		err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.QueryText,
			&q.QueryType,
			&q.Response,
			&q.SimplifiedResponse,
			&q.AudioURL,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
