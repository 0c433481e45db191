package postgres

import (
	"CliniGoal/internal/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Completions are an append-only set keyed (user_id, item_id); marking
// the same item twice is a no-op.
type ProgressPostgres struct {
	db *pgxpool.Pool
}

func NewProgressPostgres(db *pgxpool.Pool) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

func (r *ProgressPostgres) MarkCompleted(ctx context.Context, userID, courseID, itemID uuid.UUID, itemType string) error {
	query := `
		INSERT INTO completions (user_id, course_id, item_id, item_type, completed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, item_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, courseID, itemID, itemType)
	if err != nil {
		return fmt.Errorf("failed to mark completion: %w", err)
	}
	return nil
}

func (r *ProgressPostgres) CompletedCounts(ctx context.Context, userID, courseID uuid.UUID) (videos, notes, quizzes int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE item_type = $3),
			COUNT(*) FILTER (WHERE item_type = $4),
			COUNT(*) FILTER (WHERE item_type = $5)
		FROM completions
		WHERE user_id = $1 AND course_id = $2
	`
	err = r.db.QueryRow(ctx, query, userID, courseID, models.ItemVideo, models.ItemNote, models.ItemQuiz).Scan(&videos, &notes, &quizzes)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return videos, notes, quizzes, nil
}

func (r *ProgressPostgres) CompletedItems(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT item_id
		FROM completions
		WHERE user_id = $1 AND course_id = $2
		ORDER BY completed_at
	`
	rows, err := r.db.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
