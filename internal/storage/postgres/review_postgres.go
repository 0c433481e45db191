package postgres

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewPostgres struct {
	db *pgxpool.Pool
}

func NewReviewPostgres(db *pgxpool.Pool) *ReviewPostgres {
	return &ReviewPostgres{db: db}
}

func (r *ReviewPostgres) AddReview(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO reviews (id, course_id, user_id, user_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		review.ID, review.CourseID, review.UserID, review.UserName,
		review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return app_errors.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *ReviewPostgres) ReviewsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error) {
	query := `
		SELECT id, course_id, user_id, user_name, rating, comment, created_at
		FROM reviews
		WHERE course_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *ReviewPostgres) ListReviews(ctx context.Context) ([]models.Review, error) {
	query := `
		SELECT id, course_id, user_id, user_name, rating, comment, created_at
		FROM reviews
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *ReviewPostgres) DeleteReview(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrReviewNotFound
	}
	return nil
}

func scanReviews(rows pgx.Rows) ([]models.Review, error) {
	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.CourseID, &rv.UserID, &rv.UserName,
			&rv.Rating, &rv.Comment, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
