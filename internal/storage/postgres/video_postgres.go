package postgres

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VideoPostgres struct {
	db *pgxpool.Pool
}

func NewVideoPostgres(db *pgxpool.Pool) *VideoPostgres {
	return &VideoPostgres{db: db}
}

func (r *VideoPostgres) CreateVideo(ctx context.Context, video *models.Video) (uuid.UUID, error) {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now
	query := `
		INSERT INTO videos (id, course_id, title, description, object_key, duration_seconds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		video.ID, video.CourseID, video.Title, video.Description,
		video.ObjectKey, video.DurationSeconds, video.CreatedAt, video.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert video: %w", err)
	}
	return id, nil
}

func (r *VideoPostgres) VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	const query = `
		SELECT id, course_id, title, description, object_key, duration_seconds, created_at, updated_at
		FROM videos
		WHERE id = $1
	`
	v := &models.Video{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.CourseID, &v.Title, &v.Description,
		&v.ObjectKey, &v.DurationSeconds, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrVideoNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *VideoPostgres) UpdateVideo(ctx context.Context, video *models.Video) error {
	const query = `
		UPDATE videos
		   SET title            = $2,
		       description      = $3,
		       object_key       = $4,
		       duration_seconds = $5,
		       updated_at       = NOW()
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, video.ID, video.Title, video.Description, video.ObjectKey, video.DurationSeconds)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrVideoNotFound
	}
	return nil
}

func (r *VideoPostgres) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrVideoNotFound
	}
	return nil
}

func (r *VideoPostgres) VideosByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Video, error) {
	const query = `
		SELECT id, course_id, title, description, object_key, duration_seconds, created_at, updated_at
		FROM videos
		WHERE course_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(
			&v.ID, &v.CourseID, &v.Title, &v.Description,
			&v.ObjectKey, &v.DurationSeconds, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoPostgres) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE course_id = $1`, courseID).Scan(&count)
	return count, err
}
