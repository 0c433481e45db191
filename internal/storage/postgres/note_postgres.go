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

type NotePostgres struct {
	db *pgxpool.Pool
}

func NewNotePostgres(db *pgxpool.Pool) *NotePostgres {
	return &NotePostgres{db: db}
}

func (r *NotePostgres) CreateNote(ctx context.Context, note *models.Note) (uuid.UUID, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	query := `
		INSERT INTO notes (id, course_id, title, body, object_key, pages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		note.ID, note.CourseID, note.Title, note.Body,
		note.ObjectKey, note.Pages, note.CreatedAt, note.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert note: %w", err)
	}
	return id, nil
}

func (r *NotePostgres) NoteByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	const query = `
		SELECT id, course_id, title, body, object_key, pages, created_at, updated_at
		FROM notes
		WHERE id = $1
	`
	n := &models.Note{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.CourseID, &n.Title, &n.Body,
		&n.ObjectKey, &n.Pages, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrNoteNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *NotePostgres) UpdateNote(ctx context.Context, note *models.Note) error {
	const query = `
		UPDATE notes
		   SET title      = $2,
		       body       = $3,
		       object_key = $4,
		       pages      = $5,
		       updated_at = NOW()
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, note.ID, note.Title, note.Body, note.ObjectKey, note.Pages)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNoteNotFound
	}
	return nil
}

func (r *NotePostgres) DeleteNote(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNoteNotFound
	}
	return nil
}

func (r *NotePostgres) NotesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Note, error) {
	const query = `
		SELECT id, course_id, title, body, object_key, pages, created_at, updated_at
		FROM notes
		WHERE course_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(
			&n.ID, &n.CourseID, &n.Title, &n.Body,
			&n.ObjectKey, &n.Pages, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NotePostgres) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notes WHERE course_id = $1`, courseID).Scan(&count)
	return count, err
}
