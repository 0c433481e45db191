package postgres

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Questions live in a jsonb column: a quiz is always read and written
// whole, and the answer key never needs relational queries.
type QuizPostgres struct {
	db *pgxpool.Pool
}

func NewQuizPostgres(db *pgxpool.Pool) *QuizPostgres {
	return &QuizPostgres{db: db}
}

func (r *QuizPostgres) CreateQuiz(ctx context.Context, quiz *models.Quiz) (uuid.UUID, error) {
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	now := time.Now().UTC()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		INSERT INTO quizzes (id, course_id, title, description, passing_score, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id uuid.UUID
	err = r.db.QueryRow(ctx, query,
		quiz.ID, quiz.CourseID, quiz.Title, quiz.Description,
		quiz.PassingScore, questions, quiz.CreatedAt, quiz.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert quiz: %w", err)
	}
	return id, nil
}

func (r *QuizPostgres) QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	const query = `
		SELECT id, course_id, title, description, passing_score, questions, created_at, updated_at
		FROM quizzes
		WHERE id = $1
	`
	return r.scanQuiz(r.db.QueryRow(ctx, query, id))
}

func (r *QuizPostgres) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	const query = `
		UPDATE quizzes
		   SET title         = $2,
		       description   = $3,
		       passing_score = $4,
		       questions     = $5,
		       updated_at    = NOW()
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, quiz.ID, quiz.Title, quiz.Description, quiz.PassingScore, questions)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrQuizNotFound
	}
	return nil
}

func (r *QuizPostgres) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrQuizNotFound
	}
	return nil
}

func (r *QuizPostgres) QuizzesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Quiz, error) {
	const query = `
		SELECT id, course_id, title, description, passing_score, questions, created_at, updated_at
		FROM quizzes
		WHERE course_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		q, err := r.scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

func (r *QuizPostgres) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes WHERE course_id = $1`, courseID).Scan(&count)
	return count, err
}

func (r *QuizPostgres) scanQuiz(row pgx.Row) (*models.Quiz, error) {
	q := &models.Quiz{}
	var questions []byte
	err := row.Scan(
		&q.ID, &q.CourseID, &q.Title, &q.Description,
		&q.PassingScore, &questions, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuizNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("invalid questions payload for quiz %s: %w", q.ID, err)
	}
	return q, nil
}

func (r *QuizPostgres) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	query := `
		INSERT INTO quiz_attempts (id, quiz_id, user_id, score, passed, total_time_seconds, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		attempt.ID, attempt.QuizID, attempt.UserID,
		attempt.Score, attempt.Passed, attempt.TotalTimeSeconds, attempt.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz attempt: %w", err)
	}
	return nil
}

func (r *QuizPostgres) LastAttempt(ctx context.Context, quizID, userID uuid.UUID) (*models.QuizAttempt, error) {
	const query = `
		SELECT id, quiz_id, user_id, score, passed, total_time_seconds, submitted_at
		FROM quiz_attempts
		WHERE quiz_id = $1 AND user_id = $2
		ORDER BY submitted_at DESC
		LIMIT 1
	`
	a := &models.QuizAttempt{}
	err := r.db.QueryRow(ctx, query, quizID, userID).Scan(
		&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.Passed, &a.TotalTimeSeconds, &a.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuizNotStarted
		}
		return nil, err
	}
	return a, nil
}
