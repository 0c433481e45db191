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

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func (r *CoursePostgres) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	query := `
		INSERT INTO courses (
			id, title, description, category, price, logo_object_key,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9
		)
		RETURNING id
	`
	var returnedID uuid.UUID
	err := r.db.QueryRow(
		ctx,
		query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Price,
		course.LogoObjectKey,
		course.Status,
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert course: %w", err)
	}
	return returnedID, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	const query = `
        SELECT id, title, description, category, price, logo_object_key,
               status, created_at, updated_at
        FROM courses
        WHERE id = $1
    `
	course := &models.Course{}
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Price,
		&course.LogoObjectKey,
		&course.Status,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}

	return course, nil
}

func (r *CoursePostgres) UpdateCourse(ctx context.Context, course *models.Course) error {
	const query = `
        UPDATE courses
           SET title       = $2,
               description = $3,
               category    = $4,
               price       = $5,
               updated_at  = NOW()
         WHERE id = $1
    `
	cmdTag, err := r.db.Exec(ctx, query, course.ID, course.Title, course.Description, course.Category, course.Price)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) ChangeStatus(ctx context.Context, id uuid.UUID, status string) error {
	const query = `
        UPDATE courses
           SET status     = $2,
               updated_at = NOW()
         WHERE id = $1
    `
	cmdTag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) UpdateCourseLogo(ctx context.Context, courseID uuid.UUID, logoObjectKey string) error {
	const query = `
        UPDATE courses
           SET logo_object_key = $2,
               updated_at      = NOW()
         WHERE id = $1
    `
	cmdTag, err := r.db.Exec(ctx, query, courseID, logoObjectKey)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) ListPublicCourses(ctx context.Context, limit int, offset int) ([]models.Course, error) {
	const query = `
        SELECT id, title, description, category, price, logo_object_key,
               status, created_at, updated_at
        FROM courses
        WHERE status = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, models.StatusPublic, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query public courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *CoursePostgres) CountPublicCourses(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE status = $1`, models.StatusPublic).Scan(&count)
	return count, err
}

func (r *CoursePostgres) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	const query = `
        SELECT id, title, description, category, price, logo_object_key,
               status, created_at, updated_at
        FROM courses
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *CoursePostgres) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func scanCourses(rows pgx.Rows) ([]models.Course, error) {
	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Category, &c.Price,
			&c.LogoObjectKey, &c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
