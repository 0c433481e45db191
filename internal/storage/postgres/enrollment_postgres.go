package postgres

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// A partial unique index on (user_id, course_id) WHERE status <> 'rejected'
// backs the one-live-enrollment-per-course invariant.
type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

const enrollmentColumns = `
	id, user_id, user_email, user_name, course_id, course_title,
	status, payment_status, amount, transaction_id, payment_method,
	decision_reason, enrollment_date, updated_at, version
`

func (r *EnrollmentPostgres) CreateEnrollment(ctx context.Context, rec *models.EnrollmentRecord) error {
	query := `
		INSERT INTO enrollments (
			id, user_id, user_email, user_name, course_id, course_title,
			status, payment_status, amount, transaction_id, payment_method,
			enrollment_date, updated_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14
		)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.UserID, rec.UserEmail, rec.UserName, rec.CourseID, rec.CourseTitle,
		rec.Status, rec.PaymentStatus, rec.Amount, rec.TransactionID, rec.PaymentMethod,
		rec.EnrollmentDate, rec.UpdatedAt, rec.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return app_errors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentPostgres) EnrollmentByID(ctx context.Context, id uuid.UUID) (*models.EnrollmentRecord, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	rec, err := scanEnrollment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return rec, nil
}

// UpdateDecision transitions a pending record carrying the version the
// caller read. Zero rows affected means the record is gone, already
// decided, or was modified concurrently; callers disambiguate by re-reading.
func (r *EnrollmentPostgres) UpdateDecision(ctx context.Context, rec *models.EnrollmentRecord) (bool, error) {
	query := `
		UPDATE enrollments
		   SET status          = $2,
		       payment_status  = $3,
		       decision_reason = $4,
		       updated_at      = $5,
		       version         = version + 1
		 WHERE id = $1
		   AND version = $6
		   AND status = $7
	`
	cmdTag, err := r.db.Exec(ctx, query,
		rec.ID, rec.Status, rec.PaymentStatus, rec.DecisionReason, rec.UpdatedAt,
		rec.Version, models.EnrollmentPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update enrollment decision: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return false, nil
	}
	rec.Version++
	return true, nil
}

// StatusOf prefers the live (non-rejected) record; a lone rejected record
// still reports as rejected.
func (r *EnrollmentPostgres) StatusOf(ctx context.Context, userID, courseID uuid.UUID) (string, error) {
	query := `
		SELECT status
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
		ORDER BY (status <> $3) DESC, updated_at DESC
		LIMIT 1
	`
	var status string
	err := r.db.QueryRow(ctx, query, userID, courseID, models.EnrollmentRejected).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.EnrollmentNone, nil
		}
		return "", err
	}
	return status, nil
}

func (r *EnrollmentPostgres) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentRecord, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE user_id = $1
		ORDER BY enrollment_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

func (r *EnrollmentPostgres) ListByStatus(ctx context.Context, status string) ([]models.EnrollmentRecord, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE status = $1
		ORDER BY enrollment_date
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

// DeleteEnrollments is the only hard delete in the ledger, reserved for
// explicit bulk admin cleanup.
func (r *EnrollmentPostgres) DeleteEnrollments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete enrollments: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func scanEnrollment(row pgx.Row) (*models.EnrollmentRecord, error) {
	rec := &models.EnrollmentRecord{}
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.UserEmail, &rec.UserName, &rec.CourseID, &rec.CourseTitle,
		&rec.Status, &rec.PaymentStatus, &rec.Amount, &rec.TransactionID, &rec.PaymentMethod,
		&rec.DecisionReason, &rec.EnrollmentDate, &rec.UpdatedAt, &rec.Version,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scanEnrollments(rows pgx.Rows) ([]models.EnrollmentRecord, error) {
	var records []models.EnrollmentRecord
	for rows.Next() {
		rec, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
