package postgres

import (
	"CliniGoal/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CertificatePostgres struct {
	db *pgxpool.Pool
}

func NewCertificatePostgres(db *pgxpool.Pool) *CertificatePostgres {
	return &CertificatePostgres{db: db}
}

// CreateCertificate inserts once per (user, course); re-issuing returns
// the already stored certificate untouched.
func (r *CertificatePostgres) CreateCertificate(ctx context.Context, cert *models.Certificate) error {
	query := `
		INSERT INTO certificates (certificate_id, user_id, course_id, student_name, course_title, issue_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		cert.CertificateID, cert.UserID, cert.CourseID,
		cert.StudentName, cert.CourseTitle, cert.IssueDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert certificate: %w", err)
	}
	return nil
}

func (r *CertificatePostgres) CertificateFor(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	query := `
		SELECT certificate_id, user_id, course_id, student_name, course_title, issue_date
		FROM certificates
		WHERE user_id = $1 AND course_id = $2
	`
	cert := &models.Certificate{}
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&cert.CertificateID, &cert.UserID, &cert.CourseID,
		&cert.StudentName, &cert.CourseTitle, &cert.IssueDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cert, nil
}

func (r *CertificatePostgres) CertificatesByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	query := `
		SELECT certificate_id, user_id, course_id, student_name, course_title, issue_date
		FROM certificates
		WHERE user_id = $1
		ORDER BY issue_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		var cert models.Certificate
		if err := rows.Scan(
			&cert.CertificateID, &cert.UserID, &cert.CourseID,
			&cert.StudentName, &cert.CourseTitle, &cert.IssueDate,
		); err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, rows.Err()
}
