package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"

	// StatusOf result for a (user, course) pair with no record at all.
	EnrollmentNone = "not_enrolled"

	PaymentPendingApproval = "pending_approval"
	PaymentCompleted       = "completed"
	PaymentFailed          = "failed"
)

// EnrollmentRecord couples a student's enrollment request with its
// simulated payment. Course identity is denormalized at enrollment time
// so the record survives later catalog edits.
type EnrollmentRecord struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	UserEmail      string    `json:"user_email"`
	UserName       string    `json:"user_name"`
	CourseID       uuid.UUID `json:"course_id"`
	CourseTitle    string    `json:"course_title"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	Amount         float64   `json:"amount"`
	TransactionID  string    `json:"transaction_id"`
	PaymentMethod  string    `json:"payment_method"`
	DecisionReason string    `json:"decision_reason,omitempty"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Version increments on every write; decisions carry the version they
	// read so concurrent updates fail loudly instead of overwriting.
	Version int `json:"version"`
}

type StudentInfo struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// DecisionResult reports the outcome of one id inside a bulk decision.
type DecisionResult struct {
	RecordID uuid.UUID `json:"record_id"`
	Err      string    `json:"error,omitempty"`
}
