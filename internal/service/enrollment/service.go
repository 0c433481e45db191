package enrollment

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/internal/notify"
	"CliniGoal/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	CreateEnrollment(ctx context.Context, rec *models.EnrollmentRecord) error
	EnrollmentByID(ctx context.Context, id uuid.UUID) (*models.EnrollmentRecord, error)
	UpdateDecision(ctx context.Context, rec *models.EnrollmentRecord) (bool, error)
	StatusOf(ctx context.Context, userID, courseID uuid.UUID) (string, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentRecord, error)
	ListByStatus(ctx context.Context, status string) ([]models.EnrollmentRecord, error)
	DeleteEnrollments(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// notifier is the realtime channel. Every call is a hint, never the
// record of truth.
type notifier interface {
	NotifyUser(userID uuid.UUID, event string, payload interface{})
	NotifyAdmins(event string, payload interface{})
}

type transientBus interface {
	Push(userID uuid.UUID, message, kind string) notify.Notification
}

type LedgerService struct {
	log      logger.Log
	courses  courseRepo
	records  enrollmentRepo
	realtime notifier
	bus      transientBus
}

func NewLedgerService(l logger.Log, courses courseRepo, records enrollmentRepo, rt notifier, bus transientBus) *LedgerService {
	return &LedgerService{
		log:      l,
		courses:  courses,
		records:  records,
		realtime: rt,
		bus:      bus,
	}
}

// Submit records a payment for a course and opens a pending enrollment.
// There is no gateway behind this: payment always succeeds and waits for
// an admin decision.
func (s *LedgerService) Submit(ctx context.Context, courseID uuid.UUID, student models.StudentInfo, paymentMethod string) (*models.EnrollmentRecord, error) {
	course, err := s.courses.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.StatusPublic {
		return nil, app_errors.ErrCourseNotPublished
	}

	now := time.Now().UTC()
	rec := &models.EnrollmentRecord{
		ID:             uuid.New(),
		UserID:         student.ID,
		UserEmail:      student.Email,
		UserName:       student.Name,
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		Status:         models.EnrollmentPending,
		PaymentStatus:  models.PaymentPendingApproval,
		Amount:         course.Price,
		TransactionID:  fmt.Sprintf("TXN-%d", now.UnixNano()),
		PaymentMethod:  paymentMethod,
		EnrollmentDate: now,
		UpdatedAt:      now,
		Version:        1,
	}

	if err := s.records.CreateEnrollment(ctx, rec); err != nil {
		return nil, err
	}

	if s.realtime != nil {
		s.realtime.NotifyAdmins("new-payment", rec)
		s.realtime.NotifyAdmins("new-approval-request", rec)
	}
	if s.bus != nil {
		s.bus.Push(student.ID, fmt.Sprintf("Payment for %q submitted, awaiting approval", course.Title), "info")
	}
	return rec, nil
}

// Decide transitions a pending record to approved or rejected. The write
// is versioned: losing a race against another admin returns
// ErrEnrollmentConflict instead of silently overwriting.
func (s *LedgerService) Decide(ctx context.Context, recordID uuid.UUID, decision, reason string) (*models.EnrollmentRecord, error) {
	if decision != models.EnrollmentApproved && decision != models.EnrollmentRejected {
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	rec, err := s.records.EnrollmentByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.EnrollmentPending {
		return nil, app_errors.ErrEnrollmentDecided
	}

	rec.Status = decision
	rec.DecisionReason = reason
	rec.UpdatedAt = time.Now().UTC()
	if decision == models.EnrollmentApproved {
		rec.PaymentStatus = models.PaymentCompleted
	} else {
		rec.PaymentStatus = models.PaymentFailed
	}

	ok, err := s.records.UpdateDecision(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, rerr := s.records.EnrollmentByID(ctx, recordID)
		if rerr != nil {
			return nil, rerr
		}
		if current.Status != models.EnrollmentPending {
			return nil, app_errors.ErrEnrollmentDecided
		}
		return nil, app_errors.ErrEnrollmentConflict
	}

	s.log.Info("enrollment decided",
		"record_id", rec.ID.String(),
		"course_id", rec.CourseID.String(),
		"decision", decision,
	)

	if s.realtime != nil {
		s.realtime.NotifyUser(rec.UserID, "approval-decided", rec)
		s.realtime.NotifyUser(rec.UserID, "payment-status-changed", rec)
		s.realtime.NotifyAdmins("approval-decided", rec)
	}
	if s.bus != nil {
		if decision == models.EnrollmentApproved {
			s.bus.Push(rec.UserID, fmt.Sprintf("Enrollment for %q approved", rec.CourseTitle), "success")
		} else {
			s.bus.Push(rec.UserID, fmt.Sprintf("Enrollment for %q rejected", rec.CourseTitle), "error")
		}
	}
	return rec, nil
}

// BulkDecide applies Decide to each id independently. There is no
// transaction around the loop: a failure mid-way leaves earlier
// decisions in place and is reported per id.
func (s *LedgerService) BulkDecide(ctx context.Context, recordIDs []uuid.UUID, decision, reason string) []models.DecisionResult {
	results := make([]models.DecisionResult, 0, len(recordIDs))
	for _, id := range recordIDs {
		res := models.DecisionResult{RecordID: id}
		if _, err := s.Decide(ctx, id, decision, reason); err != nil {
			res.Err = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *LedgerService) IsApproved(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	status, err := s.records.StatusOf(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return status == models.EnrollmentApproved, nil
}

func (s *LedgerService) StatusOf(ctx context.Context, userID, courseID uuid.UUID) (string, error) {
	return s.records.StatusOf(ctx, userID, courseID)
}

func (s *LedgerService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentRecord, error) {
	return s.records.ListByUser(ctx, userID)
}

func (s *LedgerService) PendingApprovals(ctx context.Context) ([]models.EnrollmentRecord, error) {
	return s.records.ListByStatus(ctx, models.EnrollmentPending)
}

// Purge hard-deletes records. Reserved for explicit bulk admin cleanup.
func (s *LedgerService) Purge(ctx context.Context, recordIDs []uuid.UUID) (int64, error) {
	return s.records.DeleteEnrollments(ctx, recordIDs)
}
