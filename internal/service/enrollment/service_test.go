package enrollment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/internal/notify"
	"CliniGoal/pkg/logger"
)

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return course, nil
}

type fakeEnrollmentRepo struct {
	records map[uuid.UUID]*models.EnrollmentRecord

	// when set, UpdateDecision reports a lost version race once
	conflictOnce bool
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{records: make(map[uuid.UUID]*models.EnrollmentRecord)}
}

func (f *fakeEnrollmentRepo) CreateEnrollment(_ context.Context, rec *models.EnrollmentRecord) error {
	for _, existing := range f.records {
		if existing.UserID == rec.UserID && existing.CourseID == rec.CourseID && existing.Status != models.EnrollmentRejected {
			return app_errors.ErrAlreadyEnrolled
		}
	}
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeEnrollmentRepo) EnrollmentByID(_ context.Context, id uuid.UUID) (*models.EnrollmentRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, app_errors.ErrEnrollmentNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeEnrollmentRepo) UpdateDecision(_ context.Context, rec *models.EnrollmentRecord) (bool, error) {
	if f.conflictOnce {
		f.conflictOnce = false
		return false, nil
	}
	stored, ok := f.records[rec.ID]
	if !ok || stored.Status != models.EnrollmentPending || stored.Version != rec.Version {
		return false, nil
	}
	cp := *rec
	cp.Version++
	f.records[rec.ID] = &cp
	rec.Version = cp.Version
	return true, nil
}

func (f *fakeEnrollmentRepo) StatusOf(_ context.Context, userID, courseID uuid.UUID) (string, error) {
	best := models.EnrollmentNone
	for _, rec := range f.records {
		if rec.UserID != userID || rec.CourseID != courseID {
			continue
		}
		if rec.Status != models.EnrollmentRejected || best == models.EnrollmentNone {
			best = rec.Status
		}
	}
	return best, nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.EnrollmentRecord, error) {
	var out []models.EnrollmentRecord
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListByStatus(_ context.Context, status string) ([]models.EnrollmentRecord, error) {
	var out []models.EnrollmentRecord
	for _, rec := range f.records {
		if rec.Status == status {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) DeleteEnrollments(_ context.Context, ids []uuid.UUID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := f.records[id]; ok {
			delete(f.records, id)
			deleted++
		}
	}
	return deleted, nil
}

type recordingNotifier struct {
	userEvents  []string
	adminEvents []string
}

func (r *recordingNotifier) NotifyUser(_ uuid.UUID, event string, _ interface{}) {
	r.userEvents = append(r.userEvents, event)
}

func (r *recordingNotifier) NotifyAdmins(event string, _ interface{}) {
	r.adminEvents = append(r.adminEvents, event)
}

type recordingBus struct {
	kinds []string
}

func (r *recordingBus) Push(_ uuid.UUID, _, kind string) notify.Notification {
	r.kinds = append(r.kinds, kind)
	return notify.Notification{}
}

func newTestLedger(t *testing.T) (*LedgerService, *fakeEnrollmentRepo, *recordingNotifier, *recordingBus, *models.Course) {
	t.Helper()
	course := &models.Course{
		ID:     uuid.New(),
		Title:  "cardiology 101",
		Price:  49.99,
		Status: models.StatusPublic,
	}
	records := newFakeEnrollmentRepo()
	rt := &recordingNotifier{}
	bus := &recordingBus{}
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{course.ID: course}}
	return NewLedgerService(logger.NewNop(), courses, records, rt, bus), records, rt, bus, course
}

func testStudent() models.StudentInfo {
	return models.StudentInfo{ID: uuid.New(), Name: "Lee", Email: "lee@test.test"}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a pending record with a completed payment simulation", func(t *testing.T) {
		svc, _, rt, bus, course := newTestLedger(t)

		rec, err := svc.Submit(ctx, course.ID, testStudent(), "card")
		require.NoError(t, err)

		assert.Equal(t, models.EnrollmentPending, rec.Status)
		assert.Equal(t, models.PaymentPendingApproval, rec.PaymentStatus)
		assert.Equal(t, course.Price, rec.Amount)
		assert.NotEmpty(t, rec.TransactionID)
		assert.Equal(t, 1, rec.Version)

		assert.Contains(t, rt.adminEvents, "new-payment")
		assert.Contains(t, rt.adminEvents, "new-approval-request")
		assert.Equal(t, []string{"info"}, bus.kinds)
	})

	t.Run("rejects hidden courses", func(t *testing.T) {
		svc, _, _, _, course := newTestLedger(t)
		course.Status = models.StatusHidden

		_, err := svc.Submit(ctx, course.ID, testStudent(), "card")
		assert.ErrorIs(t, err, app_errors.ErrCourseNotPublished)
	})

	t.Run("one live enrollment per user and course", func(t *testing.T) {
		svc, _, _, _, course := newTestLedger(t)
		student := testStudent()

		_, err := svc.Submit(ctx, course.ID, student, "card")
		require.NoError(t, err)
		_, err = svc.Submit(ctx, course.ID, student, "card")
		assert.ErrorIs(t, err, app_errors.ErrAlreadyEnrolled)
	})

	t.Run("a rejected enrollment can be retried", func(t *testing.T) {
		svc, _, _, _, course := newTestLedger(t)
		student := testStudent()

		rec, err := svc.Submit(ctx, course.ID, student, "card")
		require.NoError(t, err)
		_, err = svc.Decide(ctx, rec.ID, models.EnrollmentRejected, "payment issue")
		require.NoError(t, err)

		_, err = svc.Submit(ctx, course.ID, student, "card")
		assert.NoError(t, err)
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("approval unlocks the course", func(t *testing.T) {
		svc, _, rt, bus, course := newTestLedger(t)
		student := testStudent()
		rec, err := svc.Submit(ctx, course.ID, student, "card")
		require.NoError(t, err)

		decided, err := svc.Decide(ctx, rec.ID, models.EnrollmentApproved, "")
		require.NoError(t, err)

		assert.Equal(t, models.EnrollmentApproved, decided.Status)
		assert.Equal(t, models.PaymentCompleted, decided.PaymentStatus)

		approved, err := svc.IsApproved(ctx, student.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, approved)

		assert.Contains(t, rt.userEvents, "approval-decided")
		assert.Contains(t, rt.userEvents, "payment-status-changed")
		assert.Contains(t, bus.kinds, "success")
	})

	t.Run("rejection records the reason and fails the payment", func(t *testing.T) {
		svc, _, _, bus, course := newTestLedger(t)
		student := testStudent()
		rec, err := svc.Submit(ctx, course.ID, student, "card")
		require.NoError(t, err)

		decided, err := svc.Decide(ctx, rec.ID, models.EnrollmentRejected, "card declined")
		require.NoError(t, err)

		assert.Equal(t, models.EnrollmentRejected, decided.Status)
		assert.Equal(t, models.PaymentFailed, decided.PaymentStatus)
		assert.Equal(t, "card declined", decided.DecisionReason)

		approved, err := svc.IsApproved(ctx, student.ID, course.ID)
		require.NoError(t, err)
		assert.False(t, approved)
		assert.Contains(t, bus.kinds, "error")
	})

	t.Run("decided records cannot be decided again", func(t *testing.T) {
		svc, _, _, _, course := newTestLedger(t)
		rec, err := svc.Submit(ctx, course.ID, testStudent(), "card")
		require.NoError(t, err)

		_, err = svc.Decide(ctx, rec.ID, models.EnrollmentApproved, "")
		require.NoError(t, err)
		_, err = svc.Decide(ctx, rec.ID, models.EnrollmentRejected, "")
		assert.ErrorIs(t, err, app_errors.ErrEnrollmentDecided)
	})

	t.Run("lost version race surfaces a conflict", func(t *testing.T) {
		svc, records, _, _, course := newTestLedger(t)
		rec, err := svc.Submit(ctx, course.ID, testStudent(), "card")
		require.NoError(t, err)

		records.conflictOnce = true
		_, err = svc.Decide(ctx, rec.ID, models.EnrollmentApproved, "")
		assert.ErrorIs(t, err, app_errors.ErrEnrollmentConflict)
	})

	t.Run("unknown decision is rejected", func(t *testing.T) {
		svc, _, _, _, course := newTestLedger(t)
		rec, err := svc.Submit(ctx, course.ID, testStudent(), "card")
		require.NoError(t, err)

		_, err = svc.Decide(ctx, rec.ID, "maybe", "")
		assert.Error(t, err)
	})

	t.Run("missing record", func(t *testing.T) {
		svc, _, _, _, _ := newTestLedger(t)
		_, err := svc.Decide(ctx, uuid.New(), models.EnrollmentApproved, "")
		assert.ErrorIs(t, err, app_errors.ErrEnrollmentNotFound)
	})
}

func TestBulkDecide(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, course := newTestLedger(t)

	recA, err := svc.Submit(ctx, course.ID, testStudent(), "card")
	require.NoError(t, err)
	recB, err := svc.Submit(ctx, course.ID, testStudent(), "card")
	require.NoError(t, err)
	missing := uuid.New()

	results := svc.BulkDecide(ctx, []uuid.UUID{recA.ID, missing, recB.ID}, models.EnrollmentApproved, "")

	require.Len(t, results, 3)
	assert.Empty(t, results[0].Err)
	assert.NotEmpty(t, results[1].Err)
	assert.Empty(t, results[2].Err)

	pending, err := svc.PendingApprovals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, course := newTestLedger(t)

	rec, err := svc.Submit(ctx, course.ID, testStudent(), "card")
	require.NoError(t, err)

	deleted, err := svc.Purge(ctx, []uuid.UUID{rec.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	status, err := svc.StatusOf(ctx, rec.UserID, rec.CourseID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentNone, status)
}
