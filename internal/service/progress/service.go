package progress

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type progressRepo interface {
	MarkCompleted(ctx context.Context, userID, courseID, itemID uuid.UUID, itemType string) error
	CompletedCounts(ctx context.Context, userID, courseID uuid.UUID) (videos, notes, quizzes int, err error)
	CompletedItems(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
}

type certificateRepo interface {
	CreateCertificate(ctx context.Context, cert *models.Certificate) error
	CertificateFor(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
	CertificatesByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type videoRepo interface {
	VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type noteRepo interface {
	NoteByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type quizRepo interface {
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type approvalChecker interface {
	IsApproved(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// Service derives course completion from the ratio of completed items to
// total items. There is no point bookkeeping: the percentage is
// recomputed from the completion sets on every read.
type Service struct {
	log          logger.Log
	progressRepo progressRepo
	certRepo     certificateRepo
	courseRepo   courseRepo
	videoRepo    videoRepo
	noteRepo     noteRepo
	quizRepo     quizRepo
	userRepo     userRepo
	approval     approvalChecker
}

func NewService(
	l logger.Log,
	progressRepo progressRepo,
	certRepo certificateRepo,
	courseRepo courseRepo,
	videoRepo videoRepo,
	noteRepo noteRepo,
	quizRepo quizRepo,
	userRepo userRepo,
	approval approvalChecker,
) *Service {
	return &Service{
		log:          l,
		progressRepo: progressRepo,
		certRepo:     certRepo,
		courseRepo:   courseRepo,
		videoRepo:    videoRepo,
		noteRepo:     noteRepo,
		quizRepo:     quizRepo,
		userRepo:     userRepo,
		approval:     approval,
	}
}

func (s *Service) checkApproved(ctx context.Context, userID, courseID uuid.UUID) error {
	approved, err := s.approval.IsApproved(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !approved {
		return app_errors.ErrNotApproved
	}
	return nil
}

// VideoWatched marks a video complete for the student. Marking twice is
// a no-op.
func (s *Service) VideoWatched(ctx context.Context, userID, courseID, videoID uuid.UUID) error {
	if err := s.checkApproved(ctx, userID, courseID); err != nil {
		return err
	}
	video, err := s.videoRepo.VideoByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.CourseID != courseID {
		return app_errors.ErrVideoNotFound
	}
	if err := s.progressRepo.MarkCompleted(ctx, userID, courseID, videoID, models.ItemVideo); err != nil {
		return err
	}
	return s.maybeIssueCertificate(ctx, userID, courseID)
}

func (s *Service) NoteCompleted(ctx context.Context, userID, courseID, noteID uuid.UUID) error {
	if err := s.checkApproved(ctx, userID, courseID); err != nil {
		return err
	}
	note, err := s.noteRepo.NoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.CourseID != courseID {
		return app_errors.ErrNoteNotFound
	}
	if err := s.progressRepo.MarkCompleted(ctx, userID, courseID, noteID, models.ItemNote); err != nil {
		return err
	}
	return s.maybeIssueCertificate(ctx, userID, courseID)
}

// QuizPassed is called by the quiz engine after a passing submit.
func (s *Service) QuizPassed(ctx context.Context, userID, courseID, quizID uuid.UUID) error {
	if err := s.progressRepo.MarkCompleted(ctx, userID, courseID, quizID, models.ItemQuiz); err != nil {
		return err
	}
	return s.maybeIssueCertificate(ctx, userID, courseID)
}

// Progress reports completion for one course.
func (s *Service) Progress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	if err := s.checkApproved(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.progressOf(ctx, userID, courseID)
}

func (s *Service) progressOf(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	videos, notes, quizzes, err := s.progressRepo.CompletedCounts(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	totalVideos, err := s.videoRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	totalNotes, err := s.noteRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	totalQuizzes, err := s.quizRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	p := &models.CourseProgress{
		CourseID:       courseID,
		WatchedVideos:  videos,
		CompletedNotes: notes,
		PassedQuizzes:  quizzes,
		TotalVideos:    totalVideos,
		TotalNotes:     totalNotes,
		TotalQuizzes:   totalQuizzes,
		Percent:        Percent(videos+notes+quizzes, totalVideos+totalNotes+totalQuizzes),
	}

	if cert, err := s.certRepo.CertificateFor(ctx, userID, courseID); err == nil && cert != nil {
		p.CertificateID = cert.CertificateID
	}
	return p, nil
}

// maybeIssueCertificate issues the course certificate the moment every
// item is complete. Issue is idempotent; the first issued certificate is
// never replaced.
func (s *Service) maybeIssueCertificate(ctx context.Context, userID, courseID uuid.UUID) error {
	p, err := s.progressOf(ctx, userID, courseID)
	if err != nil {
		return err
	}
	total := p.TotalVideos + p.TotalNotes + p.TotalQuizzes
	if total == 0 || p.Percent < 100 {
		return nil
	}
	if p.CertificateID != "" {
		return nil
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return err
	}

	issued := time.Now().UTC()
	cert := &models.Certificate{
		CertificateID: CertificateID(courseID, issued),
		UserID:        userID,
		CourseID:      courseID,
		StudentName:   user.Name,
		CourseTitle:   course.Title,
		IssueDate:     issued,
	}
	if err := s.certRepo.CreateCertificate(ctx, cert); err != nil {
		return err
	}
	s.log.Info("certificate issued",
		"certificate_id", cert.CertificateID,
		"course_id", courseID.String(),
	)
	return nil
}

func (s *Service) Certificates(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	return s.certRepo.CertificatesByUser(ctx, userID)
}

// Percent is the uniform completion formula used everywhere progress is
// shown.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// CertificateID derives a stable identifier from the course and issue
// instant.
func CertificateID(courseID uuid.UUID, issued time.Time) string {
	return fmt.Sprintf("CERT-%s-%d", courseID.String()[:8], issued.Unix())
}
