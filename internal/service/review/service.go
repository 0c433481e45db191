package review

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	minRating = 1
	maxRating = 5
)

type reviewRepo interface {
	AddReview(ctx context.Context, review *models.Review) error
	ReviewsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error)
	ListReviews(ctx context.Context) ([]models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

type approvalChecker interface {
	IsApproved(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Service struct {
	log        logger.Log
	reviewRepo reviewRepo
	userRepo   userRepo
	approvals  approvalChecker
}

func NewService(log logger.Log, r reviewRepo, u userRepo, a approvalChecker) *Service {
	return &Service{
		log:        log,
		reviewRepo: r,
		userRepo:   u,
		approvals:  a,
	}
}

// Submit records a review for a course the user is approved on. One
// review per user per course; a second submit returns ErrAlreadyReviewed.
func (s *Service) Submit(ctx context.Context, userID, courseID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < minRating || rating > maxRating {
		return nil, fmt.Errorf("rating must be between %d and %d", minRating, maxRating)
	}

	ok, err := s.approvals.IsApproved(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, app_errors.ErrNotApproved
	}

	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	review := models.Review{
		ID:       uuid.New(),
		CourseID: courseID,
		UserID:   userID,
		UserName: user.Name,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.reviewRepo.AddReview(ctx, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Service) ForCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error) {
	return s.reviewRepo.ReviewsByCourse(ctx, courseID)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Review, error) {
	return s.reviewRepo.ListReviews(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.reviewRepo.DeleteReview(ctx, id)
}
