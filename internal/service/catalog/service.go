package catalog

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// catalogPageMax bounds the public listing that gets cached whole.
const catalogPageMax = 500

const maxLogoSizeBytes = 5 << 20

type courseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateCourseLogo(ctx context.Context, courseID uuid.UUID, logoObjectKey string) error
	ListPublicCourses(ctx context.Context, limit int, offset int) ([]models.Course, error)
	ListAllCourses(ctx context.Context) ([]models.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type videoRepo interface {
	CreateVideo(ctx context.Context, video *models.Video) (uuid.UUID, error)
	VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	DeleteVideo(ctx context.Context, id uuid.UUID) error
	VideosByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Video, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type noteRepo interface {
	CreateNote(ctx context.Context, note *models.Note) (uuid.UUID, error)
	NoteByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
	NotesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Note, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type quizRepo interface {
	CreateQuiz(ctx context.Context, quiz *models.Quiz) (uuid.UUID, error)
	QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *models.Quiz) error
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
	QuizzesByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Quiz, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type mediaRepo interface {
	UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadVideo(ctx context.Context, courseID, videoID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadNoteFile(ctx context.Context, courseID, noteID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetMediaURL(ctx context.Context, objectKey string) (string, error)
	DeleteMedia(ctx context.Context, objectKey string) error
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
}

type catalogCache interface {
	Get(ctx context.Context) ([]models.CoursePreview, bool, error)
	Set(ctx context.Context, previews []models.CoursePreview) error
	Invalidate(ctx context.Context) error
}

type approvalChecker interface {
	IsApproved(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type Service struct {
	log        logger.Log
	courseRepo courseRepo
	videoRepo  videoRepo
	noteRepo   noteRepo
	quizRepo   quizRepo
	mediaRepo  mediaRepo
	searchRepo searchRepo
	cache      catalogCache
	approvals  approvalChecker
}

func NewService(
	log logger.Log,
	c courseRepo,
	v videoRepo,
	n noteRepo,
	q quizRepo,
	m mediaRepo,
	s searchRepo,
	cache catalogCache,
	approvals approvalChecker,
) *Service {
	return &Service{
		log:        log,
		courseRepo: c,
		videoRepo:  v,
		noteRepo:   n,
		quizRepo:   q,
		mediaRepo:  m,
		searchRepo: s,
		cache:      cache,
		approvals:  approvals,
	}
}

// CreateCourse stores a new course in the hidden state. It does not reach
// the catalog or the search index until published.
func (s *Service) CreateCourse(ctx context.Context, course models.Course) (uuid.UUID, error) {
	course.Status = models.StatusHidden
	id, err := s.courseRepo.NewCourse(ctx, &course)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create course: %w", err)
	}
	return id, nil
}

func (s *Service) UpdateCourse(ctx context.Context, course models.Course) error {
	current, err := s.courseRepo.CourseByID(ctx, course.ID)
	if err != nil {
		return err
	}
	if err := s.courseRepo.UpdateCourse(ctx, &course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if current.Status == models.StatusPublic {
		course.Status = current.Status
		if err := s.searchRepo.Index(ctx, course); err != nil {
			s.log.ErrorErr("UpdateCourse: failed to reindex course", err)
		}
		s.invalidateCatalog(ctx)
	}
	return nil
}

func (s *Service) PublishCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.courseRepo.ChangeStatus(ctx, id, models.StatusPublic); err != nil {
		return err
	}
	course.Status = models.StatusPublic
	if err := s.searchRepo.Index(ctx, *course); err != nil {
		s.log.ErrorErr("PublishCourse: failed to index course", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *Service) HideCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courseRepo.ChangeStatus(ctx, id, models.StatusHidden); err != nil {
		return err
	}
	if err := s.searchRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("HideCourse: failed to remove course from index", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

// DeleteCourse removes the course row together with its media objects and
// search document. Media cleanup is best effort: an unreachable object
// store must not leave the course half deleted.
func (s *Service) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return err
	}

	videos, err := s.videoRepo.VideosByCourse(ctx, id)
	if err != nil {
		return err
	}
	notes, err := s.noteRepo.NotesByCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		return err
	}

	for _, v := range videos {
		s.deleteMedia(ctx, v.ObjectKey)
	}
	for _, n := range notes {
		s.deleteMedia(ctx, n.ObjectKey)
	}
	s.deleteMedia(ctx, course.LogoObjectKey)

	if err := s.searchRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("DeleteCourse: failed to remove course from index", err)
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *Service) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.ListAllCourses(ctx)
}

func (s *Service) UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return app_errors.ErrNotImage
	}
	if size > maxLogoSizeBytes {
		return app_errors.ErrFileSize
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}

	key, err := s.mediaRepo.UploadLogo(ctx, courseID, filename, reader, size, contentType)
	if err != nil {
		return fmt.Errorf("upload logo: %w", err)
	}
	if err := s.courseRepo.UpdateCourseLogo(ctx, courseID, key); err != nil {
		return err
	}
	if course.LogoObjectKey != "" && course.LogoObjectKey != key {
		s.deleteMedia(ctx, course.LogoObjectKey)
	}
	s.invalidateCatalog(ctx)
	return nil
}

// Catalog returns every public course as a preview. Served from the redis
// cache when warm; a miss rebuilds the list and repopulates the cache.
func (s *Service) Catalog(ctx context.Context) ([]models.CoursePreview, error) {
	previews, found, err := s.cache.Get(ctx)
	if err != nil {
		s.log.ErrorErr("Catalog: cache read failed", err)
	}
	if found {
		return previews, nil
	}

	courses, err := s.courseRepo.ListPublicCourses(ctx, catalogPageMax, 0)
	if err != nil {
		return nil, err
	}

	previews = make([]models.CoursePreview, 0, len(courses))
	for _, c := range courses {
		previews = append(previews, s.buildPreview(ctx, c))
	}

	if err := s.cache.Set(ctx, previews); err != nil {
		s.log.ErrorErr("Catalog: cache write failed", err)
	}
	return previews, nil
}

// CoursePreview returns a single course preview. Hidden courses are only
// visible when includeHidden is set, which the admin surface does.
func (s *Service) CoursePreview(ctx context.Context, id uuid.UUID, includeHidden bool) (*models.CoursePreview, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Status != models.StatusPublic && !includeHidden {
		return nil, app_errors.ErrCourseNotPublished
	}
	preview := s.buildPreview(ctx, *course)
	return &preview, nil
}

// Search resolves the query through elasticsearch and hydrates previews,
// dropping hits that have gone hidden since they were indexed.
func (s *Service) Search(ctx context.Context, query string, size int) ([]models.CoursePreview, error) {
	ids, err := s.searchRepo.Search(ctx, query, size)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	previews := make([]models.CoursePreview, 0, len(ids))
	for _, id := range ids {
		course, err := s.courseRepo.CourseByID(ctx, id)
		if err != nil {
			s.log.ErrorErr("Search: stale hit, course lookup failed", err)
			continue
		}
		if course.Status != models.StatusPublic {
			continue
		}
		previews = append(previews, s.buildPreview(ctx, *course))
	}
	return previews, nil
}

// Content assembles the full course payload for an approved student:
// videos and note files behind fresh presigned URLs, quizzes with their
// questions.
func (s *Service) Content(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseContent, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	ok, err := s.approvals.IsApproved(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, app_errors.ErrNotApproved
	}

	videos, err := s.videoRepo.VideosByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.NotesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.QuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	content := models.CourseContent{
		Course:  s.buildPreview(ctx, *course),
		Videos:  make([]models.VideoDetail, 0, len(videos)),
		Notes:   make([]models.NoteDetail, 0, len(notes)),
		Quizzes: quizzes,
	}

	for _, v := range videos {
		url, err := s.mediaURL(ctx, v.ObjectKey)
		if err != nil {
			s.log.ErrorErr("Content: video URL failed", err)
		}
		content.Videos = append(content.Videos, models.VideoDetail{Video: v, URL: url})
	}
	for _, n := range notes {
		url, err := s.mediaURL(ctx, n.ObjectKey)
		if err != nil {
			s.log.ErrorErr("Content: note URL failed", err)
		}
		content.Notes = append(content.Notes, models.NoteDetail{Note: n, URL: url})
	}

	return &content, nil
}

func (s *Service) buildPreview(ctx context.Context, c models.Course) models.CoursePreview {
	logoURL, err := s.mediaURL(ctx, c.LogoObjectKey)
	if err != nil {
		s.log.ErrorErr("preview: logo URL failed", err)
	}

	videos, err := s.videoRepo.CountByCourse(ctx, c.ID)
	if err != nil {
		s.log.ErrorErr("preview: video count failed", err)
	}
	notes, err := s.noteRepo.CountByCourse(ctx, c.ID)
	if err != nil {
		s.log.ErrorErr("preview: note count failed", err)
	}
	quizzes, err := s.quizRepo.CountByCourse(ctx, c.ID)
	if err != nil {
		s.log.ErrorErr("preview: quiz count failed", err)
	}

	return models.CoursePreview{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Price:       c.Price,
		LogoURL:     logoURL,
		VideoCount:  videos,
		NoteCount:   notes,
		QuizCount:   quizzes,
	}
}

func (s *Service) mediaURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return s.mediaRepo.GetMediaURL(ctx, objectKey)
}

func (s *Service) deleteMedia(ctx context.Context, objectKey string) {
	if objectKey == "" {
		return
	}
	if err := s.mediaRepo.DeleteMedia(ctx, objectKey); err != nil {
		s.log.ErrorErr("failed to delete media object", err)
	}
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.ErrorErr("failed to invalidate catalog cache", err)
	}
}
