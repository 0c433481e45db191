package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
)

type memCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[uuid.UUID]*models.Course)}
}

func (m *memCourseRepo) NewCourse(_ context.Context, course *models.Course) (uuid.UUID, error) {
	course.ID = uuid.New()
	cp := *course
	m.courses[course.ID] = &cp
	return course.ID, nil
}

func (m *memCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	cp := *course
	return &cp, nil
}

func (m *memCourseRepo) UpdateCourse(_ context.Context, course *models.Course) error {
	stored, ok := m.courses[course.ID]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	stored.Title = course.Title
	stored.Description = course.Description
	stored.Category = course.Category
	stored.Price = course.Price
	return nil
}

func (m *memCourseRepo) ChangeStatus(_ context.Context, id uuid.UUID, status string) error {
	course, ok := m.courses[id]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	course.Status = status
	return nil
}

func (m *memCourseRepo) UpdateCourseLogo(_ context.Context, courseID uuid.UUID, logoObjectKey string) error {
	course, ok := m.courses[courseID]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	course.LogoObjectKey = logoObjectKey
	return nil
}

func (m *memCourseRepo) ListPublicCourses(_ context.Context, _ int, _ int) ([]models.Course, error) {
	var out []models.Course
	for _, c := range m.courses {
		if c.Status == models.StatusPublic {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCourseRepo) ListAllCourses(context.Context) ([]models.Course, error) {
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCourseRepo) DeleteCourse(_ context.Context, id uuid.UUID) error {
	delete(m.courses, id)
	return nil
}

type fakeSearchRepo struct {
	indexed map[uuid.UUID]bool
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{indexed: make(map[uuid.UUID]bool)}
}

func (f *fakeSearchRepo) Index(_ context.Context, course models.Course) error {
	f.indexed[course.ID] = true
	return nil
}

func (f *fakeSearchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeSearchRepo) Search(_ context.Context, _ string, _ int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.indexed))
	for id := range f.indexed {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeCache struct {
	previews []models.CoursePreview
	warm     bool

	hits, misses, invalidations int
}

func (f *fakeCache) Get(context.Context) ([]models.CoursePreview, bool, error) {
	if f.warm {
		f.hits++
		return f.previews, true, nil
	}
	f.misses++
	return nil, false, nil
}

func (f *fakeCache) Set(_ context.Context, previews []models.CoursePreview) error {
	f.previews = previews
	f.warm = true
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.previews = nil
	f.warm = false
	f.invalidations++
	return nil
}

type fakeVideoRepo struct {
	videos map[uuid.UUID]*models.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]*models.Video)}
}

func (f *fakeVideoRepo) CreateVideo(_ context.Context, video *models.Video) (uuid.UUID, error) {
	video.ID = uuid.New()
	cp := *video
	f.videos[video.ID] = &cp
	return video.ID, nil
}

func (f *fakeVideoRepo) VideoByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, app_errors.ErrVideoNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideoRepo) UpdateVideo(_ context.Context, video *models.Video) error {
	if _, ok := f.videos[video.ID]; !ok {
		return app_errors.ErrVideoNotFound
	}
	cp := *video
	f.videos[video.ID] = &cp
	return nil
}

func (f *fakeVideoRepo) DeleteVideo(_ context.Context, id uuid.UUID) error {
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoRepo) VideosByCourse(_ context.Context, courseID uuid.UUID) ([]models.Video, error) {
	var out []models.Video
	for _, v := range f.videos {
		if v.CourseID == courseID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) CountByCourse(_ context.Context, courseID uuid.UUID) (int, error) {
	vs, _ := f.VideosByCourse(context.Background(), courseID)
	return len(vs), nil
}

type fakeNoteRepo struct {
	notes map[uuid.UUID]*models.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*models.Note)}
}

func (f *fakeNoteRepo) CreateNote(_ context.Context, note *models.Note) (uuid.UUID, error) {
	note.ID = uuid.New()
	cp := *note
	f.notes[note.ID] = &cp
	return note.ID, nil
}

func (f *fakeNoteRepo) NoteByID(_ context.Context, id uuid.UUID) (*models.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return nil, app_errors.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNoteRepo) UpdateNote(_ context.Context, note *models.Note) error {
	if _, ok := f.notes[note.ID]; !ok {
		return app_errors.ErrNoteNotFound
	}
	cp := *note
	f.notes[note.ID] = &cp
	return nil
}

func (f *fakeNoteRepo) DeleteNote(_ context.Context, id uuid.UUID) error {
	delete(f.notes, id)
	return nil
}

func (f *fakeNoteRepo) NotesByCourse(_ context.Context, courseID uuid.UUID) ([]models.Note, error) {
	var out []models.Note
	for _, n := range f.notes {
		if n.CourseID == courseID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) CountByCourse(_ context.Context, courseID uuid.UUID) (int, error) {
	ns, _ := f.NotesByCourse(context.Background(), courseID)
	return len(ns), nil
}

type fakeQuizRepo struct {
	quizzes map[uuid.UUID]*models.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: make(map[uuid.UUID]*models.Quiz)}
}

func (f *fakeQuizRepo) CreateQuiz(_ context.Context, quiz *models.Quiz) (uuid.UUID, error) {
	quiz.ID = uuid.New()
	cp := *quiz
	f.quizzes[quiz.ID] = &cp
	return quiz.ID, nil
}

func (f *fakeQuizRepo) QuizByID(_ context.Context, id uuid.UUID) (*models.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, app_errors.ErrQuizNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuizRepo) UpdateQuiz(_ context.Context, quiz *models.Quiz) error {
	if _, ok := f.quizzes[quiz.ID]; !ok {
		return app_errors.ErrQuizNotFound
	}
	cp := *quiz
	f.quizzes[quiz.ID] = &cp
	return nil
}

func (f *fakeQuizRepo) DeleteQuiz(_ context.Context, id uuid.UUID) error {
	delete(f.quizzes, id)
	return nil
}

func (f *fakeQuizRepo) QuizzesByCourse(_ context.Context, courseID uuid.UUID) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range f.quizzes {
		if q.CourseID == courseID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) CountByCourse(_ context.Context, courseID uuid.UUID) (int, error) {
	qs, _ := f.QuizzesByCourse(context.Background(), courseID)
	return len(qs), nil
}

type fakeMedia struct {
	deleted []string
}

func (f *fakeMedia) UploadLogo(_ context.Context, courseID uuid.UUID, _ string, _ io.Reader, _ int64, _ string) (string, error) {
	return "courses/" + courseID.String() + "/logo", nil
}

func (f *fakeMedia) UploadVideo(_ context.Context, courseID, videoID uuid.UUID, _ string, _ io.Reader, _ int64, _ string) (string, error) {
	return "courses/" + courseID.String() + "/videos/" + videoID.String(), nil
}

func (f *fakeMedia) UploadNoteFile(_ context.Context, courseID, noteID uuid.UUID, _ string, _ io.Reader, _ int64, _ string) (string, error) {
	return "courses/" + courseID.String() + "/notes/" + noteID.String(), nil
}

func (f *fakeMedia) GetMediaURL(_ context.Context, objectKey string) (string, error) {
	return "https://media.test/" + objectKey, nil
}

func (f *fakeMedia) DeleteMedia(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

type fakeApproval struct {
	approved bool
}

func (f *fakeApproval) IsApproved(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.approved, nil
}

type catalogFixture struct {
	svc      *Service
	courses  *memCourseRepo
	videos   *fakeVideoRepo
	notes    *fakeNoteRepo
	quizzes  *fakeQuizRepo
	media    *fakeMedia
	search   *fakeSearchRepo
	cache    *fakeCache
	approval *fakeApproval
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		courses:  newMemCourseRepo(),
		videos:   newFakeVideoRepo(),
		notes:    newFakeNoteRepo(),
		quizzes:  newFakeQuizRepo(),
		media:    &fakeMedia{},
		search:   newFakeSearchRepo(),
		cache:    &fakeCache{},
		approval: &fakeApproval{approved: true},
	}
	f.svc = NewService(logger.NewNop(), f.courses, f.videos, f.notes, f.quizzes, f.media, f.search, f.cache, f.approval)
	return f
}

func TestCourseLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	id, err := f.svc.CreateCourse(ctx, models.Course{Title: "surgery prep", Price: 99})
	require.NoError(t, err)

	// hidden on creation: not in catalog, not indexed
	previews, err := f.svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, previews)
	assert.Empty(t, f.search.indexed)

	require.NoError(t, f.svc.PublishCourse(ctx, id))
	assert.True(t, f.search.indexed[id])
	assert.GreaterOrEqual(t, f.cache.invalidations, 1)

	previews, err = f.svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.Equal(t, "surgery prep", previews[0].Title)

	// warm cache serves the next read
	_, err = f.svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)

	require.NoError(t, f.svc.HideCourse(ctx, id))
	assert.False(t, f.search.indexed[id])

	previews, err = f.svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, previews)
}

func TestDeleteCourseCleansUp(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	id, err := f.svc.CreateCourse(ctx, models.Course{Title: "to remove"})
	require.NoError(t, err)
	require.NoError(t, f.svc.PublishCourse(ctx, id))

	videoID, err := f.svc.AddVideo(ctx, models.Video{CourseID: id, Title: "v"})
	require.NoError(t, err)
	require.NoError(t, f.svc.UploadVideoFile(ctx, videoID, "v.mp4", strings.NewReader("data"), 4, "video/mp4"))

	require.NoError(t, f.svc.DeleteCourse(ctx, id))

	_, err = f.svc.CoursePreview(ctx, id, true)
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
	assert.False(t, f.search.indexed[id])
	assert.NotEmpty(t, f.media.deleted)
}

func TestContentRequiresApproval(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	id, err := f.svc.CreateCourse(ctx, models.Course{Title: "locked"})
	require.NoError(t, err)
	require.NoError(t, f.svc.PublishCourse(ctx, id))

	f.approval.approved = false
	_, err = f.svc.Content(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, app_errors.ErrNotApproved)

	f.approval.approved = true
	content, err := f.svc.Content(ctx, uuid.New(), id)
	require.NoError(t, err)
	assert.Equal(t, id, content.Course.ID)
}

func TestValidateQuiz(t *testing.T) {
	validQuestion := func() models.Question {
		return models.Question{
			Text: "q",
			Options: []models.Option{
				{Text: "a", IsCorrect: true},
				{Text: "b"},
			},
		}
	}

	t.Run("valid quiz gets ids assigned", func(t *testing.T) {
		quiz := models.Quiz{Title: "t", Questions: []models.Question{validQuestion()}}
		require.NoError(t, ValidateQuiz(&quiz))
		assert.NotEqual(t, uuid.Nil, quiz.Questions[0].ID)
		assert.NotEqual(t, uuid.Nil, quiz.Questions[0].Options[0].ID)
	})

	t.Run("existing ids are kept", func(t *testing.T) {
		q := validQuestion()
		q.ID = uuid.New()
		quiz := models.Quiz{Title: "t", Questions: []models.Question{q}}
		require.NoError(t, ValidateQuiz(&quiz))
		assert.Equal(t, q.ID, quiz.Questions[0].ID)
	})

	t.Run("no questions", func(t *testing.T) {
		quiz := models.Quiz{Title: "t"}
		assert.ErrorIs(t, ValidateQuiz(&quiz), app_errors.ErrQuestionNoCorrectOption)
	})

	t.Run("question without correct option", func(t *testing.T) {
		quiz := models.Quiz{Title: "t", Questions: []models.Question{{
			Text: "q",
			Options: []models.Option{
				{Text: "a"},
				{Text: "b"},
			},
		}}}
		assert.ErrorIs(t, ValidateQuiz(&quiz), app_errors.ErrQuestionNoCorrectOption)
	})

	t.Run("question with several correct options", func(t *testing.T) {
		quiz := models.Quiz{Title: "t", Questions: []models.Question{{
			Text: "q",
			Options: []models.Option{
				{Text: "a", IsCorrect: true},
				{Text: "b", IsCorrect: true},
			},
		}}}
		assert.ErrorIs(t, ValidateQuiz(&quiz), app_errors.ErrQuestionNoCorrectOption)
	})

	t.Run("question with a single option", func(t *testing.T) {
		quiz := models.Quiz{Title: "t", Questions: []models.Question{{
			Text:    "q",
			Options: []models.Option{{Text: "a", IsCorrect: true}},
		}}}
		assert.ErrorIs(t, ValidateQuiz(&quiz), app_errors.ErrQuestionNoCorrectOption)
	})
}
