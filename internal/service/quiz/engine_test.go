package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
)

type fakeQuizRepo struct {
	quizzes   map[uuid.UUID]*models.Quiz
	attempts  []models.QuizAttempt
	createErr error // returned once by the next CreateAttempt
}

func (f *fakeQuizRepo) QuizByID(_ context.Context, id uuid.UUID) (*models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, app_errors.ErrQuizNotFound
	}
	return quiz, nil
}

func (f *fakeQuizRepo) CreateAttempt(_ context.Context, attempt *models.QuizAttempt) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeQuizRepo) LastAttempt(_ context.Context, quizID, userID uuid.UUID) (*models.QuizAttempt, error) {
	for i := len(f.attempts) - 1; i >= 0; i-- {
		if f.attempts[i].QuizID == quizID && f.attempts[i].UserID == userID {
			return &f.attempts[i], nil
		}
	}
	return nil, app_errors.ErrQuizNotStarted
}

type fakeApproval struct {
	approved bool
}

func (f *fakeApproval) IsApproved(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.approved, nil
}

type fakeProgress struct {
	passed []uuid.UUID
}

func (f *fakeProgress) QuizPassed(_ context.Context, _, _, quizID uuid.UUID) error {
	f.passed = append(f.passed, quizID)
	return nil
}

func twoOptionQuestion(text string, correctFirst bool) models.Question {
	return models.Question{
		ID:   uuid.New(),
		Text: text,
		Options: []models.Option{
			{ID: uuid.New(), Text: "first", IsCorrect: correctFirst},
			{ID: uuid.New(), Text: "second", IsCorrect: !correctFirst},
		},
	}
}

func newTestQuiz(passingScore int, questions ...models.Question) *models.Quiz {
	return &models.Quiz{
		ID:           uuid.New(),
		CourseID:     uuid.New(),
		Title:        "anatomy basics",
		PassingScore: passingScore,
		Questions:    questions,
	}
}

func correctAnswers(quiz *models.Quiz) map[uuid.UUID]uuid.UUID {
	answers := make(map[uuid.UUID]uuid.UUID)
	for _, q := range quiz.Questions {
		if co := q.CorrectOption(); co != nil {
			answers[q.ID] = co.ID
		}
	}
	return answers
}

func TestScore(t *testing.T) {
	q1 := twoOptionQuestion("q1", true)
	q2 := twoOptionQuestion("q2", false)

	t.Run("all correct scores 100", func(t *testing.T) {
		quiz := newTestQuiz(0, q1, q2)
		result := Score(quiz, correctAnswers(quiz), nil)

		assert.Equal(t, 100, result.Attempt.Score)
		assert.True(t, result.Attempt.Passed)
	})

	t.Run("one of two scores 50 and fails default threshold", func(t *testing.T) {
		quiz := newTestQuiz(0, q1, q2)
		answers := map[uuid.UUID]uuid.UUID{q1.ID: q1.Options[0].ID}
		result := Score(quiz, answers, nil)

		assert.Equal(t, 50, result.Attempt.Score)
		assert.False(t, result.Attempt.Passed)
	})

	t.Run("custom passing score", func(t *testing.T) {
		quiz := newTestQuiz(50, q1, q2)
		answers := map[uuid.UUID]uuid.UUID{q1.ID: q1.Options[0].ID}
		result := Score(quiz, answers, nil)

		assert.Equal(t, 50, result.Attempt.Score)
		assert.True(t, result.Attempt.Passed)
	})

	t.Run("two of three rounds to 67", func(t *testing.T) {
		q3 := twoOptionQuestion("q3", true)
		quiz := newTestQuiz(0, q1, q2, q3)
		answers := correctAnswers(quiz)
		delete(answers, q3.ID)
		result := Score(quiz, answers, nil)

		assert.Equal(t, 67, result.Attempt.Score)
		assert.False(t, result.Attempt.Passed)
	})

	t.Run("no answers scores zero", func(t *testing.T) {
		quiz := newTestQuiz(0, q1, q2)
		result := Score(quiz, nil, nil)

		assert.Equal(t, 0, result.Attempt.Score)
		assert.False(t, result.Attempt.Passed)
	})

	t.Run("question without correct option is labeled and never correct", func(t *testing.T) {
		broken := models.Question{
			ID:   uuid.New(),
			Text: "broken",
			Options: []models.Option{
				{ID: uuid.New(), Text: "a"},
				{ID: uuid.New(), Text: "b"},
			},
		}
		quiz := newTestQuiz(0, broken)
		answers := map[uuid.UUID]uuid.UUID{broken.ID: broken.Options[0].ID}
		result := Score(quiz, answers, nil)

		require.Len(t, result.Questions, 1)
		assert.Equal(t, models.NoCorrectAnswerLabel, result.Questions[0].CorrectText)
		assert.False(t, result.Questions[0].Correct)
		assert.Equal(t, 0, result.Attempt.Score)
	})

	t.Run("scoring is repeatable", func(t *testing.T) {
		quiz := newTestQuiz(0, q1, q2)
		answers := correctAnswers(quiz)

		first := Score(quiz, answers, nil)
		second := Score(quiz, answers, nil)

		assert.Equal(t, first.Attempt.Score, second.Attempt.Score)
		assert.Equal(t, first.Attempt.Passed, second.Attempt.Passed)
		assert.Equal(t, first.Questions, second.Questions)
	})
}

func newTestEngine(repo *fakeQuizRepo, approval *fakeApproval, progress *fakeProgress) *Engine {
	return NewEngine(logger.NewNop(), repo, approval, progress)
}

func TestEngineFlow(t *testing.T) {
	ctx := context.Background()
	q1 := twoOptionQuestion("q1", true)
	q2 := twoOptionQuestion("q2", false)
	quiz := newTestQuiz(0, q1, q2)

	repo := &fakeQuizRepo{quizzes: map[uuid.UUID]*models.Quiz{quiz.ID: quiz}}
	progress := &fakeProgress{}
	engine := newTestEngine(repo, &fakeApproval{approved: true}, progress)

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return clock }

	userID := uuid.New()
	started, err := engine.Start(ctx, userID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, started.ID)

	// 5s thinking about q1, then 7s about q2
	clock = clock.Add(5 * time.Second)
	require.NoError(t, engine.SelectAnswer(userID, q1.ID, q1.Options[0].ID))
	clock = clock.Add(7 * time.Second)
	require.NoError(t, engine.SelectAnswer(userID, q2.ID, q2.Options[1].ID))

	result, err := engine.Submit(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Attempt.Score)
	assert.True(t, result.Attempt.Passed)
	assert.Equal(t, 12, result.Attempt.TotalTimeSeconds)

	times := map[uuid.UUID]int{}
	for _, qr := range result.Questions {
		times[qr.QuestionID] = qr.TimeSeconds
	}
	assert.Equal(t, 5, times[q1.ID])
	assert.Equal(t, 7, times[q2.ID])

	require.Len(t, repo.attempts, 1)
	assert.Equal(t, userID, repo.attempts[0].UserID)
	require.Len(t, progress.passed, 1)
	assert.Equal(t, quiz.ID, progress.passed[0])

	// session is gone after submit
	_, err = engine.Submit(ctx, userID)
	assert.ErrorIs(t, err, app_errors.ErrQuizNotStarted)
}

func TestEngineTimeFollowsAnswerChanges(t *testing.T) {
	ctx := context.Background()
	q1 := twoOptionQuestion("q1", true)
	q2 := twoOptionQuestion("q2", true)
	quiz := newTestQuiz(0, q1, q2)

	repo := &fakeQuizRepo{quizzes: map[uuid.UUID]*models.Quiz{quiz.ID: quiz}}
	engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return clock }

	userID := uuid.New()
	_, err := engine.Start(ctx, userID, quiz.ID)
	require.NoError(t, err)

	// answer q1, revisit it 4s later, then take 3s on q2
	clock = clock.Add(2 * time.Second)
	require.NoError(t, engine.SelectAnswer(userID, q1.ID, q1.Options[1].ID))
	clock = clock.Add(4 * time.Second)
	require.NoError(t, engine.SelectAnswer(userID, q1.ID, q1.Options[0].ID))
	clock = clock.Add(3 * time.Second)
	require.NoError(t, engine.SelectAnswer(userID, q2.ID, q2.Options[0].ID))

	result, err := engine.Submit(ctx, userID)
	require.NoError(t, err)

	times := map[uuid.UUID]int{}
	for _, qr := range result.Questions {
		times[qr.QuestionID] = qr.TimeSeconds
	}
	assert.Equal(t, 6, times[q1.ID])
	assert.Equal(t, 3, times[q2.ID])
}

func TestEngineGuards(t *testing.T) {
	ctx := context.Background()
	quizA := newTestQuiz(0, twoOptionQuestion("a", true))
	quizB := newTestQuiz(0, twoOptionQuestion("b", true))
	repo := &fakeQuizRepo{quizzes: map[uuid.UUID]*models.Quiz{
		quizA.ID: quizA,
		quizB.ID: quizB,
	}}

	t.Run("unapproved user cannot start", func(t *testing.T) {
		engine := newTestEngine(repo, &fakeApproval{approved: false}, &fakeProgress{})
		_, err := engine.Start(ctx, uuid.New(), quizA.ID)
		assert.ErrorIs(t, err, app_errors.ErrNotApproved)
	})

	t.Run("second quiz while first in progress", func(t *testing.T) {
		engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})
		userID := uuid.New()
		_, err := engine.Start(ctx, userID, quizA.ID)
		require.NoError(t, err)
		_, err = engine.Start(ctx, userID, quizB.ID)
		assert.ErrorIs(t, err, app_errors.ErrQuizInProgress)
	})

	t.Run("restarting the same quiz clears answers", func(t *testing.T) {
		engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})
		userID := uuid.New()
		q := quizA.Questions[0]

		_, err := engine.Start(ctx, userID, quizA.ID)
		require.NoError(t, err)
		require.NoError(t, engine.SelectAnswer(userID, q.ID, q.Options[0].ID))

		_, err = engine.Start(ctx, userID, quizA.ID)
		require.NoError(t, err)

		result, err := engine.Submit(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Attempt.Score)
	})

	t.Run("answer for unknown question", func(t *testing.T) {
		engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})
		userID := uuid.New()
		_, err := engine.Start(ctx, userID, quizA.ID)
		require.NoError(t, err)
		err = engine.SelectAnswer(userID, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, app_errors.ErrUnknownQuestion)
	})

	t.Run("answer without session", func(t *testing.T) {
		engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})
		err := engine.SelectAnswer(uuid.New(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, app_errors.ErrQuizNotStarted)
	})

	t.Run("reset abandons the session", func(t *testing.T) {
		engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})
		userID := uuid.New()
		_, err := engine.Start(ctx, userID, quizA.ID)
		require.NoError(t, err)

		engine.Reset(userID)

		_, err = engine.Submit(ctx, userID)
		assert.ErrorIs(t, err, app_errors.ErrQuizNotStarted)
	})
}

func TestSubmitKeepsSessionWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	q1 := twoOptionQuestion("q1", true)
	quiz := newTestQuiz(0, q1)

	repo := &fakeQuizRepo{quizzes: map[uuid.UUID]*models.Quiz{quiz.ID: quiz}}
	engine := newTestEngine(repo, &fakeApproval{approved: true}, &fakeProgress{})

	userID := uuid.New()
	_, err := engine.Start(ctx, userID, quiz.ID)
	require.NoError(t, err)
	require.NoError(t, engine.SelectAnswer(userID, q1.ID, q1.Options[0].ID))

	repo.createErr = errors.New("insert failed")
	_, err = engine.Submit(ctx, userID)
	require.Error(t, err)
	assert.Empty(t, repo.attempts)

	// answers survive the failed write, resubmitting scores them again
	result, err := engine.Submit(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Attempt.Score)
	require.Len(t, repo.attempts, 1)

	_, err = engine.Submit(ctx, userID)
	assert.ErrorIs(t, err, app_errors.ErrQuizNotStarted)
}
