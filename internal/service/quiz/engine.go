package quiz

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

type quizRepo interface {
	QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	LastAttempt(ctx context.Context, quizID, userID uuid.UUID) (*models.QuizAttempt, error)
}

type approvalChecker interface {
	IsApproved(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type progressMarker interface {
	QuizPassed(ctx context.Context, userID, courseID, quizID uuid.UUID) error
}

// session is one timed pass through a quiz. All timing is derived from a
// monotonic start instant; nothing ticks in the background, so there is
// no timer to leak on any exit path.
type session struct {
	quiz        *models.Quiz
	answers     map[uuid.UUID]uuid.UUID
	timeSpent   map[uuid.UUID]int
	startedAt   time.Time
	lastEventAt time.Time
}

// Engine runs quiz attempts. One quiz in progress per user; starting the
// same quiz again restarts it, starting a different one fails.
type Engine struct {
	log      logger.Log
	quizzes  quizRepo
	approval approvalChecker
	progress progressMarker

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

func NewEngine(l logger.Log, quizzes quizRepo, approval approvalChecker, progress progressMarker) *Engine {
	return &Engine{
		log:      l,
		quizzes:  quizzes,
		approval: approval,
		progress: progress,
		sessions: make(map[uuid.UUID]*session),
		now:      time.Now,
	}
}

// Start opens a session for the quiz, clearing any prior answers for it.
func (e *Engine) Start(ctx context.Context, userID, quizID uuid.UUID) (*models.Quiz, error) {
	quiz, err := e.quizzes.QuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	approved, err := e.approval.IsApproved(ctx, userID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, app_errors.ErrNotApproved
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.sessions[userID]; ok && existing.quiz.ID != quizID {
		return nil, app_errors.ErrQuizInProgress
	}

	now := e.now()
	e.sessions[userID] = &session{
		quiz:        quiz,
		answers:     make(map[uuid.UUID]uuid.UUID),
		timeSpent:   make(map[uuid.UUID]int),
		startedAt:   now,
		lastEventAt: now,
	}
	return quiz, nil
}

// SelectAnswer records one answer, overwriting any prior choice for the
// question. Elapsed time since the previous selection (or start) is
// attributed to the question being answered now.
func (e *Engine) SelectAnswer(userID, questionID, optionID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.sessions[userID]
	if !ok {
		return app_errors.ErrQuizNotStarted
	}

	known := false
	for _, q := range sess.quiz.Questions {
		if q.ID == questionID {
			known = true
			break
		}
	}
	if !known {
		return app_errors.ErrUnknownQuestion
	}

	now := e.now()
	sess.timeSpent[questionID] += int(now.Sub(sess.lastEventAt).Seconds())
	sess.lastEventAt = now
	sess.answers[questionID] = optionID
	return nil
}

// Submit scores the session and persists the attempt. Unanswered
// questions count as wrong; client-side the submit button is gated, but
// the engine tolerates partial answer maps.
func (e *Engine) Submit(ctx context.Context, userID uuid.UUID) (*models.AttemptResult, error) {
	e.mu.Lock()
	sess, ok := e.sessions[userID]
	if !ok {
		e.mu.Unlock()
		return nil, app_errors.ErrQuizNotStarted
	}
	quiz := sess.quiz
	answers := make(map[uuid.UUID]uuid.UUID, len(sess.answers))
	for k, v := range sess.answers {
		answers[k] = v
	}
	timeSpent := make(map[uuid.UUID]int, len(sess.timeSpent))
	for k, v := range sess.timeSpent {
		timeSpent[k] = v
	}
	totalTime := int(e.now().Sub(sess.startedAt).Seconds())
	e.mu.Unlock()

	result := Score(quiz, answers, timeSpent)
	result.Attempt.UserID = userID
	result.Attempt.TotalTimeSeconds = totalTime
	result.Attempt.SubmittedAt = time.Now().UTC()

	// The session is dropped only once the attempt row lands: a failed
	// insert keeps the answers so the student can submit again.
	if err := e.quizzes.CreateAttempt(ctx, &result.Attempt); err != nil {
		return nil, err
	}

	e.mu.Lock()
	delete(e.sessions, userID)
	e.mu.Unlock()

	if result.Attempt.Passed {
		if err := e.progress.QuizPassed(ctx, userID, quiz.CourseID, quiz.ID); err != nil {
			e.log.ErrorErr("failed to record passed quiz", err,
				"quiz_id", quiz.ID.String(),
			)
		}
	}
	return result, nil
}

// Reset abandons any session. A dropped quiz leaves no record.
func (e *Engine) Reset(userID uuid.UUID) {
	e.mu.Lock()
	delete(e.sessions, userID)
	e.mu.Unlock()
}

func (e *Engine) LastResult(ctx context.Context, userID, quizID uuid.UUID) (*models.QuizAttempt, error) {
	return e.quizzes.LastAttempt(ctx, quizID, userID)
}

// Score computes the attempt result for an answer map. It is a pure
// function of its inputs: calling it twice with the same answers yields
// the same score and verdict.
func Score(quiz *models.Quiz, answers map[uuid.UUID]uuid.UUID, timeSpent map[uuid.UUID]int) *models.AttemptResult {
	total := len(quiz.Questions)
	correct := 0
	questions := make([]models.QuestionResult, 0, total)

	for _, q := range quiz.Questions {
		qr := models.QuestionResult{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			TimeSeconds:  timeSpent[q.ID],
		}

		if co := q.CorrectOption(); co != nil {
			qr.CorrectText = co.Text
		} else {
			qr.CorrectText = models.NoCorrectAnswerLabel
		}

		if optionID, answered := answers[q.ID]; answered {
			for _, o := range q.Options {
				if o.ID == optionID {
					qr.SelectedText = o.Text
					// a question without a correct option can never match
					qr.Correct = o.IsCorrect
					break
				}
			}
		}
		if qr.Correct {
			correct++
		}
		questions = append(questions, qr)
	}

	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(correct) / float64(total)))
	}

	return &models.AttemptResult{
		Attempt: models.QuizAttempt{
			ID:     uuid.New(),
			QuizID: quiz.ID,
			Score:  score,
			Passed: score >= quiz.EffectivePassingScore(),
		},
		Questions: questions,
	}
}
