package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultPassingScore = 70

// NoCorrectAnswerLabel is reported for a question whose options carry no
// correct flag at all. Such a question can never be scored correct.
const NoCorrectAnswerLabel = "No correct answer specified"

type Quiz struct {
	ID           uuid.UUID  `json:"id"`
	CourseID     uuid.UUID  `json:"course_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PassingScore int        `json:"passing_score"`
	Questions    []Question `json:"questions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Question struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Options []Option  `json:"options"`
}

type Option struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
}

// CorrectOption returns the option flagged correct, or nil when the
// question has none.
func (q Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func (q Quiz) EffectivePassingScore() int {
	if q.PassingScore <= 0 {
		return DefaultPassingScore
	}
	return q.PassingScore
}

type QuizAttempt struct {
	ID               uuid.UUID `json:"id"`
	QuizID           uuid.UUID `json:"quiz_id"`
	UserID           uuid.UUID `json:"user_id"`
	Score            int       `json:"score"`
	Passed           bool      `json:"passed"`
	TotalTimeSeconds int       `json:"total_time_seconds"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// QuestionResult is the per-question breakdown returned on submit.
type QuestionResult struct {
	QuestionID   uuid.UUID `json:"question_id"`
	QuestionText string    `json:"question_text"`
	SelectedText string    `json:"selected_text"`
	CorrectText  string    `json:"correct_text"`
	Correct      bool      `json:"correct"`
	TimeSeconds  int       `json:"time_seconds"`
}

type AttemptResult struct {
	Attempt   QuizAttempt      `json:"attempt"`
	Questions []QuestionResult `json:"questions"`
}
