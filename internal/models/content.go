package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ItemVideo = "video"
	ItemNote  = "note"
	ItemQuiz  = "quiz"
)

type Video struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ObjectKey       string    `json:"object_key"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Note struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ObjectKey string    `json:"object_key"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseContent is what an approved student sees for a course: every
// video, note and quiz in one payload, media behind presigned URLs.
type CourseContent struct {
	Course  CoursePreview `json:"course"`
	Videos  []VideoDetail `json:"videos"`
	Notes   []NoteDetail  `json:"notes"`
	Quizzes []Quiz        `json:"quizzes"`
}

type VideoDetail struct {
	Video
	URL string `json:"url"`
}

type NoteDetail struct {
	Note
	URL string `json:"url,omitempty"`
}
