package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is immutable once issued.
type Certificate struct {
	CertificateID string    `json:"certificate_id"`
	UserID        uuid.UUID `json:"user_id"`
	CourseID      uuid.UUID `json:"course_id"`
	StudentName   string    `json:"student_name"`
	CourseTitle   string    `json:"course_title"`
	IssueDate     time.Time `json:"issue_date"`
}

type CourseProgress struct {
	CourseID        uuid.UUID `json:"course_id"`
	WatchedVideos   int       `json:"watched_videos"`
	CompletedNotes  int       `json:"completed_notes"`
	PassedQuizzes   int       `json:"passed_quizzes"`
	TotalVideos     int       `json:"total_videos"`
	TotalNotes      int       `json:"total_notes"`
	TotalQuizzes    int       `json:"total_quizzes"`
	Percent         int       `json:"percent"`
	CertificateID   string    `json:"certificate_id,omitempty"`
}
