package catalog

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

func (s *Service) AddVideo(ctx context.Context, video models.Video) (uuid.UUID, error) {
	if _, err := s.courseRepo.CourseByID(ctx, video.CourseID); err != nil {
		return uuid.Nil, err
	}
	id, err := s.videoRepo.CreateVideo(ctx, &video)
	if err != nil {
		return uuid.Nil, fmt.Errorf("add video: %w", err)
	}
	s.invalidateCatalog(ctx)
	return id, nil
}

func (s *Service) UpdateVideo(ctx context.Context, video models.Video) error {
	return s.videoRepo.UpdateVideo(ctx, &video)
}

func (s *Service) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	video, err := s.videoRepo.VideoByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.videoRepo.DeleteVideo(ctx, id); err != nil {
		return err
	}
	s.deleteMedia(ctx, video.ObjectKey)
	s.invalidateCatalog(ctx)
	return nil
}

func (s *Service) UploadVideoFile(ctx context.Context, videoID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error {
	video, err := s.videoRepo.VideoByID(ctx, videoID)
	if err != nil {
		return err
	}
	key, err := s.mediaRepo.UploadVideo(ctx, video.CourseID, videoID, filename, reader, size, contentType)
	if err != nil {
		return fmt.Errorf("upload video file: %w", err)
	}
	old := video.ObjectKey
	video.ObjectKey = key
	if err := s.videoRepo.UpdateVideo(ctx, video); err != nil {
		return err
	}
	if old != "" && old != key {
		s.deleteMedia(ctx, old)
	}
	return nil
}

func (s *Service) AddNote(ctx context.Context, note models.Note) (uuid.UUID, error) {
	if _, err := s.courseRepo.CourseByID(ctx, note.CourseID); err != nil {
		return uuid.Nil, err
	}
	id, err := s.noteRepo.CreateNote(ctx, &note)
	if err != nil {
		return uuid.Nil, fmt.Errorf("add note: %w", err)
	}
	s.invalidateCatalog(ctx)
	return id, nil
}

func (s *Service) UpdateNote(ctx context.Context, note models.Note) error {
	return s.noteRepo.UpdateNote(ctx, &note)
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	note, err := s.noteRepo.NoteByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.noteRepo.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.deleteMedia(ctx, note.ObjectKey)
	s.invalidateCatalog(ctx)
	return nil
}

func (s *Service) UploadNoteFile(ctx context.Context, noteID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error {
	note, err := s.noteRepo.NoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	key, err := s.mediaRepo.UploadNoteFile(ctx, note.CourseID, noteID, filename, reader, size, contentType)
	if err != nil {
		return fmt.Errorf("upload note file: %w", err)
	}
	old := note.ObjectKey
	note.ObjectKey = key
	if err := s.noteRepo.UpdateNote(ctx, note); err != nil {
		return err
	}
	if old != "" && old != key {
		s.deleteMedia(ctx, old)
	}
	return nil
}

func (s *Service) AddQuiz(ctx context.Context, quiz models.Quiz) (uuid.UUID, error) {
	if _, err := s.courseRepo.CourseByID(ctx, quiz.CourseID); err != nil {
		return uuid.Nil, err
	}
	if err := ValidateQuiz(&quiz); err != nil {
		return uuid.Nil, err
	}
	id, err := s.quizRepo.CreateQuiz(ctx, &quiz)
	if err != nil {
		return uuid.Nil, fmt.Errorf("add quiz: %w", err)
	}
	s.invalidateCatalog(ctx)
	return id, nil
}

func (s *Service) UpdateQuiz(ctx context.Context, quiz models.Quiz) error {
	current, err := s.quizRepo.QuizByID(ctx, quiz.ID)
	if err != nil {
		return err
	}
	quiz.CourseID = current.CourseID
	if err := ValidateQuiz(&quiz); err != nil {
		return err
	}
	return s.quizRepo.UpdateQuiz(ctx, &quiz)
}

func (s *Service) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	if err := s.quizRepo.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *Service) QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return s.quizRepo.QuizByID(ctx, id)
}

// ValidateQuiz rejects quizzes that could never be scored sensibly.
// Every question needs at least two options and exactly one of them
// flagged correct. It also assigns IDs to questions and options that
// arrive without one, so stored quizzes are always addressable.
func ValidateQuiz(quiz *models.Quiz) error {
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz %q: %w", quiz.Title, app_errors.ErrQuestionNoCorrectOption)
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		correct := 0
		for j := range q.Options {
			if q.Options[j].ID == uuid.Nil {
				q.Options[j].ID = uuid.New()
			}
			if q.Options[j].IsCorrect {
				correct++
			}
		}
		if len(q.Options) < 2 || correct != 1 {
			return fmt.Errorf("question %q: %w", q.Text, app_errors.ErrQuestionNoCorrectOption)
		}
	}
	return nil
}
