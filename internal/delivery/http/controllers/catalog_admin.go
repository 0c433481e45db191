package controllers

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/models"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type courseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"min=0"`
}

func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var input courseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.CreateCourse(c.Request.Context(), models.Course{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
	})
	if err != nil {
		h.log.ErrorErr("create course failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create course"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input courseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.UpdateCourse(c.Request.Context(), models.Course{
		ID:          courseID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
	})
	if err != nil {
		h.courseError(c, "update course failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course updated"})
}

func (h *CatalogHandler) PublishCourse(c *gin.Context) {
	h.changeCourseStatus(c, h.service.PublishCourse, "course published")
}

func (h *CatalogHandler) HideCourse(c *gin.Context) {
	h.changeCourseStatus(c, h.service.HideCourse, "course hidden")
}

func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	h.changeCourseStatus(c, h.service.DeleteCourse, "course deleted")
}

func (h *CatalogHandler) ListAllCourses(c *gin.Context) {
	courses, err := h.service.ListAllCourses(c.Request.Context())
	if err != nil {
		h.log.ErrorErr("list courses failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list courses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CatalogHandler) UploadCourseLogo(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read logo file"})
		return
	}
	defer file.Close()

	err = h.service.UploadLogo(
		c.Request.Context(),
		courseID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrNotImage), errors.Is(err, app_errors.ErrFileSize):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("logo upload failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not upload logo"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logo uploaded"})
}

type videoRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"duration_seconds" binding:"min=0"`
}

func (h *CatalogHandler) AddVideo(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input videoRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.AddVideo(c.Request.Context(), models.Video{
		CourseID:        courseID,
		Title:           input.Title,
		Description:     input.Description,
		DurationSeconds: input.DurationSeconds,
	})
	if err != nil {
		h.courseError(c, "add video failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CatalogHandler) UpdateVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video_id"})
		return
	}
	var input videoRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.UpdateVideo(c.Request.Context(), models.Video{
		ID:              videoID,
		Title:           input.Title,
		Description:     input.Description,
		DurationSeconds: input.DurationSeconds,
	})
	if err != nil {
		h.contentError(c, "update video failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video updated"})
}

func (h *CatalogHandler) DeleteVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video_id"})
		return
	}
	if err := h.service.DeleteVideo(c.Request.Context(), videoID); err != nil {
		h.contentError(c, "delete video failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}

func (h *CatalogHandler) UploadVideoFile(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("video_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video_id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	err = h.service.UploadVideoFile(
		c.Request.Context(),
		videoID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.contentError(c, "video upload failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video uploaded"})
}

type noteRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
	Pages int    `json:"pages" binding:"min=0"`
}

func (h *CatalogHandler) AddNote(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input noteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.AddNote(c.Request.Context(), models.Note{
		CourseID: courseID,
		Title:    input.Title,
		Body:     input.Body,
		Pages:    input.Pages,
	})
	if err != nil {
		h.courseError(c, "add note failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CatalogHandler) UpdateNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("note_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note_id"})
		return
	}
	var input noteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.service.UpdateNote(c.Request.Context(), models.Note{
		ID:    noteID,
		Title: input.Title,
		Body:  input.Body,
		Pages: input.Pages,
	})
	if err != nil {
		h.contentError(c, "update note failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note updated"})
}

func (h *CatalogHandler) DeleteNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("note_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note_id"})
		return
	}
	if err := h.service.DeleteNote(c.Request.Context(), noteID); err != nil {
		h.contentError(c, "delete note failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

func (h *CatalogHandler) UploadNoteFile(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("note_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note_id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	err = h.service.UploadNoteFile(
		c.Request.Context(),
		noteID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.contentError(c, "note upload failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note file uploaded"})
}

type quizOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type quizQuestionRequest struct {
	Text    string              `json:"text" binding:"required"`
	Options []quizOptionRequest `json:"options" binding:"required"`
}

type quizRequest struct {
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description"`
	PassingScore int                   `json:"passing_score" binding:"min=0,max=100"`
	Questions    []quizQuestionRequest `json:"questions" binding:"required"`
}

func (r quizRequest) toModel() models.Quiz {
	quiz := models.Quiz{
		Title:        r.Title,
		Description:  r.Description,
		PassingScore: r.PassingScore,
		Questions:    make([]models.Question, 0, len(r.Questions)),
	}
	for _, q := range r.Questions {
		question := models.Question{
			Text:    q.Text,
			Options: make([]models.Option, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.Option{
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

func (h *CatalogHandler) AddQuiz(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input quizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz := input.toModel()
	quiz.CourseID = courseID
	id, err := h.service.AddQuiz(c.Request.Context(), quiz)
	if err != nil {
		if errors.Is(err, app_errors.ErrQuestionNoCorrectOption) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.courseError(c, "add quiz failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CatalogHandler) UpdateQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}
	var input quizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz := input.toModel()
	quiz.ID = quizID
	if err := h.service.UpdateQuiz(c.Request.Context(), quiz); err != nil {
		if errors.Is(err, app_errors.ErrQuestionNoCorrectOption) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.contentError(c, "update quiz failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz updated"})
}

func (h *CatalogHandler) DeleteQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}
	if err := h.service.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		h.contentError(c, "delete quiz failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz deleted"})
}

func (h *CatalogHandler) changeCourseStatus(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error, message string) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	if err := op(c.Request.Context(), courseID); err != nil {
		h.courseError(c, "course status change failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *CatalogHandler) courseError(c *gin.Context, msg string, err error) {
	if errors.Is(err, app_errors.ErrCourseNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.log.ErrorErr(msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *CatalogHandler) contentError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, app_errors.ErrVideoNotFound),
		errors.Is(err, app_errors.ErrNoteNotFound),
		errors.Is(err, app_errors.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.ErrorErr(msg, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
