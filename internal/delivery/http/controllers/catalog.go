package controllers

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/delivery/http/controllers/middleware"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogService interface {
	Catalog(ctx context.Context) ([]models.CoursePreview, error)
	CoursePreview(ctx context.Context, id uuid.UUID, includeHidden bool) (*models.CoursePreview, error)
	Search(ctx context.Context, query string, size int) ([]models.CoursePreview, error)
	Content(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseContent, error)

	CreateCourse(ctx context.Context, course models.Course) (uuid.UUID, error)
	UpdateCourse(ctx context.Context, course models.Course) error
	PublishCourse(ctx context.Context, id uuid.UUID) error
	HideCourse(ctx context.Context, id uuid.UUID) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	ListAllCourses(ctx context.Context) ([]models.Course, error)
	UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error

	AddVideo(ctx context.Context, video models.Video) (uuid.UUID, error)
	UpdateVideo(ctx context.Context, video models.Video) error
	DeleteVideo(ctx context.Context, id uuid.UUID) error
	UploadVideoFile(ctx context.Context, videoID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error

	AddNote(ctx context.Context, note models.Note) (uuid.UUID, error)
	UpdateNote(ctx context.Context, note models.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
	UploadNoteFile(ctx context.Context, noteID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error

	AddQuiz(ctx context.Context, quiz models.Quiz) (uuid.UUID, error)
	UpdateQuiz(ctx context.Context, quiz models.Quiz) error
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
}

type CatalogHandler struct {
	log     logger.Log
	service CatalogService
}

func NewCatalogHandler(l logger.Log, s CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:     l,
		service: s,
	}
}

const defaultSearchSize = 20

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("query"); q != "" {
		size := defaultSearchSize
		if s := c.Query("limit"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			size = v
		}
		previews, err := h.service.Search(ctx, q, size)
		if err != nil {
			h.log.ErrorErr("course search failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search courses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": previews})
		return
	}

	previews, err := h.service.Catalog(ctx)
	if err != nil {
		h.log.ErrorErr("catalog listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch courses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": previews})
}

func (h *CatalogHandler) CourseByID(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	roles, _ := middleware.ClientRoles(c)
	includeHidden := false
	for _, r := range roles {
		if r == models.AdminRole {
			includeHidden = true
		}
	}

	preview, err := h.service.CoursePreview(c.Request.Context(), courseID, includeHidden)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) || errors.Is(err, app_errors.ErrCourseNotPublished) {
			c.JSON(http.StatusNotFound, gin.H{"error": app_errors.ErrCourseNotFound.Error()})
			return
		}
		h.log.ErrorErr("course preview failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch course"})
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *CatalogHandler) CourseContent(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	content, err := h.service.Content(c.Request.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotApproved):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("course content failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch content"})
		}
		return
	}
	c.JSON(http.StatusOK, content)
}
