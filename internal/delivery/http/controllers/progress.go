package controllers

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/internal/delivery/http/controllers/middleware"
	"CliniGoal/internal/models"
	"CliniGoal/pkg/logger"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgressService interface {
	VideoWatched(ctx context.Context, userID, courseID, videoID uuid.UUID) error
	NoteCompleted(ctx context.Context, userID, courseID, noteID uuid.UUID) error
	Progress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error)
	Certificates(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
}

type ProgressHandler struct {
	log     logger.Log
	service ProgressService
}

func NewProgressHandler(l logger.Log, s ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:     l,
		service: s,
	}
}

func (h *ProgressHandler) VideoWatched(c *gin.Context) {
	h.markCompleted(c, "video_id", h.service.VideoWatched)
}

func (h *ProgressHandler) NoteCompleted(c *gin.Context) {
	h.markCompleted(c, "note_id", h.service.NoteCompleted)
}

func (h *ProgressHandler) markCompleted(c *gin.Context, param string, op func(ctx context.Context, userID, courseID, itemID uuid.UUID) error) {
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
	itemID, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return
	}

	if err := op(c.Request.Context(), userID, courseID, itemID); err != nil {
		switch {
		case errors.Is(err, app_errors.ErrNotApproved):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrVideoNotFound), errors.Is(err, app_errors.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("progress update failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update progress"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "progress recorded"})
}

func (h *ProgressHandler) CourseProgress(c *gin.Context) {
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

	progress, err := h.service.Progress(c.Request.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrNotApproved) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("progress lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) Certificates(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	certs, err := h.service.Certificates(c.Request.Context(), userID)
	if err != nil {
		h.log.ErrorErr("certificate lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch certificates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}
