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

type ReviewService interface {
	Submit(ctx context.Context, userID, courseID uuid.UUID, rating int, comment string) (*models.Review, error)
	ForCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewHandler struct {
	log     logger.Log
	service ReviewService
}

func NewReviewHandler(l logger.Log, s ReviewService) *ReviewHandler {
	return &ReviewHandler{
		log:     l,
		service: s,
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Submit(c *gin.Context) {
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
	var input reviewRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.service.Submit(c.Request.Context(), userID, courseID, input.Rating, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrNotApproved):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("review submit failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit review"})
		}
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ForCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	reviews, err := h.service.ForCourse(c.Request.Context(), courseID)
	if err != nil {
		h.log.ErrorErr("review listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) ListAll(c *gin.Context) {
	reviews, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.log.ErrorErr("review listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("review_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review_id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), reviewID); err != nil {
		if errors.Is(err, app_errors.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("review delete failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
