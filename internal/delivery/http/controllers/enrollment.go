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

type EnrollmentService interface {
	Submit(ctx context.Context, courseID uuid.UUID, student models.StudentInfo, paymentMethod string) (*models.EnrollmentRecord, error)
	Decide(ctx context.Context, recordID uuid.UUID, decision, reason string) (*models.EnrollmentRecord, error)
	BulkDecide(ctx context.Context, recordIDs []uuid.UUID, decision, reason string) []models.DecisionResult
	StatusOf(ctx context.Context, userID, courseID uuid.UUID) (string, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentRecord, error)
	PendingApprovals(ctx context.Context) ([]models.EnrollmentRecord, error)
	Purge(ctx context.Context, recordIDs []uuid.UUID) (int64, error)
}

type userLookup interface {
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
	users   userLookup
}

func NewEnrollmentHandler(l logger.Log, s EnrollmentService, u userLookup) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:     l,
		service: s,
		users:   u,
	}
}

type enrollRequest struct {
	CourseID      string `json:"course_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var input enrollRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	courseID, err := uuid.Parse(input.CourseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	user, err := h.users.User(c.Request.Context(), userID)
	if err != nil {
		h.log.ErrorErr("enroll: user lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rec, err := h.service.Submit(c.Request.Context(), courseID, models.StudentInfo{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, input.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound), errors.Is(err, app_errors.ErrCourseNotPublished):
			c.JSON(http.StatusNotFound, gin.H{"error": app_errors.ErrCourseNotFound.Error()})
		case errors.Is(err, app_errors.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("enroll failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not enroll"})
		}
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	records, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.log.ErrorErr("list enrollments failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list enrollments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": records})
}

func (h *EnrollmentHandler) EnrollmentStatus(c *gin.Context) {
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

	status, err := h.service.StatusOf(c.Request.Context(), userID, courseID)
	if err != nil {
		h.log.ErrorErr("enrollment status failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
