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

type QuizService interface {
	Start(ctx context.Context, userID, quizID uuid.UUID) (*models.Quiz, error)
	SelectAnswer(userID, questionID, optionID uuid.UUID) error
	Submit(ctx context.Context, userID uuid.UUID) (*models.AttemptResult, error)
	Reset(userID uuid.UUID)
	LastResult(ctx context.Context, userID, quizID uuid.UUID) (*models.QuizAttempt, error)
}

type QuizHandler struct {
	log     logger.Log
	service QuizService
}

func NewQuizHandler(l logger.Log, s QuizService) *QuizHandler {
	return &QuizHandler{
		log:     l,
		service: s,
	}
}

// quizView is the student-facing quiz shape. Options lose their correct
// flag here; it must never reach the client before submit.
type quizView struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	PassingScore int                `json:"passing_score"`
	Questions    []quizQuestionView `json:"questions"`
}

type quizQuestionView struct {
	ID      uuid.UUID        `json:"id"`
	Text    string           `json:"text"`
	Options []quizOptionView `json:"options"`
}

type quizOptionView struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

func toQuizView(quiz *models.Quiz) quizView {
	view := quizView{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.EffectivePassingScore(),
		Questions:    make([]quizQuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		question := quizQuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: make([]quizOptionView, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, quizOptionView{ID: o.ID, Text: o.Text})
		}
		view.Questions = append(view.Questions, question)
	}
	return view
}

func (h *QuizHandler) Start(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}

	quiz, err := h.service.Start(c.Request.Context(), userID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrQuizNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotApproved):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrQuizInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("quiz start failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start quiz"})
		}
		return
	}
	c.JSON(http.StatusOK, toQuizView(quiz))
}

type answerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id" binding:"required"`
}

func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var input answerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	questionID, err := uuid.Parse(input.QuestionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question_id"})
		return
	}
	optionID, err := uuid.Parse(input.OptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid option_id"})
		return
	}

	if err := h.service.SelectAnswer(userID, questionID, optionID); err != nil {
		switch {
		case errors.Is(err, app_errors.ErrQuizNotStarted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrUnknownQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("answer select failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record answer"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "answer recorded"})
}

func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.Submit(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrQuizNotStarted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("quiz submit failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit quiz"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) Reset(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	h.service.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"message": "quiz reset"})
}

func (h *QuizHandler) LastResult(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}

	attempt, err := h.service.LastResult(c.Request.Context(), userID, quizID)
	if err != nil {
		if errors.Is(err, app_errors.ErrQuizNotStarted) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no attempt recorded"})
			return
		}
		h.log.ErrorErr("quiz result lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch result"})
		return
	}
	c.JSON(http.StatusOK, attempt)
}
