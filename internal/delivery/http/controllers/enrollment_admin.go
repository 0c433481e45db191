package controllers

import (
	"CliniGoal/internal/app_errors"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *EnrollmentHandler) PendingApprovals(c *gin.Context) {
	records, err := h.service.PendingApprovals(c.Request.Context())
	if err != nil {
		h.log.ErrorErr("pending approvals failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list approvals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvals": records})
}

type decisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Reason   string `json:"reason"`
}

func (h *EnrollmentHandler) Decide(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("record_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record_id"})
		return
	}
	var input decisionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.service.Decide(c.Request.Context(), recordID, input.Decision, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrEnrollmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrEnrollmentDecided), errors.Is(err, app_errors.ErrEnrollmentConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("decision failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not apply decision"})
		}
		return
	}
	c.JSON(http.StatusOK, rec)
}

type bulkDecisionRequest struct {
	RecordIDs []string `json:"record_ids" binding:"required,min=1"`
	Decision  string   `json:"decision" binding:"required,oneof=approved rejected"`
	Reason    string   `json:"reason"`
}

func (h *EnrollmentHandler) BulkDecide(c *gin.Context) {
	var input bulkDecisionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := parseUUIDs(input.RecordIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.service.BulkDecide(c.Request.Context(), ids, input.Decision, input.Reason)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type purgeRequest struct {
	RecordIDs []string `json:"record_ids" binding:"required,min=1"`
}

func (h *EnrollmentHandler) Purge(c *gin.Context) {
	var input purgeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := parseUUIDs(input.RecordIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.service.Purge(c.Request.Context(), ids)
	if err != nil {
		h.log.ErrorErr("purge failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not purge records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New("invalid record id: " + s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
