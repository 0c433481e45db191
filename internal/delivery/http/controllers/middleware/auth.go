package middleware

import (
	"CliniGoal/internal/app_errors"
	"CliniGoal/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
)

type AuthService interface {
	AccessClaims(ctx context.Context, token string) (userID uuid.UUID, roles []string, err error)
}

type AuthMiddlewareProvider struct {
	log     logger.Log
	service AuthService
}

func NewAuthMiddlewareProvider(log logger.Log, s AuthService) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:     log,
		service: s,
	}
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID, roles, err := h.service.AccessClaims(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		h.log.Info("rejected access token", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(ClientIDCtx, userID)
	c.Set(ClientRolesCtx, roles)
	c.Next()
}

// ClientID reads the authenticated user id set by AuthMiddleware.
func ClientID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(ClientIDCtx)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

func ClientRoles(c *gin.Context) ([]string, bool) {
	raw, ok := c.Get(ClientRolesCtx)
	if !ok {
		return nil, false
	}
	roles, ok := raw.([]string)
	return roles, ok
}
