package handlers

import (
	"net/http"
	"strings"

	"cardputer_radio/internal/models"
	"cardputer_radio/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxOperator = "operator"

	errMissingAuth = "missing Authorization header"
	errAuthFormat  = "invalid Authorization header format"
	errBadToken    = "invalid or expired token"
)

// requireOperator rejects requests without a valid bearer token. The
// operator is attached to the request context so radio commands issued by
// the handler are attributed to them.
func (h *Handler) requireOperator(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAuth})
		return
	}
	h.authenticate(c)
}

// optionalOperator authenticates only when a token is sent, so the first
// operator can sign up without one.
func (h *Handler) optionalOperator(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.Next()
		return
	}
	h.authenticate(c)
}

func (h *Handler) authenticate(c *gin.Context) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthFormat})
		return
	}

	actor, err := h.services.ParseToken(strings.TrimSpace(token))
	if err != nil {
		h.log.Debugw("token_rejected", "err", err, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	c.Set(ctxOperator, actor)
	c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
	c.Next()
}

// operatorFrom returns the operator set by requireOperator, if any.
func operatorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ctxOperator)
	if !ok {
		return models.Actor{}, false
	}
	a, ok := v.(models.Actor)
	return a, ok
}
