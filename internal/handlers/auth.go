package handlers

import (
	"errors"
	"net/http"

	"cardputer_radio/internal/repository"
	"cardputer_radio/internal/service"

	"github.com/gin-gonic/gin"
)

// authCredentials is the body of sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) bindCredentials(c *gin.Context) (authCredentials, bool) {
	var in authCredentials
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return in, false
	}
	return in, true
}

// @Summary      Register an operator
// @Description  The first operator may register without a token. After that
// @Description  an operator token is required unless auth.open_sign_up is set.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	in, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.signUpError(c, in.Username, err)
		return
	}

	by, _ := operatorFrom(c)
	h.log.Infow("operator_created", "id", id, "username", in.Username, "by", by.Username)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) signUpError(c *gin.Context, username string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSignUpClosed):
		h.log.Warnw("operator_sign_up_refused", "username", username)
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrOperatorExists):
		c.JSON(http.StatusConflict, gin.H{"error": "operator already exists"})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "sign-up failed", "operator_sign_up_failed", err, "username", username)
	}
}

// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	in, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.log.Infow("operator_sign_in_failed", "username", in.Username, "err", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Current operator
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Actor
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) whoAmI(c *gin.Context) {
	a, _ := operatorFrom(c)
	c.JSON(http.StatusOK, a)
}
