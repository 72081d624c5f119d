package auth

import (
	"net/http"
	"strings"
	"time"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

type Handler struct {
	service   Service
	cookieTTL time.Duration
	logger    *zap.Logger
}

func NewHandler(s Service, cookieTTL time.Duration, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, cookieTTL: cookieTTL, logger: l}
}

// isWebClient decides whether the token also goes into an HttpOnly cookie.
func isWebClient(c *gin.Context) bool {
	if v := c.GetHeader("X-Client-Type"); v != "" {
		return strings.EqualFold(v, "web")
	}
	return strings.Contains(c.GetHeader("User-Agent"), "Mozilla")
}

func (h *Handler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if isWebClient(c) {
		h.setTokenCookie(c, token, int(h.cookieTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         user,
		"access_token": token,
		"token_type":   "Bearer",
	}, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	response.Success(c, http.StatusOK, "Logout success.", nil)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Me(c *gin.Context) {
	principal := middleware.Principal(c)

	resp, err := h.service.GetMe(c.Request.Context(), principal.UserID.String())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
