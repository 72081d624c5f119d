package rbac

import (
	"net/http"
	"strings"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	if !req.Role.Valid() || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "role, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		h.logger.Error("rbac enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{
		Allowed: allowed,
	}, nil)
}

// Permissions lists what the calling principal's role may do.
func (h *Handler) Permissions(c *gin.Context) {
	role := ParseRole(c.GetString("role"))

	perms, err := h.service.Permissions(role)
	if err != nil {
		h.logger.Error("rbac list permissions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": role, "permissions": perms}, nil)
}
