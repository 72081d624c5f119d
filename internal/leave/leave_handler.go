package leave

import (
	"context"
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actor := middleware.Principal(c)
	h.logger.Debug("http create leave", zap.String("user_id", actor.UserID.String()))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var q ListLeavesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), middleware.Principal(c), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if q.Page > 0 {
		page, meta := response.Paginate(resp, q.Page, q.PageSize)
		response.Success(c, http.StatusOK, page, &meta)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id")}, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.runCommand(c, "approve", h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.runCommand(c, "reject", h.service.Reject)
}

func (h *Handler) Reset(c *gin.Context) {
	h.runCommand(c, "reset", h.service.ResetToPending)
}

func (h *Handler) runCommand(
	c *gin.Context,
	name string,
	run func(context.Context, rbac.Principal, string, CommandRequest) (LeaveResponse, error),
) {
	var req CommandRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http leave command validation failed", zap.String("command", name), zap.Error(err))
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := run(c.Request.Context(), middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	resp, err := h.service.History(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) LatestHistory(c *gin.Context) {
	resp, err := h.service.LatestHistory(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
