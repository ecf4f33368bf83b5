package leaverequest

import (
	"net/http"
	"strconv"

	"github.com/dapphari007/leavemon-sub001/internal/shared/apperror"
	"github.com/dapphari007/leavemon-sub001/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaverequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.handler")
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
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorFromContext(c *gin.Context) (uuid.UUID, string, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, c.GetString("role"), true
}

func (h *Handler) Submit(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	var req CreateLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, DecisionApprove)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, DecisionReject)
}

func (h *Handler) decide(c *gin.Context, decision string) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), c.Param("id"), actorID, role, decision, req.Comment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"), actorID, role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRequests(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	resp, err := h.service.GetRequests(c.Request.Context(), actorID, role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPendingApprovals(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	resp, err := h.service.GetPendingApprovals(c.Request.Context(), actorID, role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpsertBalance(c *gin.Context) {
	var req UpsertBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.UpsertBalance(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMyBalances(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Sesi tidak valid", nil)
		return
	}

	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
		year = v
	}

	resp, err := h.service.GetBalances(c.Request.Context(), actorID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
