package reconcile

import (
	"context"
	"net/http"

	"github.com/dapphari007/leavemon-sub001/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	engine *Engine
	logger *zap.Logger
}

func NewHandler(engine *Engine, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("reconcile.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reconcile.handler")
	}
	return &Handler{engine: engine, logger: l}
}

func (h *Handler) FixAllRelationships(c *gin.Context) {
	results, ok := h.engine.FixAllRelationships(c.Request.Context())

	payload := gin.H{"success": ok, "results": results}
	if !ok {
		response.Error(c, http.StatusInternalServerError, "RECONCILIATION_FAILED", "one or more repair passes failed", payload)
		return
	}

	response.Success(c, http.StatusOK, payload, nil)
}

func (h *Handler) SyncPositions(c *gin.Context) {
	h.runSinglePass(c, h.engine.SyncPositions)
}

func (h *Handler) FixDepartmentHierarchies(c *gin.Context) {
	h.runSinglePass(c, h.engine.FixDepartmentHierarchies)
}

func (h *Handler) FixUserPositions(c *gin.Context) {
	h.runSinglePass(c, h.engine.FixUserPositions)
}

func (h *Handler) FixApprovalWorkflows(c *gin.Context) {
	h.runSinglePass(c, h.engine.FixApprovalWorkflows)
}

func (h *Handler) runSinglePass(c *gin.Context, pass func(context.Context) PassResult) {
	result := pass(c.Request.Context())

	if !result.Success {
		response.Error(c, http.StatusInternalServerError, "RECONCILIATION_FAILED", result.Message, result)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}
