package leaverequest

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	// batasi burst submit/approve per user, bukan per IP
	requests.Use(middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		requests.POST("", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Submit)
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetRequests)
		requests.GET("/pending-approvals", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.GetPendingApprovals)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetByID)
		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Approve)
		requests.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Reject)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Cancel)
	}

	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "leave_balance", "read"), handler.GetMyBalances)
		balances.PUT("", middleware.RBACAuthorize(rbacService, "leave_balance", "write"), handler.UpsertBalance)
	}
}
