package reconcile

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the repair triggers. All of them mutate shared
// organizational state, so they sit behind the scripts/execute permission
// and the idempotency guard.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	scripts := r.Group("/scripts")
	scripts.Use(middleware.AuthMiddleware())
	scripts.Use(middleware.ExtractUserID())
	scripts.Use(middleware.RBACAuthorize(rbacService, "scripts", "execute"))
	if rdb != nil {
		scripts.Use(middleware.Idempotency(rdb))
	}
	{
		scripts.POST("/fix-all-relationships", handler.FixAllRelationships)
		scripts.POST("/sync-positions", handler.SyncPositions)
		scripts.POST("/fix-department-hierarchies", handler.FixDepartmentHierarchies)
		scripts.POST("/fix-user-positions", handler.FixUserPositions)
		scripts.POST("/fix-approval-workflows", handler.FixApprovalWorkflows)
	}
}
