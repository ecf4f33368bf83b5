package workflow

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	custom := r.Group("/custom-approval-workflows")
	custom.Use(middleware.AuthMiddleware())
	{
		custom.GET("", middleware.RBACAuthorize(rbacService, "workflow", "read"), handler.GetAll)
		custom.GET("/:id", middleware.RBACAuthorize(rbacService, "workflow", "read"), handler.GetByID)
		custom.POST("", middleware.RBACAuthorize(rbacService, "workflow", "write"), handler.Create)
		custom.PUT("/:id", middleware.RBACAuthorize(rbacService, "workflow", "write"), handler.Update)
		custom.DELETE("/:id", middleware.RBACAuthorize(rbacService, "workflow", "write"), handler.Delete)
		custom.POST("/initialize-defaults", middleware.RBACAuthorize(rbacService, "workflow", "write"), handler.InitializeDefaults)
	}

	legacy := r.Group("/approval-workflows")
	legacy.Use(middleware.AuthMiddleware())
	{
		legacy.GET("", middleware.RBACAuthorize(rbacService, "workflow", "read"), handler.GetAllLegacy)
	}
}
