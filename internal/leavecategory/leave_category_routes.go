package leavecategory

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	categories := r.Group("/leave-categories")
	categories.Use(middleware.AuthMiddleware())
	{
		categories.GET("", middleware.RBACAuthorize(rbacService, "leave_category", "read"), handler.GetAll)
		categories.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_category", "read"), handler.GetByID)
		categories.POST("", middleware.RBACAuthorize(rbacService, "leave_category", "write"), handler.Create)
		categories.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_category", "write"), handler.Update)
		categories.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_category", "write"), handler.Delete)
		categories.POST("/initialize-defaults", middleware.RBACAuthorize(rbacService, "leave_category", "write"), handler.InitializeDefaults)
	}
}
