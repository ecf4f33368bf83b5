package department

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.GET("", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetAll)
		departments.GET("/:id", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetByID)
		departments.POST("", middleware.RBACAuthorize(rbacService, "department", "write"), handler.Create)
		departments.PUT("/:id", middleware.RBACAuthorize(rbacService, "department", "write"), handler.Update)
		departments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "department", "write"), handler.Delete)
	}
}
