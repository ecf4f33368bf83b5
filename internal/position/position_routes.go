package position

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	positions := r.Group("/positions")
	positions.Use(middleware.AuthMiddleware())
	{
		positions.GET("", middleware.RBACAuthorize(rbacService, "position", "read"), handler.GetAll)
		positions.GET("/:id", middleware.RBACAuthorize(rbacService, "position", "read"), handler.GetByID)
		positions.POST("", middleware.RBACAuthorize(rbacService, "position", "write"), handler.Create)
		positions.PUT("/:id", middleware.RBACAuthorize(rbacService, "position", "write"), handler.Update)
		positions.DELETE("/:id", middleware.RBACAuthorize(rbacService, "position", "write"), handler.Delete)
	}
}
