package user

import (
	"github.com/dapphari007/leavemon-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetByID)
	}
}
