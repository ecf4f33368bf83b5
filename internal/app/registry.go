package app

import (
	"database/sql"

	"github.com/dapphari007/leavemon-sub001/internal/department"
	"github.com/dapphari007/leavemon-sub001/internal/leavecategory"
	"github.com/dapphari007/leavemon-sub001/internal/leaverequest"
	"github.com/dapphari007/leavemon-sub001/internal/messaging/kafka"
	"github.com/dapphari007/leavemon-sub001/internal/position"
	"github.com/dapphari007/leavemon-sub001/internal/rbac"
	"github.com/dapphari007/leavemon-sub001/internal/rbac/infra"
	"github.com/dapphari007/leavemon-sub001/internal/reconcile"
	"github.com/dapphari007/leavemon-sub001/internal/user"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	departmentRepo := department.NewRepository(gormDB)
	positionRepo := position.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	leaveCategoryRepo := leavecategory.NewRepository(gormDB)
	workflowRepo := workflow.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	reconcileRepo := reconcile.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	departmentService := department.NewService(db, departmentRepo)
	positionService := position.NewService(db, positionRepo)
	userService := user.NewService(userRepo)
	leaveCategoryService := leavecategory.NewService(db, leaveCategoryRepo)
	workflowService := workflow.NewService(db, workflowRepo)
	leaveRequestService := leaverequest.NewService(db, leaveRequestRepo, userRepo, workflowService, outboxRepo)
	reconcileEngine := reconcile.NewEngine(reconcileRepo)

	// --- Handlers ---
	departmentHandler := department.NewHandler(departmentService)
	positionHandler := position.NewHandler(positionService)
	userHandler := user.NewHandler(userService)
	leaveCategoryHandler := leavecategory.NewHandler(leaveCategoryService)
	workflowHandler := workflow.NewHandler(workflowService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	reconcileHandler := reconcile.NewHandler(reconcileEngine)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		department.RegisterRoutes(api, departmentHandler, rbacService)
		position.RegisterRoutes(api, positionHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		leavecategory.RegisterRoutes(api, leaveCategoryHandler, rbacService)
		workflow.RegisterRoutes(api, workflowHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService)
		reconcile.RegisterRoutes(api, reconcileHandler, rbacService, rdb)
	}

	return nil
}
