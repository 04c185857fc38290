package app

import (
	"database/sql"
	"time"

	"go-timeclock/internal/announcement"
	"go-timeclock/internal/auth"
	"go-timeclock/internal/company"
	"go-timeclock/internal/department"
	"go-timeclock/internal/export"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/position"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/schedule"
	"go-timeclock/internal/shared/counter"
	"go-timeclock/internal/timeentry"
	"go-timeclock/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	loc *time.Location,
) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	// --- Repositories ---
	announcementRepo := announcement.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	positionRepo := position.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	timeEntryRepo := timeentry.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	scheduleService := schedule.NewService(db, scheduleRepo, userRepo, rdb)
	announcementService := announcement.NewService(db, announcementRepo)
	authService := auth.NewService(userRepo)
	companyService := company.NewService(db, companyRepo)
	departmentService := department.NewService(db, departmentRepo)
	exportService := export.NewService(timeEntryRepo)
	positionService := position.NewService(db, positionRepo, rdb)
	timeEntryService := timeentry.NewService(db, timeEntryRepo, scheduleService, outboxRepo, rdb, loc)
	userService := user.NewService(db, userRepo, counterRepo, scheduleService, outboxRepo)

	// --- Handlers ---
	announcementHandler := announcement.NewHandler(announcementService)
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)
	departmentHandler := department.NewHandler(departmentService)
	exportHandler := export.NewHandler(exportService, loc)
	positionHandler := position.NewHandler(positionService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	timeEntryHandler := timeentry.NewHandlerWithRedis(timeEntryService, rdb)
	userHandler := user.NewHandler(userService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		announcement.RegisterRoutes(api, announcementHandler, enforcer)
		auth.RegisterRoutes(api, authHandler)
		company.RegisterRoutes(api, companyHandler, enforcer)
		department.RegisterRoutes(api, departmentHandler, enforcer)
		export.RegisterRoutes(api, exportHandler, enforcer)
		position.RegisterRoutes(api, positionHandler, enforcer)
		schedule.RegisterRoutes(api, scheduleHandler, enforcer)
		timeentry.RegisterRoutes(api, timeEntryHandler, enforcer, rdb)
		user.RegisterRoutes(api, userHandler, enforcer)
	}

	return nil
}
