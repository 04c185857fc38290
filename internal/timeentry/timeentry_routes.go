package timeentry

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	entries := r.Group("/time-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		punch := entries.Group("")
		punch.Use(middleware.ExtractUserID(), middleware.Idempotency(rdb))
		{
			punch.POST("/clock-in", middleware.RBACAuthorize(enforcer, "time_entries", "punch"), h.ClockIn)
			punch.POST("/clock-out", middleware.RBACAuthorize(enforcer, "time_entries", "punch"), h.ClockOut)
		}
		entries.GET("", middleware.RBACAuthorize(enforcer, "time_entries", "read"), h.GetAll)
		entries.GET("/today", middleware.RBACAuthorize(enforcer, "time_entries", "read"), h.GetToday)
		entries.PUT("/:id", middleware.RBACAuthorize(enforcer, "time_entries", "write"), h.Edit)
	}
}
