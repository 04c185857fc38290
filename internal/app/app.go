package app

import (
	"os"
	"time"

	"go-timeclock/internal/database"
	"go-timeclock/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultTimezone = "Asia/Manila"

// BuildApp connects the infrastructure and registers every module's routes.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	loc, err := loadLocation()
	if err != nil {
		return err
	}
	logger.Info("business timezone loaded", zap.String("timezone", loc.String()))

	return registerModules(router, sqlDB, gormDB, redisClient, loc)
}

// loadLocation resolves the tenant-wide business timezone. Work dates and
// schedule windows are always interpreted in this zone, never in UTC.
func loadLocation() (*time.Location, error) {
	tz := os.Getenv("APP_TIMEZONE")
	if tz == "" {
		tz = defaultTimezone
	}
	return time.LoadLocation(tz)
}
