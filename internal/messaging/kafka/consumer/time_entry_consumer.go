package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-timeclock/internal/events"
	"go-timeclock/internal/timeentry"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeTimeEntryClosed drops the cached daily sheet for the affected
// company whenever an entry closes, so dashboards pick up the final
// hours without waiting out the TTL.
func ConsumeTimeEntryClosed(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.time_entry_closed")
	log.Info("time entry closed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("time entry closed consumer stopped")
				return
			}
			log.Error("fetch time entry closed message failed", zap.Error(err))
			continue
		}

		var event events.TimeEntryClosedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode time entry closed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		workDate, err := time.Parse("2006-01-02", event.WorkDate)
		if err != nil {
			log.Error("invalid work_date in time entry closed event",
				zap.String("work_date", event.WorkDate),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		cacheKey := timeentry.TodaySheetKey(event.CompanyID, workDate)
		if err := rdb.Del(ctx, cacheKey).Err(); err != nil {
			log.Error("invalidate today sheet cache failed",
				zap.String("key", cacheKey),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit time entry closed message failed", zap.Error(err))
			continue
		}

		log.Info("today sheet cache invalidated",
			zap.String("company_id", event.CompanyID),
			zap.String("entry_id", event.EntryID),
			zap.Float64("hours_worked", event.HoursWorked),
		)
	}
}
