package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"blog-backend/internal/shared"
	"blog-backend/pkg/logger"
)

type Scheduler struct {
	scheduler    *asynq.Scheduler
	cleanupLimit int
}

func NewScheduler(redisAddress string, cleanupLimit int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	if cleanupLimit <= 0 {
		cleanupLimit = 500
	}

	return &Scheduler{scheduler: scheduler, cleanupLimit: cleanupLimit}
}

// RegisterJobs registers every periodic task
func (s *Scheduler) RegisterJobs() error {
	return s.registerCleanupOrphanCoversJob()
}

// Daily at 3 AM UTC, low traffic
func (s *Scheduler) registerCleanupOrphanCoversJob() error {
	payload, err := json.Marshal(shared.CleanupOrphanCoversPayload{Limit: s.cleanupLimit})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupOrphanPostCovers, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CleanupOrphanPostCovers job", err)
		return err
	}

	logger.Info("Registered CleanupOrphanPostCovers: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
