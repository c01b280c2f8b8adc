package reminder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// deadlineCheckOffset separates the deadline-check job from the digest so the
// two never race on the same settings read.
const deadlineCheckOffset = 30 * time.Minute

// Scheduler runs the engine's two daily jobs on a cron timer.
type Scheduler struct {
	engine   *Engine
	settings ports.SettingRepository
	cron     *cron.Cron
	log      *logger.Logger

	hour   int
	minute int
}

// NewScheduler creates a scheduler with the configured digest time. The
// daily_digest_hour setting, when present, overrides the hour at Start.
func NewScheduler(engine *Engine, settings ports.SettingRepository, hour, minute int, log *logger.Logger) *Scheduler {
	return &Scheduler{
		engine:   engine,
		settings: settings,
		cron:     cron.New(),
		log:      log.WithComponent("scheduler"),
		hour:     hour,
		minute:   minute,
	}
}

// Start registers the digest and deadline-check jobs and begins the timer.
// The schedule is resolved once here; changing it requires a restart.
func (s *Scheduler) Start(ctx context.Context) error {
	hour, minute := s.hour, s.minute
	if raw, err := s.settings.Get(ctx, ports.SettingDigestHour); err == nil && raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			hour = h
		}
	}

	digestSpec := fmt.Sprintf("%d %d * * *", minute, hour)
	checkHour, checkMinute := rollForward(hour, minute, deadlineCheckOffset)
	checkSpec := fmt.Sprintf("%d %d * * *", checkMinute, checkHour)

	if _, err := s.cron.AddFunc(digestSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.engine.RunDailyDigest(ctx); err != nil {
			s.log.WithError(err).Error("daily digest tick failed")
		}
	}); err != nil {
		return fmt.Errorf("register digest job: %w", err)
	}

	if _, err := s.cron.AddFunc(checkSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.engine.RunDeadlineCheck(ctx); err != nil {
			s.log.WithError(err).Error("deadline check tick failed")
		}
	}); err != nil {
		return fmt.Errorf("register deadline check job: %w", err)
	}

	s.cron.Start()
	s.log.Infow("reminder scheduler started", "digest", digestSpec, "deadline_check", checkSpec)
	return nil
}

// Stop halts the timer and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("reminder scheduler stopped")
}

// rollForward adds an offset to a wall-clock hour:minute, wrapping at
// midnight.
func rollForward(hour, minute int, offset time.Duration) (int, int) {
	total := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + offset
	total = total % (24 * time.Hour)
	return int(total.Hours()), int(total.Minutes()) % 60
}
