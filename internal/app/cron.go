package app

import (
	"context"
	"time"

	"github.com/mx-space/dentalcare/internal/config"
	"github.com/mx-space/dentalcare/internal/database"
	"github.com/mx-space/dentalcare/internal/modules/reminder"
	pkgcron "github.com/mx-space/dentalcare/internal/pkg/cron"
	"github.com/mx-space/dentalcare/internal/pkg/mail"
	"github.com/mx-space/dentalcare/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sessionRetention keeps expired or revoked sessions around for a while so
// the session list can still show them.
const sessionRetention = 7 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, dispatcher *reminder.Dispatcher, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	if cfg.Reminders.Enable {
		sched.Register(pkgcron.Job{
			Name:        reminder.JobName,
			Description: reminder.JobDescription,
			Schedule:    pkgcron.DailyAt{Hour: cfg.Reminders.Hour, Minute: cfg.Reminders.Minute},
			Fn:          dispatcher.Job,
		})
	} else {
		cronLogger.Info("reminder email job disabled")
	}

	sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "Delete sessions that expired or were revoked a week ago",
		Schedule:    pkgcron.Every(24 * time.Hour),
		Fn: func(ctx context.Context) error {
			n, err := session.PurgeExpired(db.WithContext(ctx), time.Now().Add(-sessionRetention))
			if err != nil {
				cronLogger.Warn("purge sessions failed", zap.Error(err))
				return err
			}
			cronLogger.Info("purged sessions", zap.Int64("count", n))
			return nil
		},
	})
}

// RunReminders performs one reminder dispatch outside the server.
func RunReminders(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (reminder.DispatchReport, error) {
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return reminder.DispatchReport{}, err
	}
	db, err := database.Connect(cfg, false)
	if err != nil {
		return reminder.DispatchReport{}, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	sender := mail.New(mail.BuildMailConfig(cfg.Mail))
	return reminder.NewDispatcher(db, sender, nil, logger, nil).Run(ctx)
}

// Migrate creates or updates the schema and exits.
func Migrate(logger *zap.Logger, cfg *config.AppConfig) error {
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return err
	}
	db, err := database.Connect(cfg, true)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
