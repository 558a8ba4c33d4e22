package app

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/modules/auth/user"
	"github.com/mx-space/dentalcare/internal/modules/checkup"
	"github.com/mx-space/dentalcare/internal/modules/habit"
	"github.com/mx-space/dentalcare/internal/modules/health"
	"github.com/mx-space/dentalcare/internal/modules/reminder"
	"github.com/mx-space/dentalcare/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	if a.metrics != nil {
		r.GET(a.cfg.Metrics.Path, gin.WrapH(a.metrics.Handler()))
	}

	api := r.Group("/api/v1")
	if a.redis != nil {
		api.Use(middleware.OptionalAuth(db))
		api.Use(middleware.RateLimit(a.redis.Raw(), a.logger))
		api.Use(middleware.Idempotence(a.redis.Raw()))
	}

	habitSvc := habit.NewService(db, a.metrics, nil)

	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)
	habit.NewHandler(habitSvc).RegisterRoutes(api, authMW)
	reminder.NewHandler(reminder.NewService(db, nil)).RegisterRoutes(api, authMW)
	checkup.NewHandler(
		checkup.NewService(db, a.analyzer, habitSvc, a.cfg.UploadDir(), a.logger, nil),
	).RegisterRoutes(api, authMW)
	health.NewHandler(db, a.sched, a.mailer, a.cfg.LogDir()).RegisterRoutes(api, authMW)
}
