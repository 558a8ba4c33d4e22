package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/config"
	"github.com/mx-space/dentalcare/internal/database"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	"github.com/mx-space/dentalcare/internal/modules/checkup/classifier"
	"github.com/mx-space/dentalcare/internal/modules/reminder"
	pkgcron "github.com/mx-space/dentalcare/internal/pkg/cron"
	"github.com/mx-space/dentalcare/internal/pkg/mail"
	"github.com/mx-space/dentalcare/internal/pkg/metrics"
	pkgredis "github.com/mx-space/dentalcare/internal/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg        *config.AppConfig
	router     *gin.Engine
	db         *gorm.DB
	redis      *pkgredis.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	mailer     *mail.Sender
	analyzer   *analysis.Analyzer
	dispatcher *reminder.Dispatcher
	sched      *pkgcron.Scheduler
	cancel     context.CancelFunc
}

// New initializes the application: config → DB → Redis → classifier → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	a := &App{
		cfg:    cfg,
		db:     db,
		logger: logger,
		mailer: mail.New(mail.BuildMailConfig(cfg.Mail)),
		sched:  pkgcron.New(),
	}

	if !cfg.Redis.Disable && cfg.RedisURL != "" {
		rc, err := pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, rate limit and idempotence disabled", zap.Error(err))
		} else {
			a.redis = rc
		}
	}

	if cfg.Metrics.Enable {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := metrics.New(registry)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		a.metrics = m
	}

	clf, err := classifier.New(cfg.Classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	a.analyzer = analysis.NewAnalyzer(clf, a.metrics, logger)
	logger.Info("classifier ready",
		zap.String("model", a.analyzer.ModelName()),
		zap.Bool("loaded", a.analyzer.ModelLoaded()),
	)

	if !a.mailer.Enabled() {
		logger.Warn("mail is not configured, reminder emails will be skipped")
	}
	a.dispatcher = reminder.NewDispatcher(db, a.mailer, a.metrics, logger, nil)

	a.router = a.buildRouter()
	a.registerRoutes()
	registerCronJobs(a.sched, a.db, a.dispatcher, cfg, logger)

	return a, nil
}

// Start launches background jobs. They stop on Shutdown.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched.Start(ctx)
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and releases connections.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Wait()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *App) buildRouter() *gin.Engine {
	if a.cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	if a.metrics != nil {
		router.Use(middleware.Logger(a.logger, a.cfg.Metrics.Path))
		router.Use(a.metrics.Middleware())
	} else {
		router.Use(middleware.Logger(a.logger))
	}
	router.Use(newCORS(a.cfg))
	return router
}
