// Package health exposes liveness, cron administration and log inspection
// endpoints.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/pkg/cron"
	pkgmail "github.com/mx-space/dentalcare/internal/pkg/mail"
	"github.com/mx-space/dentalcare/internal/pkg/response"
	"gorm.io/gorm"
)

type logItem struct {
	Size     string `json:"size"`
	Filename string `json:"filename"`
	Created  int64  `json:"created"`
}

type Handler struct {
	db     *gorm.DB
	sched  *cron.Scheduler
	mailer *pkgmail.Sender
	logDir string
}

func NewHandler(db *gorm.DB, sched *cron.Scheduler, mailer *pkgmail.Sender, logDir string) *Handler {
	return &Handler{db: db, sched: sched, mailer: mailer, logDir: logDir}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/health", h.ping)

	admin := rg.Group("/health", authMW)
	cronGroup := admin.Group("/cron")
	{
		cronGroup.GET("", h.listJobs)
		cronGroup.POST("/run/:name", h.runJob)
		cronGroup.GET("/task/:name", h.task)
	}
	admin.POST("/email/test", h.testEmail)
	admin.GET("/log/list", h.listLogs)
	admin.GET("/log", h.readLog)
}

func (h *Handler) ping(c *gin.Context) {
	sqlDB, err := h.db.DB()
	dbOK := err == nil && sqlDB.PingContext(c.Request.Context()) == nil

	status := "ok"
	code := http.StatusOK
	if !dbOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":   status,
		"database": dbOK,
	})
}

func (h *Handler) listJobs(c *gin.Context) {
	items := h.sched.List()
	byName := make(map[string]cron.ListItem, len(items))
	for _, item := range items {
		byName[item.Name] = item
	}
	response.OK(c, byName)
}

func (h *Handler) runJob(c *gin.Context) {
	// the request context ends with the response; the job must outlive it
	if err := h.sched.Run(context.WithoutCancel(c.Request.Context()), c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"message": "job triggered"})
}

func (h *Handler) task(c *gin.Context) {
	result, err := h.sched.GetTask(c.Param("name"))
	if err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, result)
}

// testEmail sends a sample reminder to the calling user.
func (h *Handler) testEmail(c *gin.Context) {
	if h.mailer == nil || !h.mailer.Enabled() {
		response.UnprocessableEntity(c, "mail is not enabled")
		return
	}

	var user models.UserModel
	if err := h.db.Select("email").Where("id = ?", middleware.CurrentUserID(c)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundMsg(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		response.UnprocessableEntity(c, "user email not set")
		return
	}

	err := h.mailer.SendReminder(c.Request.Context(), user.Email, pkgmail.ReminderData{
		Title: "Mail configuration test",
		Text:  "Hello,\n\nIf you received this email, reminder delivery is configured correctly.\n\nBest regards,\nDental Tracker",
	})
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *Handler) listLogs(c *gin.Context) {
	entries, err := os.ReadDir(h.logDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.OK(c, []logItem{})
			return
		}
		response.InternalError(c, err)
		return
	}

	items := make([]logItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, logItem{
			Size:     formatByteSize(info.Size()),
			Filename: entry.Name(),
			Created:  info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Created > items[j].Created
	})
	response.OK(c, items)
}

func (h *Handler) readLog(c *gin.Context) {
	filename := filepath.Base(strings.TrimSpace(c.Query("filename")))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		response.UnprocessableEntity(c, "filename must be string")
		return
	}
	data, err := os.ReadFile(filepath.Join(h.logDir, filename))
	if err != nil {
		response.BadRequest(c, "log file not exists")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

func formatByteSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
