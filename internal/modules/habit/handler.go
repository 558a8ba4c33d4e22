package habit

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/pkg/response"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 366
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/habits", authMW)
	g.GET("/today", h.getToday)
	g.POST("/today", h.updateToday)
	g.GET("/streak", h.streak)
	g.GET("/history", h.history)
}

func (h *Handler) getToday(c *gin.Context) {
	rec, err := h.svc.Today(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(rec))
}

func (h *Handler) updateToday(c *gin.Context) {
	var dto UpdateTodayDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rec, err := h.svc.UpdateToday(middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, errNegativeBrushingTime) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Habit updated successfully", "habit": toResponse(rec)})
}

func (h *Handler) streak(c *gin.Context) {
	stats, err := h.svc.Statistics(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats.Rounded())
}

func (h *Handler) history(c *gin.Context) {
	days := defaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.BadRequest(c, "days must be a non-negative integer")
			return
		}
		days = min(v, maxHistoryDays)
	}

	records, err := h.svc.History(middleware.CurrentUserID(c), days)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]habitResponse, 0, len(records))
	for i := range records {
		out = append(out, toResponse(&records[i]))
	}
	response.OK(c, out)
}

func toResponse(h *models.DailyHabit) habitResponse {
	return habitResponse{
		Date:         h.Date,
		Brushed:      h.Brushed,
		Flossed:      h.Flossed,
		BrushingTime: h.BrushingTime,
	}
}
