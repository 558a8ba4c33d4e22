package reminder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/pkg/response"
)

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 366
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/reminders", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.DELETE("", h.deleteAll)
	g.GET("/upcoming", h.upcoming)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

var validationMessages = map[error]string{
	errMissingFields:       "Missing required fields (type, title, date)",
	errInvalidReminderType: `Invalid type. Must be "appointment" or "medication"`,
	errInvalidDate:         "Invalid date format. Use YYYY-MM-DD",
	errInvalidTime:         "Invalid time format. Use HH:MM",
}

// writeError maps validation failures to 400 and everything else to 500.
func writeError(c *gin.Context, err error) {
	for target, msg := range validationMessages {
		if errors.Is(err, target) {
			response.BadRequest(c, msg)
			return
		}
	}
	response.InternalError(c, err)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.List(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponses(list))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateReminderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	first, count, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	msg := "Reminder created successfully"
	if count > 1 {
		msg = "Reminders created successfully"
	}
	response.Created(c, gin.H{"message": msg, "count": count, "reminder": toResponse(first)})
}

func (h *Handler) deleteAll(c *gin.Context) {
	n, err := h.svc.DeleteAll(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": fmt.Sprintf("%d reminders deleted successfully", n), "count": n})
}

func (h *Handler) upcoming(c *gin.Context) {
	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.BadRequest(c, "days must be a non-negative integer")
			return
		}
		days = min(v, maxUpcomingDays)
	}
	list, err := h.svc.Upcoming(middleware.CurrentUserID(c), days)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponses(list))
}

func (h *Handler) get(c *gin.Context) {
	r, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if r == nil {
		response.NotFoundMsg(c, "Reminder not found")
		return
	}
	response.OK(c, toResponse(r))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateReminderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.svc.Update(middleware.CurrentUserID(c), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if r == nil {
		response.NotFoundMsg(c, "Reminder not found")
		return
	}
	response.OK(c, gin.H{"message": "Reminder updated successfully", "reminder": toResponse(r)})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFoundMsg(c, "Reminder not found")
		return
	}
	response.OK(c, gin.H{"message": "Reminder deleted successfully"})
}
