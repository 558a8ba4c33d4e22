package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/pkg/response"
	sessionpkg "github.com/mx-space/dentalcare/internal/pkg/session"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	optional := middleware.OptionalAuth(h.svc.db)

	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", optional, h.logout)
	rg.GET("/check-auth", optional, h.checkAuth)

	a := rg.Group("", authMW)
	a.GET("/profile", h.profile)
	a.PATCH("/password", h.changePassword)
	a.GET("/sessions", h.listSessions)
	a.DELETE("/sessions", h.deleteOtherSessions)
	a.DELETE("/sessions/:id", h.deleteSession)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Missing required fields")
		return
	}
	if _, err := h.svc.Register(&dto); err != nil {
		switch {
		case errors.Is(err, errEmailTaken):
			response.BadRequest(c, "Email already exists")
		case errors.Is(err, errUsernameTaken):
			response.BadRequest(c, "Username already exists")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, gin.H{"message": "User created successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Missing email or password")
		return
	}
	token, u, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errInvalidLogin) {
			response.UnauthorizedMsg(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	middleware.SetTokenCookie(c, token, int(sessionpkg.DefaultTTL.Seconds()))
	response.OK(c, loginResponse{Message: "Login successful", Token: token, User: toResponse(u)})
}

func (h *Handler) logout(c *gin.Context) {
	if sid := middleware.CurrentSessionID(c); sid != "" {
		_ = sessionpkg.Revoke(h.svc.db, middleware.CurrentUserID(c), sid)
	}
	middleware.ClearTokenCookie(c)
	response.OK(c, gin.H{"message": "Logout successful"})
}

func (h *Handler) checkAuth(c *gin.Context) {
	if !middleware.IsAuthenticated(c) {
		response.OK(c, gin.H{"authenticated": false})
		return
	}
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.OK(c, gin.H{"authenticated": false})
		return
	}
	response.OK(c, gin.H{"authenticated": true, "user": toResponse(u)})
}

func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "User not found")
		return
	}
	response.OK(c, toProfile(u))
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ChangePassword(middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword); err != nil {
		switch {
		case errors.Is(err, errWrongPassword):
			response.BadRequest(c, "Wrong password")
		case errors.Is(err, errPasswordSameAsOld):
			response.UnprocessableEntity(c, "New password must differ from the old one")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}

func (h *Handler) listSessions(c *gin.Context) {
	current := middleware.CurrentSessionID(c)
	sessions, err := sessionpkg.ListActive(h.svc.db, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	data := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		data = append(data, gin.H{
			"id":      s.ID,
			"ua":      s.UA,
			"ip":      s.IP,
			"date":    s.UpdatedAt,
			"current": s.ID == current,
		})
	}
	response.OK(c, data)
}

func (h *Handler) deleteSession(c *gin.Context) {
	err := sessionpkg.Revoke(h.svc.db, middleware.CurrentUserID(c), c.Param("id"))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) deleteOtherSessions(c *gin.Context) {
	if err := sessionpkg.RevokeAllExcept(h.svc.db, middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
