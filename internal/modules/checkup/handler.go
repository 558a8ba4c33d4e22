package checkup

import (
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	"github.com/mx-space/dentalcare/internal/pkg/pagination"
	"github.com/mx-space/dentalcare/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/model-health", h.modelHealth)

	g := rg.Group("/ai-checkup", authMW)
	g.POST("", h.submit)
	g.GET("/history", h.history)
	g.GET("/:id", h.get)
}

func (h *Handler) submit(c *gin.Context) {
	image, err := readImage(c)
	if err != nil {
		writeImageError(c, err)
		return
	}

	out, err := h.svc.Submit(c.Request.Context(), middleware.CurrentUserID(c), image)
	if err != nil {
		writeImageError(c, err)
		return
	}
	response.OK(c, out)
}

func writeImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNoImage):
		response.BadRequest(c, "No image provided")
	case errors.Is(err, errInvalidImage):
		response.BadRequest(c, "Invalid image data")
	case errors.Is(err, errImageTooBig):
		response.PayloadTooLarge(c, "Image too large")
	default:
		response.InternalError(c, err)
	}
}

// readImage accepts a multipart "image" file or a JSON body whose "image"
// field is a data URI; only the part after the comma is decoded.
func readImage(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, errNoImage
		}
		if fh.Size > maxImageBytes {
			return nil, errImageTooBig
		}
		f, err := fh.Open()
		if err != nil {
			return nil, errInvalidImage
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	}

	var dto ImageDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Image) == "" {
		return nil, errNoImage
	}
	payload := dto.Image
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, errImageTooBig
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, errInvalidImage
	}
	return data, nil
}

func (h *Handler) history(c *gin.Context) {
	items, page, err := h.svc.History(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, page)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if d == nil {
		response.NotFoundMsg(c, "Checkup not found")
		return
	}
	response.OK(c, d)
}

func (h *Handler) modelHealth(c *gin.Context) {
	a := h.svc.Analyzer()
	status, message := "using_mock_data", "Using mock data - model file not found"
	if a.ModelLoaded() {
		status, message = "healthy", "Model is ready for predictions"
	}
	response.OK(c, gin.H{
		"model_loaded":  a.ModelLoaded(),
		"model":         a.ModelName(),
		"class_names":   analysis.ClassNameList(),
		"display_names": analysis.DisplayNameMap(),
		"status":        status,
		"message":       message,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}
