package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/database"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/pkg/cron"
	pkgmail "github.com/mx-space/dentalcare/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, sched *cron.Scheduler, logDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.OpenMemory()
	require.NoError(t, err)

	r := gin.New()
	fakeAuth := func(c *gin.Context) { c.Set(middleware.ContextKeyUserID, "u1") }
	NewHandler(db, sched, pkgmail.New(pkgmail.Config{}), logDir).RegisterRoutes(r.Group("/api/v1"), fakeAuth)
	return r
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestPing(t *testing.T) {
	r := newRouter(t, cron.New(), t.TempDir())
	w := do(r, http.MethodGet, "/api/v1/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":true}`, w.Body.String())
}

func TestCronAdmin(t *testing.T) {
	sched := cron.New()
	ran := make(chan struct{}, 1)
	sched.Register(cron.Job{
		Name:        "reminder_email_job",
		Description: "Send daily reminder emails",
		Schedule:    cron.DailyAt{Hour: 8},
		Fn: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})
	r := newRouter(t, sched, t.TempDir())

	w := do(r, http.MethodGet, "/api/v1/health/cron")
	require.Equal(t, http.StatusOK, w.Code)
	var jobs map[string]cron.ListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	assert.Equal(t, "Send daily reminder emails", jobs["reminder_email_job"].Description)

	w = do(r, http.MethodPost, "/api/v1/health/cron/run/reminder_email_job")
	require.Equal(t, http.StatusOK, w.Code)
	<-ran
	sched.Wait()

	w = do(r, http.MethodGet, "/api/v1/health/cron/task/reminder_email_job")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"fulfill"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/health/cron/run/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmailTestRequiresMail(t *testing.T) {
	r := newRouter(t, cron.New(), t.TempDir())
	w := do(r, http.MethodPost, "/api/v1/health/email/test")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dental_2024-06-15.log"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	r := newRouter(t, cron.New(), dir)

	w := do(r, http.MethodGet, "/api/v1/health/log/list")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []logItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "5 B", list.Data[0].Size)

	w = do(r, http.MethodGet, "/api/v1/health/log?filename=../dental_2024-06-15.log")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/health/log?filename=missing.log")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
