package checkup

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/database"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	"github.com/mx-space/dentalcare/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type stubClassifier struct{ vec analysis.Prediction }

func (s stubClassifier) Name() string { return "stub" }
func (s stubClassifier) Loaded() bool { return true }
func (s stubClassifier) Classify(context.Context, []byte) (analysis.Prediction, error) {
	return s.vec, nil
}

type stubHabits struct{}

func (stubHabits) AdviceInputs(string) (analysis.HabitInputs, error) {
	return analysis.HabitInputs{BrushingConsistency: 100, FlossingConsistency: 100, AvgBrushingTime: 120}, nil
}

func newTestService(t *testing.T, classifier analysis.Classifier) (*Service, string) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	dir := t.TempDir()
	a := analysis.NewAnalyzer(classifier, nil, nil)
	return NewService(db, a, stubHabits{}, dir, nil, func() time.Time { return fixedNow }), dir
}

func TestSubmitPersistsFlattenedAnalysis(t *testing.T) {
	svc, dir := newTestService(t, stubClassifier{vec: analysis.Prediction{0.9, 0.1, 0.1, 0.1, 0.1, 0.05}})

	out, err := svc.Submit(context.Background(), "u1", []byte("fake-jpeg"))
	require.NoError(t, err)
	assert.True(t, out.Analysis.ModelLoaded)
	assert.Equal(t, "stub", out.Analysis.ModelUsed)
	require.Len(t, out.Analysis.DetectedConditions, 1)
	assert.Equal(t, analysis.Calculus, out.Analysis.DetectedConditions[0].Name)
	assert.True(t, out.Analysis.PlaqueDetected)
	assert.Equal(t, 0.9, out.Analysis.ModelConfidence)
	assert.True(t, strings.HasPrefix(out.Recommendations, "# AI Dental Analysis & Recommendations\n\n"))
	assert.Contains(t, out.RecommendationsHTML, "<h1>")
	assert.NotEmpty(t, out.CheckupID)

	data, err := os.ReadFile(filepath.Join(dir, "checkup_u1_20240615_100000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg", string(data))

	// same second: the second file gets a suffix instead of overwriting
	_, err = svc.Submit(context.Background(), "u1", []byte("second"))
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	detail, err := svc.Get("u1", out.CheckupID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, 0.9, detail.Analysis.ModelConfidence)
	assert.Equal(t, out.Recommendations, detail.Recommendations)

	other, err := svc.Get("u2", out.CheckupID)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSubmitWithoutModelUsesFallback(t *testing.T) {
	svc, _ := newTestService(t, nil)

	out, err := svc.Submit(context.Background(), "u1", []byte("img"))
	require.NoError(t, err)
	assert.False(t, out.Analysis.ModelLoaded)
	assert.Equal(t, analysis.FallbackModelID, out.Analysis.ModelUsed)

	_, err = svc.Submit(context.Background(), "u1", nil)
	assert.ErrorIs(t, err, errNoImage)
}

type failingHabits struct{}

func (failingHabits) AdviceInputs(string) (analysis.HabitInputs, error) {
	return analysis.HabitInputs{}, errors.New("habits unavailable")
}

func TestSubmitRemovesImageOnFailure(t *testing.T) {
	svc, dir := newTestService(t, nil)
	svc.habits = failingHabits{}

	_, err := svc.Submit(context.Background(), "u1", []byte("img"))
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	svc.habits = stubHabits{}
	require.NoError(t, svc.db.Migrator().DropTable(&models.AICheckup{}))
	_, err = svc.Submit(context.Background(), "u1", []byte("img"))
	require.Error(t, err)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoredAnalysisReadsOverDefaults(t *testing.T) {
	svc, _ := newTestService(t, nil)
	rec := models.AICheckup{UserID: "u1", AnalysisResult: `{"model_confidence":0.5,"detected_conditions":[]}`}
	require.NoError(t, svc.db.Create(&rec).Error)

	detail, err := svc.Get("u1", rec.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	v := detail.Analysis
	assert.Equal(t, 0.5, v.ModelConfidence)
	assert.Equal(t, analysis.DefaultScore, v.OverallHealthScore)
	assert.Equal(t, analysis.LevelLow, v.GingivitisRisk)
	assert.Equal(t, analysis.LevelLow, v.CavityRisk)
	assert.Equal(t, analysis.LevelNone, v.StainingLevel)
	assert.Equal(t, analysis.LevelNone, v.Urgency)
	assert.Equal(t, analysis.GumGood, v.GumHealth)
	assert.Empty(t, v.DetectedConditions)

	items, _, err := svc.History("u1", pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, analysis.DefaultScore, items[0].AnalysisSummary.OverallHealthScore)
}

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) { c.Set(middleware.ContextKeyUserID, "u1") }
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), fakeAuth)
	return r
}

func TestHandlerJSONAndMultipart(t *testing.T) {
	svc, _ := newTestService(t, stubClassifier{vec: analysis.Prediction{0.1, 0.1, 0.1, 0.1, 0.1, 0.9}})
	r := newRouter(svc)

	body := `{"image":"data:image/jpeg;base64,` + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai-checkup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Empty(t, out.Analysis.DetectedConditions)
	assert.Contains(t, out.Analysis.HealthMessage, "Confidence: 90.0%")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "teeth.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("multipart-bytes"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/ai-checkup", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/ai-checkup", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":0,"code":400,"message":"No image provided"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/ai-checkup", bytes.NewBufferString(`{"image":"data:image/png;base64,@@@"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ai-checkup/history?size=1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var hist struct {
		Data       []historyItem `json:"data"`
		Pagination struct {
			Total       int64 `json:"total"`
			HasNextPage bool  `json:"has_next_page"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.Len(t, hist.Data, 1)
	assert.Equal(t, int64(2), hist.Pagination.Total)
	assert.True(t, hist.Pagination.HasNextPage)
	assert.True(t, hist.Data[0].HasRecommendations)
	assert.Equal(t, 0.9, hist.Data[0].AnalysisSummary.ModelConfidence)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ai-checkup/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModelHealth(t *testing.T) {
	svc, _ := newTestService(t, nil)
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/model-health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["model_loaded"])
	assert.Equal(t, "using_mock_data", body["status"])
	assert.Equal(t, "Using mock data - model file not found", body["message"])
	assert.Len(t, body["class_names"], 6)
}
