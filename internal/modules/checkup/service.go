package checkup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	"github.com/mx-space/dentalcare/internal/pkg/markdown"
	"github.com/mx-space/dentalcare/internal/pkg/pagination"
	"github.com/mx-space/dentalcare/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HabitSource supplies the composer's habit inputs for a user.
type HabitSource interface {
	AdviceInputs(userID string) (analysis.HabitInputs, error)
}

type Service struct {
	db        *gorm.DB
	analyzer  *analysis.Analyzer
	habits    HabitSource
	uploadDir string
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(db *gorm.DB, analyzer *analysis.Analyzer, habits HabitSource, uploadDir string, logger *zap.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:        db,
		analyzer:  analyzer,
		habits:    habits,
		uploadDir: uploadDir,
		logger:    logger.Named("Checkup"),
		now:       now,
	}
}

// Analyzer exposes the underlying analyzer for model health reporting.
func (s *Service) Analyzer() *analysis.Analyzer { return s.analyzer }

// Submit stores the image, analyzes it, composes the advisory and persists
// the checkup.
func (s *Service) Submit(ctx context.Context, userID string, image []byte) (*Outcome, error) {
	if len(image) == 0 {
		return nil, errNoImage
	}
	if len(image) > maxImageBytes {
		return nil, errImageTooBig
	}

	path, err := s.saveImage(userID, image)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	res := s.analyzer.Analyze(ctx, image)

	habits, err := s.habits.AdviceInputs(userID)
	if err != nil {
		s.discardImage(path)
		return nil, fmt.Errorf("load habits: %w", err)
	}
	doc := analysis.Compose(res, habits)

	view := flatten(res)
	raw, err := json.Marshal(view)
	if err != nil {
		s.discardImage(path)
		return nil, fmt.Errorf("encode analysis: %w", err)
	}

	rec := models.AICheckup{
		UserID:            userID,
		ImagePath:         path,
		AnalysisResult:    string(raw),
		AIRecommendations: doc,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		s.discardImage(path)
		return nil, err
	}

	s.logger.Info("checkup analyzed",
		zap.String("user", userID),
		zap.String("checkup", rec.ID),
		zap.String("model", view.ModelUsed),
		zap.Int("conditions", len(view.DetectedConditions)),
	)

	return &Outcome{
		Analysis:            view,
		Recommendations:     doc,
		RecommendationsHTML: markdown.Render(doc),
		CheckupID:           rec.ID,
		Timestamp:           rec.CreatedAt,
	}, nil
}

func (s *Service) discardImage(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("remove orphaned upload failed", zap.String("path", path), zap.Error(err))
	}
}

// saveImage writes image as checkup_<user>_<YYYYMMDD_HHMMSS>.jpg, adding a
// short suffix when that name is already taken.
func (s *Service) saveImage(userID string, image []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	base := fmt.Sprintf("checkup_%s_%s", userID, s.now().Format("20060102_150405"))
	path := filepath.Join(s.uploadDir, base+".jpg")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		path = filepath.Join(s.uploadDir, base+"_"+suffix+".jpg")
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	return path, f.Close()
}

// decodeView reads a stored analysis over the no-findings defaults, so
// missing keys keep their default values.
func decodeView(raw string) AnalysisView {
	v := flatten(analysis.Result{Analysis: analysis.DefaultSummary()})
	if raw == "" {
		return v
	}
	_ = json.Unmarshal([]byte(raw), &v)
	return v
}

// History pages the user's checkups, newest first.
func (s *Service) History(userID string, q pagination.Query) ([]historyItem, response.Pagination, error) {
	var rows []models.AICheckup
	tx := s.db.Model(&models.AICheckup{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	page, err := pagination.Paginate(tx, q, &rows)
	if err != nil {
		return nil, page, err
	}

	items := make([]historyItem, 0, len(rows))
	for _, r := range rows {
		v := decodeView(r.AnalysisResult)
		detected := v.DetectedConditions
		if detected == nil {
			detected = []analysis.Condition{}
		}
		items = append(items, historyItem{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			AnalysisSummary: analysisSummary{
				DetectedConditions: detected,
				OverallHealthScore: v.OverallHealthScore,
				PlaqueDetected:     v.PlaqueDetected,
				ModelConfidence:    v.ModelConfidence,
			},
			HasRecommendations: r.AIRecommendations != "",
		})
	}
	return items, page, nil
}

// Get returns the user's checkup, or (nil, nil) when it does not exist or
// belongs to someone else.
func (s *Service) Get(userID, id string) (*detailResponse, error) {
	var r models.AICheckup
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detailResponse{
		ID:                  r.ID,
		CreatedAt:           r.CreatedAt,
		Analysis:            decodeView(r.AnalysisResult),
		Recommendations:     r.AIRecommendations,
		RecommendationsHTML: markdown.Render(r.AIRecommendations),
	}, nil
}
