package habit

import (
	"errors"
	"time"

	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	"github.com/mx-space/dentalcare/internal/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	statsCacheTTL     = 10 * time.Minute
	statsCacheCleanup = 30 * time.Minute
)

type Service struct {
	db      *gorm.DB
	cache   *gocache.Cache
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService builds the habit service. now supplies the current time in the
// application time zone; m may be nil.
func NewService(db *gorm.DB, m *metrics.Metrics, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:      db,
		cache:   gocache.New(statsCacheTTL, statsCacheCleanup),
		metrics: m,
		now:     now,
	}
}

func (s *Service) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// Today returns today's record, or an unsaved zero record for today.
func (s *Service) Today(userID string) (*models.DailyHabit, error) {
	date := s.today().Format(models.DateLayout)
	var h models.DailyHabit
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailyHabit{UserID: userID, Date: date}, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateToday applies dto to today's record, creating it if needed.
func (s *Service) UpdateToday(userID string, dto *UpdateTodayDTO) (*models.DailyHabit, error) {
	if dto.BrushingTime != nil && *dto.BrushingTime < 0 {
		return nil, errNegativeBrushingTime
	}

	h, err := s.Today(userID)
	if err != nil {
		return nil, err
	}
	if dto.Brushed != nil {
		h.Brushed = *dto.Brushed
	}
	if dto.Flossed != nil {
		h.Flossed = *dto.Flossed
	}
	if dto.HasBrushingTime {
		h.BrushingTime = dto.BrushingTime
	}

	if h.ID == "" {
		err = s.db.Create(h).Error
	} else {
		err = s.db.Save(h).Error
	}
	if err != nil {
		return nil, err
	}
	s.cache.Delete(userID)
	return h, nil
}

// Statistics aggregates the user's full history. Results are cached per user
// and day until the next update.
func (s *Service) Statistics(userID string) (Statistics, error) {
	today := s.today()
	key := userID
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(cachedStats); ok && cached.day == today.Format(models.DateLayout) {
			s.metrics.RecordHabitCache(true)
			return cached.stats, nil
		}
	}
	s.metrics.RecordHabitCache(false)

	var records []models.DailyHabit
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&records).Error; err != nil {
		return Statistics{}, err
	}
	stats := Aggregate(records, today)
	s.cache.SetDefault(key, cachedStats{day: today.Format(models.DateLayout), stats: stats})
	return stats, nil
}

type cachedStats struct {
	day   string
	stats Statistics
}

// History returns records dated within the last days days, newest first.
func (s *Service) History(userID string, days int) ([]models.DailyHabit, error) {
	since := s.today().AddDate(0, 0, -days).Format(models.DateLayout)
	var records []models.DailyHabit
	err := s.db.Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

// AdviceInputs summarizes the latest records for checkup advice.
func (s *Service) AdviceInputs(userID string) (analysis.HabitInputs, error) {
	var recent []models.DailyHabit
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(RecentRecordLimit).
		Find(&recent).Error
	if err != nil {
		return analysis.HabitInputs{}, err
	}
	return AdviceInputs(recent), nil
}
