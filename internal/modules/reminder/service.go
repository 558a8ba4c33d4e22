package reminder

import (
	"errors"
	"strings"
	"time"

	"github.com/mx-space/dentalcare/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService builds the reminder service. now supplies the current time in
// the application time zone.
func NewService(db *gorm.DB, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{db: db, now: now}
}

func (s *Service) today() string {
	return s.now().Format(models.DateLayout)
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return d, nil
}

// parseClock accepts H:MM or HH:MM and returns the canonical HH:MM form.
func parseClock(raw string) (string, error) {
	t, err := time.Parse(models.ClockLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", errInvalidTime
	}
	return t.Format(models.ClockLayout), nil
}

func (s *Service) List(userID string) ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.db.Where("user_id = ?", userID).
		Order("date ASC").Order("time ASC").
		Find(&out).Error
	return out, err
}

// Create stores a reminder. A medication with a positive frequency_days and
// pill_count > 1 expands into pill_count reminders spaced frequency_days
// apart; the first is returned along with the total count.
func (s *Service) Create(userID string, dto *CreateReminderDTO) (*models.Reminder, int, error) {
	typ := models.ReminderType(strings.TrimSpace(dto.Type))
	title := strings.TrimSpace(dto.Title)
	if typ == "" || title == "" || strings.TrimSpace(dto.Date) == "" {
		return nil, 0, errMissingFields
	}
	if !typ.Valid() {
		return nil, 0, errInvalidReminderType
	}
	date, err := parseDate(dto.Date)
	if err != nil {
		return nil, 0, err
	}
	var clock *string
	if dto.Time != nil && strings.TrimSpace(*dto.Time) != "" {
		v, err := parseClock(*dto.Time)
		if err != nil {
			return nil, 0, err
		}
		clock = &v
	}

	count := 1
	if typ == models.ReminderMedication && dto.FrequencyDays != nil && dto.PillCount != nil &&
		*dto.FrequencyDays > 0 && *dto.PillCount > 1 {
		count = *dto.PillCount
	}

	batch := make([]models.Reminder, 0, count)
	for i := 0; i < count; i++ {
		step := 0
		if i > 0 {
			step = i * *dto.FrequencyDays
		}
		batch = append(batch, models.Reminder{
			UserID:        userID,
			Type:          typ,
			Title:         title,
			Description:   dto.Description,
			Date:          date.AddDate(0, 0, step).Format(models.DateLayout),
			Time:          clock,
			FrequencyDays: dto.FrequencyDays,
			PillCount:     dto.PillCount,
		})
	}
	if err := s.db.Create(&batch).Error; err != nil {
		return nil, 0, err
	}
	return &batch[0], len(batch), nil
}

func (s *Service) Get(userID, id string) (*models.Reminder, error) {
	var r models.Reminder
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// Update applies dto to the user's reminder. Returns (nil, nil) when the
// reminder does not exist.
func (s *Service) Update(userID, id string, dto *UpdateReminderDTO) (*models.Reminder, error) {
	r, err := s.Get(userID, id)
	if err != nil || r == nil {
		return r, err
	}

	if dto.Type != nil && *dto.Type != "" {
		typ := models.ReminderType(*dto.Type)
		if !typ.Valid() {
			return nil, errInvalidReminderType
		}
		r.Type = typ
	}
	if dto.Title != nil && strings.TrimSpace(*dto.Title) != "" {
		r.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.has("description") {
		r.Description = ""
		if dto.Description != nil {
			r.Description = *dto.Description
		}
	}
	if dto.Date != nil && *dto.Date != "" {
		date, err := parseDate(*dto.Date)
		if err != nil {
			return nil, err
		}
		r.Date = date.Format(models.DateLayout)
	}
	if dto.has("time") {
		if dto.Time == nil || strings.TrimSpace(*dto.Time) == "" {
			r.Time = nil
		} else {
			v, err := parseClock(*dto.Time)
			if err != nil {
				return nil, err
			}
			r.Time = &v
		}
	}
	if dto.Completed != nil {
		r.Completed = *dto.Completed
	}
	if dto.has("frequency_days") {
		r.FrequencyDays = dto.FrequencyDays
	}
	if dto.has("pill_count") {
		r.PillCount = dto.PillCount
	}

	return r, s.db.Save(r).Error
}

// Delete removes one reminder and reports whether it existed.
func (s *Service) Delete(userID, id string) (bool, error) {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Reminder{})
	return res.RowsAffected > 0, res.Error
}

// DeleteAll removes every reminder of the user.
func (s *Service) DeleteAll(userID string) (int64, error) {
	res := s.db.Where("user_id = ?", userID).Delete(&models.Reminder{})
	return res.RowsAffected, res.Error
}

// Upcoming lists open reminders dated from today through today+days.
func (s *Service) Upcoming(userID string, days int) ([]models.Reminder, error) {
	now := s.now()
	from := now.Format(models.DateLayout)
	to := now.AddDate(0, 0, days).Format(models.DateLayout)

	var out []models.Reminder
	err := s.db.Where("user_id = ? AND completed = ? AND date >= ? AND date <= ?", userID, false, from, to).
		Order("date ASC").Order("time ASC").
		Find(&out).Error
	return out, err
}
