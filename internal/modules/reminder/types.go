package reminder

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/mx-space/dentalcare/internal/models"
)

type CreateReminderDTO struct {
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	Time          *string `json:"time"`
	FrequencyDays *int    `json:"frequency_days"`
	PillCount     *int    `json:"pill_count"`
}

// UpdateReminderDTO is a partial update. Fields that may be cleared record
// whether their key was present at all.
type UpdateReminderDTO struct {
	Type          *string `json:"type"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	Completed     *bool   `json:"completed"`
	FrequencyDays *int    `json:"frequency_days"`
	PillCount     *int    `json:"pill_count"`

	present map[string]bool
}

func (d *UpdateReminderDTO) UnmarshalJSON(data []byte) error {
	type plain UpdateReminderDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*d = UpdateReminderDTO(p)
	d.present = make(map[string]bool, len(keys))
	for k := range keys {
		d.present[k] = true
	}
	return nil
}

func (d *UpdateReminderDTO) has(key string) bool {
	return d.present[key]
}

type reminderResponse struct {
	ID            string              `json:"id"`
	Type          models.ReminderType `json:"type"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Date          string              `json:"date"`
	Time          *string             `json:"time"`
	Completed     bool                `json:"completed"`
	FrequencyDays *int                `json:"frequency_days"`
	PillCount     *int                `json:"pill_count"`
	EmailSent     bool                `json:"email_sent"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toResponse(r *models.Reminder) reminderResponse {
	return reminderResponse{
		ID:            r.ID,
		Type:          r.Type,
		Title:         r.Title,
		Description:   r.Description,
		Date:          r.Date,
		Time:          r.Time,
		Completed:     r.Completed,
		FrequencyDays: r.FrequencyDays,
		PillCount:     r.PillCount,
		EmailSent:     r.EmailSent,
		CreatedAt:     r.CreatedAt,
	}
}

func toResponses(list []models.Reminder) []reminderResponse {
	out := make([]reminderResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out
}

var (
	errMissingFields       = errors.New("missing required fields (type, title, date)")
	errInvalidReminderType = errors.New(`invalid type, must be "appointment" or "medication"`)
	errInvalidDate         = errors.New("invalid date format, use YYYY-MM-DD")
	errInvalidTime         = errors.New("invalid time format, use HH:MM")
)
