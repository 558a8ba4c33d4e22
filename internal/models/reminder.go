package models

// ReminderType distinguishes dentist appointments from medication doses.
type ReminderType string

const (
	ReminderAppointment ReminderType = "appointment"
	ReminderMedication  ReminderType = "medication"
)

// Valid reports whether t is a known reminder type.
func (t ReminderType) Valid() bool {
	return t == ReminderAppointment || t == ReminderMedication
}

// Reminder is a dated appointment or medication note that is emailed on its day.
type Reminder struct {
	Base
	UserID        string       `json:"-"              gorm:"type:char(36);index;not null"`
	Type          ReminderType `json:"type"           gorm:"size:20;not null"`
	Title         string       `json:"title"          gorm:"size:200;not null"`
	Description   string       `json:"description"    gorm:"type:text"`
	Date          string       `json:"date"           gorm:"type:varchar(10);index;not null"`
	Time          *string      `json:"time"           gorm:"type:varchar(5)"`
	Completed     bool         `json:"completed"      gorm:"index"`
	FrequencyDays *int         `json:"frequency_days"`
	PillCount     *int         `json:"pill_count"`
	EmailSent     bool         `json:"email_sent"     gorm:"index"`
}

func (Reminder) TableName() string { return "reminders" }
