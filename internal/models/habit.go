package models

// DailyHabit is one user's brushing/flossing log for a single calendar day.
type DailyHabit struct {
	Base
	UserID       string `json:"-"             gorm:"type:char(36);not null;uniqueIndex:idx_habit_user_date"`
	Date         string `json:"date"          gorm:"type:varchar(10);not null;uniqueIndex:idx_habit_user_date"`
	Brushed      bool   `json:"brushed"`
	Flossed      bool   `json:"flossed"`
	BrushingTime *int   `json:"brushing_time"`
}

func (DailyHabit) TableName() string { return "daily_habits" }
