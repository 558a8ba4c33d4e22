package models

// UserModel is an account of the tracker.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;size:80;not null"`
	Email    string `json:"email"    gorm:"uniqueIndex;size:120;not null"`
	Password string `json:"-"        gorm:"size:200;not null"`
}

func (UserModel) TableName() string { return "users" }
