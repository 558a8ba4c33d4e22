package models

// AICheckup stores one image screening together with its serialized analysis
// and the rendered recommendation document.
type AICheckup struct {
	Base
	UserID            string `json:"-"                  gorm:"type:char(36);index;not null"`
	ImagePath         string `json:"image_path"         gorm:"size:500"`
	AnalysisResult    string `json:"analysis_result"    gorm:"type:text"`
	AIRecommendations string `json:"ai_recommendations" gorm:"type:text"`
}

func (AICheckup) TableName() string { return "ai_checkups" }
