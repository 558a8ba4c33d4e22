package checkup

import (
	"errors"
	"time"

	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
)

// maxImageBytes bounds uploads and decoded data URIs.
const maxImageBytes = 10 << 20

var (
	errNoImage      = errors.New("no image provided")
	errInvalidImage = errors.New("invalid image data")
	errImageTooBig  = errors.New("image exceeds 10 MiB")
)

// ImageDTO is the JSON form of an upload: a data URI or bare base64.
type ImageDTO struct {
	Image string `json:"image"`
}

// AnalysisView is the flattened analysis stored with a checkup and returned
// to clients.
type AnalysisView struct {
	ModelLoaded          bool                 `json:"model_loaded"`
	DetectedConditions   []analysis.Condition `json:"detected_conditions"`
	OverallHealthScore   float64              `json:"overall_health_score"`
	PlaqueDetected       bool                 `json:"plaque_detected"`
	GingivitisRisk       string               `json:"gingivitis_risk"`
	CavityRisk           string               `json:"cavity_risk"`
	StainingLevel        string               `json:"staining_level"`
	ToothAlignment       string               `json:"tooth_alignment"`
	GumHealth            string               `json:"gum_health"`
	BadBreathRisk        string               `json:"bad_breath_risk"`
	RequiresDentistVisit bool                 `json:"requires_dentist_visit"`
	Urgency              string               `json:"urgency"`
	ModelConfidence      float64              `json:"model_confidence"`
	HealthyScore         float64              `json:"healthy_score"`
	HealthMessage        string               `json:"health_message,omitempty"`
	Error                string               `json:"error,omitempty"`
	AnalysisTimestamp    string               `json:"analysis_timestamp"`
	ModelUsed            string               `json:"model_used"`
}

func flatten(res analysis.Result) AnalysisView {
	s := res.Analysis
	detected := res.DetectedConditions
	if detected == nil {
		detected = []analysis.Condition{}
	}
	return AnalysisView{
		ModelLoaded:          res.ModelLoaded,
		DetectedConditions:   detected,
		OverallHealthScore:   s.OverallHealthScore,
		PlaqueDetected:       s.PlaqueDetected,
		GingivitisRisk:       s.GingivitisRisk,
		CavityRisk:           s.CavityRisk,
		StainingLevel:        s.StainingLevel,
		ToothAlignment:       s.ToothAlignment,
		GumHealth:            s.GumHealth,
		BadBreathRisk:        s.BadBreathRisk,
		RequiresDentistVisit: s.RequiresDentistVisit,
		Urgency:              s.Urgency,
		ModelConfidence:      s.ModelConfidence,
		HealthyScore:         s.HealthyScore,
		HealthMessage:        res.HealthMessage,
		Error:                res.Error,
		AnalysisTimestamp:    res.AnalysisTimestamp,
		ModelUsed:            res.ModelUsed,
	}
}

// Outcome is the response of a completed checkup.
type Outcome struct {
	Analysis            AnalysisView `json:"analysis"`
	Recommendations     string       `json:"recommendations"`
	RecommendationsHTML string       `json:"recommendations_html"`
	CheckupID           string       `json:"checkup_id"`
	Timestamp           time.Time    `json:"timestamp"`
}

type analysisSummary struct {
	DetectedConditions []analysis.Condition `json:"detected_conditions"`
	OverallHealthScore float64              `json:"overall_health_score"`
	PlaqueDetected     bool                 `json:"plaque_detected"`
	ModelConfidence    float64              `json:"model_confidence"`
}

type historyItem struct {
	ID                 string          `json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	AnalysisSummary    analysisSummary `json:"analysis_summary"`
	HasRecommendations bool            `json:"has_recommendations"`
}

type detailResponse struct {
	ID                  string       `json:"id"`
	CreatedAt           time.Time    `json:"created_at"`
	Analysis            AnalysisView `json:"analysis"`
	Recommendations     string       `json:"recommendations"`
	RecommendationsHTML string       `json:"recommendations_html"`
}
