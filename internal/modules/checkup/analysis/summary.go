package analysis

import (
	"math"
	"strconv"
)

// Summary is the derived per-analysis record.
type Summary struct {
	PlaqueDetected       bool    `json:"plaque_detected"`
	GingivitisRisk       string  `json:"gingivitis_risk"`
	CavityRisk           string  `json:"cavity_risk"`
	StainingLevel        string  `json:"staining_level"`
	OverallHealthScore   float64 `json:"overall_health_score"`
	ToothAlignment       string  `json:"tooth_alignment"`
	GumHealth            string  `json:"gum_health"`
	BadBreathRisk        string  `json:"bad_breath_risk"`
	RequiresDentistVisit bool    `json:"requires_dentist_visit"`
	Urgency              string  `json:"urgency"`
	ModelConfidence      float64 `json:"model_confidence"`
	HealthyScore         float64 `json:"healthy_score"`
}

// DefaultSummary is the summary of an analysis that detected nothing.
func DefaultSummary() Summary {
	return Summary{
		GingivitisRisk:     LevelLow,
		CavityRisk:         LevelLow,
		StainingLevel:      LevelNone,
		OverallHealthScore: DefaultScore,
		ToothAlignment:     AlignNormal,
		GumHealth:          GumGood,
		BadBreathRisk:      LevelLow,
		Urgency:            LevelNone,
	}
}

type patch func(*Summary)

// rules are applied in class order, so a later condition overwrites the
// urgency set by an earlier one (Calculus then Caries ends at "high", Caries
// then Gingivitis would end at "moderate").
var rules = map[string]patch{
	Calculus: func(s *Summary) {
		s.PlaqueDetected = true
		s.BadBreathRisk = LevelHigh
		s.RequiresDentistVisit = true
		s.Urgency = LevelModerate
	},
	Caries: func(s *Summary) {
		s.CavityRisk = LevelHigh
		s.RequiresDentistVisit = true
		s.Urgency = LevelHigh
	},
	Gingivitis: func(s *Summary) {
		s.GingivitisRisk = LevelHigh
		s.GumHealth = GumPoor
		s.RequiresDentistVisit = true
		s.Urgency = LevelModerate
	},
	MouthUlcers: func(s *Summary) {
		s.GumHealth = GumPoor
		s.RequiresDentistVisit = true
		s.Urgency = LevelHigh
	},
	ToothDiscoloration: func(s *Summary) {
		s.StainingLevel = LevelModerate
	},
}

// Summarize folds the detected conditions over the defaults and scores them.
func Summarize(detected []Condition) Summary {
	s := DefaultSummary()
	penalty := 0.0
	for _, c := range detected {
		if apply, ok := rules[c.Name]; ok {
			apply(&s)
		}
		penalty += c.Confidence * 2
	}
	s.OverallHealthScore = HealthScore(penalty)
	return s
}

// HealthScore rounds 10 - penalty to one decimal, then clamps it to [1, 10].
func HealthScore(penalty float64) float64 {
	score := round1(10 - penalty)
	return math.Max(1, math.Min(10, score))
}

// round1 rounds the exact binary value of v to one decimal, ties to even,
// so 8.45 (stored as 8.4499...) gives 8.4 and 120.25 gives 120.2.
func round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
