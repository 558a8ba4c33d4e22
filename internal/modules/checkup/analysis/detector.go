package analysis

import (
	"fmt"
	"time"
)

const (
	healthyMessage  = "Your teeth appear clean and healthy!"
	FallbackModelID = "Mock_Fallback"
)

// Result is the analysis of one image, serialized as the checkup's
// analysis_result.
type Result struct {
	ModelLoaded        bool        `json:"model_loaded"`
	Predictions        []float64   `json:"predictions"`
	ClassNames         []string    `json:"class_names"`
	DetectedConditions []Condition `json:"detected_conditions"`
	Analysis           Summary     `json:"analysis"`
	HealthMessage      string      `json:"health_message,omitempty"`
	Error              string      `json:"error,omitempty"`
	AnalysisTimestamp  string      `json:"analysis_timestamp,omitempty"`
	ModelUsed          string      `json:"model_used,omitempty"`
}

// Detect thresholds vec into conditions and builds the summary. The vector
// is used as given; nothing is renormalized.
func Detect(vec []float64, modelLoaded bool) Result {
	threshold := FallbackThreshold
	if modelLoaded {
		threshold = LiveThreshold
	}

	detected := make([]Condition, 0, DetectableClasses)
	for i, v := range vec {
		if i >= DetectableClasses {
			break
		}
		if v > threshold {
			detected = append(detected, Condition{Name: ClassNames[i], Confidence: v})
		}
	}

	healthy := 0.0
	if len(vec) > healthyIndex {
		healthy = vec[healthyIndex]
	}

	summary := Summarize(detected)
	summary.ModelConfidence = maxOf(vec)
	summary.HealthyScore = healthy

	res := Result{
		ModelLoaded:        modelLoaded,
		Predictions:        append([]float64(nil), vec...),
		ClassNames:         ClassNameList(),
		DetectedConditions: detected,
		Analysis:           summary,
	}
	if len(detected) == 0 {
		res.HealthMessage = healthyMessage
		if healthy > 0.5 {
			res.HealthMessage = fmt.Sprintf("%s (Confidence: %s)", healthyMessage, percent(healthy))
		}
	}
	return res
}

// Stamp records when and by which model the result was produced.
func (r *Result) Stamp(modelName string, at time.Time) {
	r.AnalysisTimestamp = at.Format("2006-01-02T15:04:05.000000")
	if r.ModelLoaded {
		r.ModelUsed = modelName
	} else {
		r.ModelUsed = FallbackModelID
	}
}

func maxOf(vec []float64) float64 {
	if len(vec) == 0 {
		return 0
	}
	m := vec[0]
	for _, v := range vec[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// percent formats a fraction with one decimal, 0.9 -> "90.0%".
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
