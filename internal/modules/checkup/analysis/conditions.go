// Package analysis turns classifier output into detected dental conditions,
// an analysis summary and a Markdown advisory.
package analysis

// Class order of every prediction vector.
const (
	Calculus           = "Calculus"
	Caries             = "Caries"
	Gingivitis         = "Gingivitis"
	MouthUlcers        = "Mouth Ulcers"
	ToothDiscoloration = "Tooth Discoloration"
	Healthy            = "Healthy"
)

// ClassNames lists the classifier classes in vector order. Only the first
// DetectableClasses entries can be reported as conditions.
var ClassNames = [...]string{Calculus, Caries, Gingivitis, MouthUlcers, ToothDiscoloration, Healthy}

// DisplayNames are the user-facing labels, in vector order.
var DisplayNames = [...]string{
	"Calculus (Tartar)",
	"Dental Caries (Cavities)",
	"Gingivitis (Gum Inflammation)",
	"Mouth Ulcers",
	"Tooth Discoloration",
	"Healthy Teeth",
}

const (
	NumClasses        = len(ClassNames)
	DetectableClasses = 5
	healthyIndex      = 5

	// LiveThreshold applies to a loaded model, FallbackThreshold to generated vectors.
	LiveThreshold     = 0.75
	FallbackThreshold = 0.2
)

// Risk, staining and urgency levels used by Summary.
const (
	LevelNone     = "none"
	LevelLow      = "low"
	LevelModerate = "moderate"
	LevelHigh     = "high"

	GumGood      = "good"
	GumPoor      = "poor"
	AlignNormal  = "normal"
	DefaultScore = 8.0
)

// Condition is one detected class with its raw confidence.
type Condition struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Severity tiers a confidence: high above 0.85, moderate above 0.75.
func (c Condition) Severity() string {
	switch {
	case c.Confidence > 0.85:
		return LevelHigh
	case c.Confidence > 0.75:
		return LevelModerate
	default:
		return LevelLow
	}
}

// ClassNameList returns ClassNames as a slice.
func ClassNameList() []string {
	return append([]string(nil), ClassNames[:]...)
}

// DisplayNameMap maps class names to their labels.
func DisplayNameMap() map[string]string {
	out := make(map[string]string, NumClasses)
	for i, name := range ClassNames {
		out[name] = DisplayNames[i]
	}
	return out
}
