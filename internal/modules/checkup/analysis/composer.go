package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// HabitInputs are the habit figures that personalize the advisory.
type HabitInputs struct {
	BrushingConsistency float64 `json:"brushing_consistency"`
	FlossingConsistency float64 `json:"flossing_consistency"`
	AvgBrushingTime     float64 `json:"avg_brushing_time"`
}

// GenericAdvisory is returned when composing fails.
const GenericAdvisory = "# AI Dental Recommendations\n\n" +
	"1. Brush teeth twice daily for 2 minutes\n" +
	"2. Floss regularly\n" +
	"3. Use fluoride toothpaste\n" +
	"4. Visit dentist for regular checkups\n\n" +
	"*Note: Consult a dental professional for personalized advice.*"

const disclaimer = "---\n*Note: This is AI-generated advice based on image analysis. Always consult a licensed dental professional for accurate diagnosis and treatment.*"

type guidance struct {
	label string
	// high is used for high severity, other for moderate and low.
	high, other []string
	care        []string
	tips        []string
	extra       func(h HabitInputs) []string
}

var guide = map[string]guidance{
	Calculus: {
		label: "Calculus (Tartar) Detected",
		high: []string{
			"⚠️ **Immediate Action Required**: Schedule a professional dental cleaning within 1-2 weeks",
			"Heavy tartar buildup can lead to gum disease and tooth decay if untreated",
		},
		other: []string{"Schedule a professional dental cleaning within the next month"},
		care: []string{
			"**Home Care Tips:**",
			"- Brush at least twice daily, especially along the gumline",
			"- Use an electric toothbrush for more effective plaque removal",
			"- Floss daily to prevent tartar buildup between teeth",
			"- Use anti-tartar toothpaste with fluoride",
			"- Consider using an antimicrobial mouthwash",
		},
		tips: []string{
			"Avoid sugary and acidic foods that promote tartar formation",
			"Reduce coffee and tea consumption to prevent further staining",
		},
	},
	Caries: {
		label: "Dental Caries (Cavities) Detected",
		high: []string{
			"🚨 **Urgent**: Schedule a dentist appointment IMMEDIATELY (within 2-3 days)",
			"Untreated cavities can lead to severe pain, infection, and tooth loss",
		},
		other: []string{"Schedule a dentist appointment within 1 week for cavity treatment"},
		care: []string{
			"**What to Expect**: Your dentist will likely recommend a filling or other restoration",
			"**Prevention Strategy:**",
			"- Brush with fluoride toothpaste after every meal",
			"- Floss daily to remove food particles between teeth",
			"- Avoid sticky and sugary foods (candy, soda, pastries)",
			"- Rinse with fluoride mouthwash daily",
			"- Consider dental sealants for cavity-prone teeth",
		},
		tips: []string{
			"Limit snacking between meals to reduce acid attacks on teeth",
			"Drink water throughout the day to wash away food particles",
			"Chew sugar-free gum after meals to stimulate saliva production",
		},
	},
	Gingivitis: {
		label: "Gingivitis (Gum Inflammation) Detected",
		high: []string{
			"⚠️ Schedule a dental checkup within 2 weeks",
			"Severe gingivitis can progress to periodontitis, causing permanent damage",
		},
		other: []string{"Schedule a dental checkup within 3-4 weeks"},
		care: []string{
			"**Good News**: Gingivitis is reversible with proper oral hygiene!",
			"**Intensive Gum Care Routine:**",
			"- Brush teeth for 2 minutes, twice daily, focusing on the gumline",
			"- Floss at least once daily - this is CRITICAL for gum health",
			"- Use a soft-bristled toothbrush to avoid irritating gums",
			"- Rinse with antiseptic mouthwash (chlorhexidine or essential oils)",
			"- Massage gums gently with your toothbrush in circular motions",
		},
		extra: func(h HabitInputs) []string {
			if h.FlossingConsistency < 50 {
				return []string{"- **IMPORTANT**: Your flossing consistency is low - increase to daily!"}
			}
			return nil
		},
		tips: []string{
			"Avoid tobacco products - they significantly worsen gum disease",
			"Eat foods rich in Vitamin C (oranges, strawberries) to support gum health",
			"Stay hydrated to maintain healthy saliva flow",
		},
	},
	MouthUlcers: {
		label: "Mouth Ulcers Detected",
		care: []string{
			"**Immediate Relief:**",
			"- Rinse with warm salt water (1 tsp salt in 1 cup water) 3-4 times daily",
			"- Apply over-the-counter oral gel (benzocaine or lidocaine)",
			"- Avoid spicy, acidic, or rough foods that irritate ulcers",
			"- Use a soft-bristled toothbrush to prevent further irritation",
			"**Healing Timeline**: Most ulcers heal within 1-2 weeks",
			"**When to See a Doctor:**",
			"- If ulcers persist beyond 3 weeks",
			"- If you have frequent recurring ulcers",
			"- If accompanied by fever or severe pain",
		},
		tips: []string{
			"Reduce stress through relaxation techniques (meditation, exercise)",
			"Take vitamin B12 and folic acid supplements if deficient",
			"Avoid foods that trigger ulcers (nuts, chips, acidic fruits)",
		},
	},
	ToothDiscoloration: {
		label: "Tooth Discoloration Detected",
		care: []string{
			"**Whitening Options:**",
			"- Professional in-office whitening (fastest, most effective)",
			"- Dentist-provided take-home whitening trays (gradual results)",
			"- Over-the-counter whitening strips (moderate results)",
			"- Whitening toothpaste for maintenance (mild results)",
			"**Prevention & Maintenance:**",
			"- Brush within 30 minutes of consuming staining foods/drinks",
			"- Use a straw when drinking coffee, tea, or dark sodas",
			"- Rinse mouth with water after consuming pigmented beverages",
			"- Get professional cleanings every 6 months",
		},
		tips: []string{
			"Limit consumption of staining foods (coffee, tea, red wine, berries)",
			"Quit smoking/tobacco use - major cause of discoloration",
			"Maintain excellent oral hygiene to prevent surface stains",
		},
	},
}

var maintenanceRoutine = []string{
	"**Maintenance Routine:**",
	"- Continue brushing twice daily for 2 minutes",
	"- Floss at least once daily",
	"- Use fluoride toothpaste",
	"- Schedule dental checkups every 6 months",
}

// Compose renders the Markdown advisory for an analysis result. It never
// fails: any internal error yields GenericAdvisory.
func Compose(res Result, habits HabitInputs) (doc string) {
	defer func() {
		if r := recover(); r != nil {
			doc = GenericAdvisory
		}
	}()
	return compose(res.DetectedConditions, res.Analysis, habits)
}

func compose(detected []Condition, summary Summary, h HabitInputs) string {
	var actions, recs, tips []string

	for _, c := range detected {
		g, ok := guide[c.Name]
		if !ok {
			continue
		}
		actions = append(actions, fmt.Sprintf("🦷 **%s** (%s confidence)", g.label, percent(c.Confidence)))
		if c.Severity() == LevelHigh {
			recs = append(recs, g.high...)
		} else {
			recs = append(recs, g.other...)
		}
		recs = append(recs, g.care...)
		if g.extra != nil {
			recs = append(recs, g.extra(h)...)
		}
		tips = append(tips, g.tips...)
	}

	if len(detected) == 0 {
		if summary.HealthyScore > 0.5 {
			recs = append(recs, fmt.Sprintf("✅ **Excellent News!** Your teeth appear healthy (Confidence: %s)", percent(summary.HealthyScore)))
		} else {
			recs = append(recs, "✅ **Good News!** No significant dental issues detected")
		}
		recs = append(recs, maintenanceRoutine...)
		if h.BrushingConsistency < 80 {
			recs = append(recs, fmt.Sprintf("- **Tip**: Your brushing consistency is %.0f%% - try to improve to 90%%+", h.BrushingConsistency))
		}
		if h.FlossingConsistency < 50 {
			recs = append(recs, fmt.Sprintf("- **Tip**: Your flossing consistency is %.0f%% - aim for at least 70%%", h.FlossingConsistency))
		}
		if h.AvgBrushingTime < 120 {
			recs = append(recs, fmt.Sprintf("- **Tip**: Average brushing time is %.0fs - aim for 120 seconds", h.AvgBrushingTime))
		}
	}

	if h.BrushingConsistency < 60 {
		tips = append(tips, "Set reminders on your phone to brush twice daily")
	}
	if h.FlossingConsistency < 40 {
		tips = append(tips, "Keep floss in visible locations (bathroom counter, bedside table)")
	}

	return assemble(actions, recs, tips, summary)
}

func assemble(actions, recs, tips []string, summary Summary) string {
	var b strings.Builder
	b.WriteString("# AI Dental Analysis & Recommendations\n\n")

	if len(actions) > 0 {
		b.WriteString("## 🔴 Detected Conditions\n\n")
		for _, a := range actions {
			b.WriteString(a + "\n\n")
		}
	}

	if len(recs) > 0 {
		b.WriteString("## 📋 Personalized Recommendations\n\n")
		for _, r := range recs {
			switch {
			case strings.HasPrefix(r, "**") && strings.HasSuffix(r, ":**"):
				b.WriteString("\n" + r + "\n\n")
			case strings.HasPrefix(r, "-"):
				b.WriteString(r + "\n")
			default:
				b.WriteString(r + "\n\n")
			}
		}
		b.WriteString("\n")
	}

	if len(tips) > 0 {
		b.WriteString("## 💡 Lifestyle & Prevention Tips\n\n")
		for _, t := range tips {
			b.WriteString("- " + t + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## 📊 Overall Oral Health Score: %s/10\n\n", formatScore(summary.OverallHealthScore))

	if summary.RequiresDentistVisit {
		if summary.Urgency == LevelHigh {
			b.WriteString("⚠️ **URGENT**: Schedule a dentist appointment IMMEDIATELY\n\n")
		} else {
			b.WriteString("📅 **Recommended**: Schedule a dentist appointment soon\n\n")
		}
	}

	b.WriteString(disclaimer)
	return b.String()
}

// formatScore prints a score with at least one decimal: 8 -> "8.0", 8.2 -> "8.2".
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
