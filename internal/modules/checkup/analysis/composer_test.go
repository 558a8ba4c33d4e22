package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeHealthy(t *testing.T) {
	res := Detect([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, true)

	want := "# AI Dental Analysis & Recommendations\n\n" +
		"## 📋 Personalized Recommendations\n\n" +
		"✅ **Good News!** No significant dental issues detected\n\n" +
		"\n**Maintenance Routine:**\n\n" +
		"- Continue brushing twice daily for 2 minutes\n" +
		"- Floss at least once daily\n" +
		"- Use fluoride toothpaste\n" +
		"- Schedule dental checkups every 6 months\n" +
		"- **Tip**: Your brushing consistency is 0% - try to improve to 90%+\n" +
		"- **Tip**: Your flossing consistency is 0% - aim for at least 70%\n" +
		"- **Tip**: Average brushing time is 0s - aim for 120 seconds\n" +
		"\n" +
		"## 💡 Lifestyle & Prevention Tips\n\n" +
		"- Set reminders on your phone to brush twice daily\n" +
		"- Keep floss in visible locations (bathroom counter, bedside table)\n" +
		"\n" +
		"## 📊 Overall Oral Health Score: 10.0/10\n\n" +
		disclaimer

	assert.Equal(t, want, Compose(res, HabitInputs{}))
}

func TestComposeHealthyWithGoodHabits(t *testing.T) {
	res := Detect([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.9}, true)
	doc := Compose(res, HabitInputs{BrushingConsistency: 95, FlossingConsistency: 80, AvgBrushingTime: 130})

	assert.Contains(t, doc, "✅ **Excellent News!** Your teeth appear healthy (Confidence: 90.0%)\n\n")
	assert.NotContains(t, doc, "**Tip**")
	assert.NotContains(t, doc, "Lifestyle & Prevention Tips")
	assert.NotContains(t, doc, "Detected Conditions")
}

func TestComposeCalculusHigh(t *testing.T) {
	res := Detect([]float64{0.9, 0.1, 0.1, 0.1, 0.1, 0.1}, true)
	doc := Compose(res, HabitInputs{BrushingConsistency: 90, FlossingConsistency: 90, AvgBrushingTime: 120})

	assert.True(t, strings.HasPrefix(doc, "# AI Dental Analysis & Recommendations\n\n## 🔴 Detected Conditions\n\n"+
		"🦷 **Calculus (Tartar) Detected** (90.0% confidence)\n\n"))
	assert.Contains(t, doc, "⚠️ **Immediate Action Required**: Schedule a professional dental cleaning within 1-2 weeks\n\n")
	assert.Contains(t, doc, "\n\n\n**Home Care Tips:**\n\n- Brush at least twice daily, especially along the gumline\n")
	assert.Contains(t, doc, "- Consider using an antimicrobial mouthwash\n\n## 💡 Lifestyle & Prevention Tips\n\n")
	assert.Contains(t, doc, "## 📊 Overall Oral Health Score: 8.2/10\n\n")
	assert.Contains(t, doc, "📅 **Recommended**: Schedule a dentist appointment soon\n\n---\n")
	assert.True(t, strings.HasSuffix(doc, disclaimer))
	assert.NotContains(t, doc, "Set reminders on your phone")
}

func TestComposeCariesModerateIsUrgent(t *testing.T) {
	res := Detect([]float64{0.1, 0.8, 0.1, 0.1, 0.1, 0.1}, true)
	doc := Compose(res, HabitInputs{BrushingConsistency: 90, FlossingConsistency: 90, AvgBrushingTime: 120})

	assert.Contains(t, doc, "Schedule a dentist appointment within 1 week for cavity treatment\n\n")
	assert.NotContains(t, doc, "within 2-3 days")
	assert.Contains(t, doc, "**What to Expect**: Your dentist will likely recommend a filling or other restoration\n\n")
	assert.Contains(t, doc, "⚠️ **URGENT**: Schedule a dentist appointment IMMEDIATELY\n\n")
}

func TestComposeGingivitisFlossingWarning(t *testing.T) {
	res := Detect([]float64{0.1, 0.1, 0.8, 0.1, 0.1, 0.1}, true)

	low := Compose(res, HabitInputs{BrushingConsistency: 90, FlossingConsistency: 30})
	assert.Contains(t, low, "- **IMPORTANT**: Your flossing consistency is low - increase to daily!\n")
	assert.Contains(t, low, "- Keep floss in visible locations (bathroom counter, bedside table)\n")

	ok := Compose(res, HabitInputs{BrushingConsistency: 90, FlossingConsistency: 60})
	assert.NotContains(t, ok, "**IMPORTANT**")
}

func TestComposeDiscolorationHasNoBanner(t *testing.T) {
	res := Detect([]float64{0.1, 0.1, 0.1, 0.1, 0.95, 0.1}, true)
	doc := Compose(res, HabitInputs{BrushingConsistency: 90, FlossingConsistency: 90})

	assert.Contains(t, doc, "🦷 **Tooth Discoloration Detected** (95.0% confidence)")
	assert.NotContains(t, doc, "URGENT")
	assert.NotContains(t, doc, "**Recommended**")
}

func TestComposeIdempotent(t *testing.T) {
	res := Detect([]float64{0.9, 0.8, 0.95, 0.77, 0.9, 0.1}, true)
	habits := HabitInputs{BrushingConsistency: 40, FlossingConsistency: 10, AvgBrushingTime: 45}
	assert.Equal(t, Compose(res, habits), Compose(res, habits))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "8.0", formatScore(8))
	assert.Equal(t, "8.2", formatScore(8.2))
	assert.Equal(t, "1.0", formatScore(1))
	assert.Equal(t, "10.0", formatScore(10))
}

func TestComposeMouthUlcers(t *testing.T) {
	res := Detect([]float64{0.1, 0.1, 0.1, 0.9, 0.1, 0.1}, true)

	want := "# AI Dental Analysis & Recommendations\n\n" +
		"## 🔴 Detected Conditions\n\n" +
		"🦷 **Mouth Ulcers Detected** (90.0% confidence)\n\n" +
		"## 📋 Personalized Recommendations\n\n" +
		"\n**Immediate Relief:**\n\n" +
		"- Rinse with warm salt water (1 tsp salt in 1 cup water) 3-4 times daily\n" +
		"- Apply over-the-counter oral gel (benzocaine or lidocaine)\n" +
		"- Avoid spicy, acidic, or rough foods that irritate ulcers\n" +
		"- Use a soft-bristled toothbrush to prevent further irritation\n" +
		"**Healing Timeline**: Most ulcers heal within 1-2 weeks\n\n" +
		"\n**When to See a Doctor:**\n\n" +
		"- If ulcers persist beyond 3 weeks\n" +
		"- If you have frequent recurring ulcers\n" +
		"- If accompanied by fever or severe pain\n" +
		"\n" +
		"## 💡 Lifestyle & Prevention Tips\n\n" +
		"- Reduce stress through relaxation techniques (meditation, exercise)\n" +
		"- Take vitamin B12 and folic acid supplements if deficient\n" +
		"- Avoid foods that trigger ulcers (nuts, chips, acidic fruits)\n" +
		"\n" +
		"## 📊 Overall Oral Health Score: 8.2/10\n\n" +
		"⚠️ **URGENT**: Schedule a dentist appointment IMMEDIATELY\n\n" +
		disclaimer

	assert.Equal(t, want, Compose(res, HabitInputs{BrushingConsistency: 90, FlossingConsistency: 90, AvgBrushingTime: 120}))
}

func TestComposeHabitTipsAccumulateWithConditions(t *testing.T) {
	res := Detect([]float64{0.9, 0.1, 0.1, 0.1, 0.1, 0.1}, true)
	tips := "## 💡 Lifestyle & Prevention Tips\n\n" +
		"- Avoid sugary and acidic foods that promote tartar formation\n" +
		"- Reduce coffee and tea consumption to prevent further staining\n"

	cases := []struct {
		name   string
		habits HabitInputs
		extra  string
	}{
		{"both low", HabitInputs{BrushingConsistency: 59.9, FlossingConsistency: 39.9},
			"- Set reminders on your phone to brush twice daily\n" +
				"- Keep floss in visible locations (bathroom counter, bedside table)\n"},
		{"brushing low", HabitInputs{BrushingConsistency: 59.9, FlossingConsistency: 40},
			"- Set reminders on your phone to brush twice daily\n"},
		{"flossing low", HabitInputs{BrushingConsistency: 60, FlossingConsistency: 39.9},
			"- Keep floss in visible locations (bathroom counter, bedside table)\n"},
		{"at thresholds", HabitInputs{BrushingConsistency: 60, FlossingConsistency: 40}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Compose(res, tc.habits)
			assert.Contains(t, doc, tips+tc.extra+"\n## 📊")
			assert.NotContains(t, doc, "**Tip**")
		})
	}
}

func TestComposeFailureReturnsGenericAdvisory(t *testing.T) {
	const name = "Broken Guide"
	guide[name] = guidance{
		label: name,
		extra: func(HabitInputs) []string { panic("broken guide") },
	}
	t.Cleanup(func() { delete(guide, name) })

	res := Detect([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, true)
	res.DetectedConditions = []Condition{{Name: name, Confidence: 0.9}}

	assert.Equal(t, GenericAdvisory, Compose(res, HabitInputs{}))
}
