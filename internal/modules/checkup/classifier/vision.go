package classifier

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"strings"

	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
)

const visionMaxTokens = 300

const visionSystemPrompt = `You are a dental image screening assistant. You look at one photo of teeth and rate how strongly each listed condition is visible. You are not diagnosing.`

var visionPrompt = fmt.Sprintf(`Rate the photo for each of these classes with a confidence between 0 and 1: %s.
Reply with only a JSON object mapping each class name exactly as written to its confidence, for example {"Calculus": 0.1, "Caries": 0.05, "Gingivitis": 0.2, "Mouth Ulcers": 0.0, "Tooth Discoloration": 0.3, "Healthy": 0.6}.`,
	strings.Join(analysis.ClassNameList(), ", "))

// detectMediaType sniffs the image type, defaulting to JPEG.
func detectMediaType(image []byte) string {
	switch ct := http.DetectContentType(image); ct {
	case "image/png", "image/gif", "image/webp", "image/jpeg":
		return ct
	default:
		return "image/jpeg"
	}
}

func encodeImage(image []byte) string {
	return base64.StdEncoding.EncodeToString(image)
}

// parseScores reads a {"<class>": confidence} object into class order.
// Missing classes score 0; values are clamped to [0,1].
func parseScores(raw string) (analysis.Prediction, error) {
	var scores map[string]float64
	if err := unmarshalAIJSON(raw, &scores); err != nil {
		return nil, err
	}

	lookup := make(map[string]float64, len(scores))
	for k, v := range scores {
		lookup[strings.ToLower(strings.TrimSpace(k))] = v
	}

	vec := make(analysis.Prediction, analysis.NumClasses)
	found := 0
	for i, name := range analysis.ClassNames {
		v, ok := lookup[strings.ToLower(name)]
		if !ok {
			continue
		}
		found++
		vec[i] = min(max(v, 0), 1)
	}
	if found == 0 {
		return nil, fmt.Errorf("no class scores in AI response")
	}
	return vec, nil
}

func unmarshalAIJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("invalid JSON response from AI")
}

// normalizeOpenAIBaseURL makes sure a custom endpoint ends in /v1.
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
