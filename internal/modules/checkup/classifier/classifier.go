// Package classifier provides the image classifier backends behind the
// checkup analyzer.
package classifier

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mx-space/dentalcare/internal/config"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	"go.uber.org/zap"
)

var (
	errEmptyImage      = errors.New("image is empty")
	errBadVectorLength = errors.New("unexpected prediction length")
)

// New builds the classifier selected by cfg. The fallback provider yields a
// nil classifier, which the analyzer treats as "no model loaded".
func New(cfg config.ClassifierRuntimeConfig, logger *zap.Logger) (analysis.Classifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{Timeout: cfg.Timeout()}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", config.ClassifierFallback:
		logger.Warn("no classifier model configured, analyses will use fallback predictions")
		return nil, nil
	case config.ClassifierTFServing:
		return NewTFServing(cfg.Endpoint, cfg.Model, cfg.InputSize, client), nil
	case config.ClassifierAnthropic:
		return NewAnthropic(cfg.APIKey, cfg.Endpoint, cfg.Model, client), nil
	case config.ClassifierOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Endpoint, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}

func checkLength(vec analysis.Prediction) error {
	if len(vec) != analysis.NumClasses {
		return fmt.Errorf("%w: got %d, want %d", errBadVectorLength, len(vec), analysis.NumClasses)
	}
	return nil
}
