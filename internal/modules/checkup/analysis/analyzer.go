package analysis

import (
	"context"
	"time"

	"github.com/mx-space/dentalcare/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Prediction is a per-class probability vector in ClassNames order.
type Prediction []float64

// Classifier produces a prediction for one image.
type Classifier interface {
	Name() string
	Loaded() bool
	Classify(ctx context.Context, image []byte) (Prediction, error)
}

// Analyzer runs a classifier and turns its output into a Result. Classifier
// failures never propagate; they degrade to the fallback vector.
type Analyzer struct {
	classifier Classifier
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyzer wraps classifier, which may be nil. m may be nil.
func NewAnalyzer(classifier Classifier, m *metrics.Metrics, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		classifier: classifier,
		metrics:    m,
		logger:     logger.Named("Classifier"),
		now:        time.Now,
	}
}

// ModelLoaded reports whether analyses use a real model.
func (a *Analyzer) ModelLoaded() bool {
	return a.classifier != nil && a.classifier.Loaded()
}

// ModelName is the configured classifier name, or FallbackModelID.
func (a *Analyzer) ModelName() string {
	if !a.ModelLoaded() {
		return FallbackModelID
	}
	return a.classifier.Name()
}

// Analyze classifies image and detects conditions.
func (a *Analyzer) Analyze(ctx context.Context, image []byte) Result {
	var res Result
	name := a.ModelName()

	switch {
	case !a.ModelLoaded():
		res = Fallback("")
		a.metrics.RecordAnalysis(name, "fallback")
	default:
		start := a.now()
		vec, err := a.classifier.Classify(ctx, image)
		a.metrics.ObserveClassify(name, a.now().Sub(start))
		if err != nil {
			a.logger.Warn("classification failed, using fallback", zap.String("classifier", name), zap.Error(err))
			res = Fallback(err.Error())
			a.metrics.RecordAnalysis(name, "error")
		} else {
			res = Detect(vec, true)
			a.metrics.RecordAnalysis(name, "ok")
		}
	}

	for _, c := range res.DetectedConditions {
		a.metrics.RecordCondition(c.Name)
	}
	res.Stamp(name, a.now())
	return res
}
