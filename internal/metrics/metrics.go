// Quality metrics comparing the original raster with the edited one
package metrics

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"time"

	"gocv.io/x/gocv"

	"non-destructive-image-editor/internal/imageio"
	"non-destructive-image-editor/internal/raster"
)

// ErrDimensionMismatch is returned when two rasters of different size are compared.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Metric compares two single-channel 8-bit Mats of the same size.
type Metric interface {
	Calculate(original, processed gocv.Mat) (float64, error)
	GetName() string
	GetDescription() string
	GetRange() (float64, float64)
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator returns an evaluator with the default metrics registered.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("ssim", NewSSIM())
	e.Register("contrast_ratio", NewContrastRatio())
	e.Register("sharpness", NewSharpness())
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns the registered metric names in sorted order.
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Evaluator) Calculate(name string, original, processed gocv.Mat) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

// CalculateAll runs every metric, leaving out the ones that fail.
func (e *Evaluator) CalculateAll(original, processed gocv.Mat) map[string]float64 {
	results := make(map[string]float64)
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}
	return results
}

// Compare converts both rasters to gray and runs every metric on them.
// Rasters must have the same size.
func (e *Evaluator) Compare(original, processed *image.NRGBA) (map[string]float64, error) {
	ow, oh := raster.Size(original)
	pw, ph := raster.Size(processed)
	if ow != pw || oh != ph {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, ow, oh, pw, ph)
	}

	gray1, err := toGray(original)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}
	defer gray1.Close()

	gray2, err := toGray(processed)
	if err != nil {
		return nil, fmt.Errorf("processed: %w", err)
	}
	defer gray2.Close()

	return e.CalculateAll(gray1, gray2), nil
}

// GetMetricInfo returns information about all metrics
func (e *Evaluator) GetMetricInfo() map[string]MetricInfo {
	info := make(map[string]MetricInfo)
	for name, metric := range e.metrics {
		lo, hi := metric.GetRange()
		info[name] = MetricInfo{
			Name:         metric.GetName(),
			Description:  metric.GetDescription(),
			Range:        [2]float64{lo, hi},
			HigherBetter: metric.IsHigherBetter(),
		}
	}
	return info
}

// MetricInfo provides metadata about a metric
type MetricInfo struct {
	Name         string
	Description  string
	Range        [2]float64 // [min, max]
	HigherBetter bool
}

// QualityReport summarises how far an edited raster is from its original.
type QualityReport struct {
	OverallScore float64            `json:"overall_score" yaml:"overall_score"`
	QualityLevel string             `json:"quality_level" yaml:"quality_level"` // "identical", "close", "moderate", "heavy"
	Metrics      map[string]float64 `json:"metrics" yaml:"metrics"`
	Timestamp    string             `json:"timestamp" yaml:"timestamp"`
}

// GenerateReport compares the rasters and scores the result.
func (e *Evaluator) GenerateReport(original, processed *image.NRGBA) (QualityReport, error) {
	values, err := e.Compare(original, processed)
	if err != nil {
		return QualityReport{}, err
	}

	score := e.calculateOverallScore(values)
	return QualityReport{
		OverallScore: score,
		QualityLevel: qualityLevel(score),
		Metrics:      values,
		Timestamp:    time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

// calculateOverallScore is a weighted similarity percentage over the
// pairwise metrics.
func (e *Evaluator) calculateOverallScore(values map[string]float64) float64 {
	weights := map[string]float64{
		"psnr": 0.4,
		"ssim": 0.4,
		"mse":  0.2,
	}

	totalWeight := 0.0
	weightedSum := 0.0
	for name, weight := range weights {
		if value, exists := values[name]; exists {
			weightedSum += e.normalizeMetric(name, value) * weight
			totalWeight += weight
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return (weightedSum / totalWeight) * 100
}

// normalizeMetric maps a value into [0,1] where 1 is best.
func (e *Evaluator) normalizeMetric(name string, value float64) float64 {
	metric, exists := e.metrics[name]
	if !exists {
		return 0
	}

	lo, hi := metric.GetRange()
	value = max(lo, min(hi, value))
	if hi == lo {
		return 1.0
	}

	normalized := (value - lo) / (hi - lo)
	if !metric.IsHigherBetter() {
		normalized = 1.0 - normalized
	}
	return normalized
}

func qualityLevel(score float64) string {
	switch {
	case score >= 99.99:
		return "identical"
	case score >= 75:
		return "close"
	case score >= 50:
		return "moderate"
	default:
		return "heavy"
	}
}

// toGray converts a raster to an 8-bit single-channel Mat.
func toGray(img *image.NRGBA) (gocv.Mat, error) {
	bgra, err := imageio.ToMat(img)
	if err != nil {
		return bgra, err
	}
	defer bgra.Close()

	gray := gocv.NewMat()
	if err := gocv.CvtColor(bgra, &gray, gocv.ColorBGRAToGray); err != nil {
		gray.Close()
		return gocv.Mat{}, fmt.Errorf("failed to convert to grayscale: %w", err)
	}
	return gray, nil
}
