// Package model wraps tree-ensemble regression inference for the demo
// service. Model files use the LightGBM text serialization and are parsed by
// the leaves library; this package only adds input validation, metrics and
// model metadata on top of the raw ensemble.
package model

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dmitryikh/leaves"
	"github.com/rs/zerolog/log"
)

// MetricsSink defines the metrics methods needed by the regressor.
type MetricsSink interface {
	PredictionsInc()
	PredictionFailuresInc()
	ModelLoadsInc()
	ModelLoadObserve(float64)
	ModelAgeSet(float64)
}

// booster is the slice of the leaves ensemble API the regressor uses.
// Kept as an interface so tests can stub inference without a model file.
type booster interface {
	Name() string
	NFeatures() int
	NEstimators() int
	Predict(fvals []float64, nEstimators int, predictions []float64) error
	PredictDense(vals []float64, nrows int, ncols int, predictions []float64, nEstimators int, nThreads int) error
}

// Regressor is a loaded tree-ensemble regression model. Instances are cheap
// and single-use by design: the serving path loads a fresh one per request so
// that model file updates are picked up immediately.
type Regressor struct {
	ensemble booster
	path     string
	modTime  time.Time
	metrics  MetricsSink
}

// Load parses the model file at path.
func Load(path string) (*Regressor, error) {
	return LoadWithMetrics(path, nil)
}

// LoadWithMetrics parses the model file at path and reports load metrics to
// the given sink. A nil sink disables metrics.
func LoadWithMetrics(path string, sink MetricsSink) (*Regressor, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}

	ensemble, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}

	r := &Regressor{
		ensemble: ensemble,
		path:     path,
		modTime:  info.ModTime(),
		metrics:  sink,
	}

	if sink != nil {
		sink.ModelLoadsInc()
		sink.ModelLoadObserve(time.Since(start).Seconds())
		sink.ModelAgeSet(time.Since(info.ModTime()).Seconds())
	}

	log.Debug().
		Str("path", path).
		Int("features", ensemble.NFeatures()).
		Int("trees", ensemble.NEstimators()).
		Msg("model loaded")

	return r, nil
}

// PredictRow predicts a single feature vector.
func (r *Regressor) PredictRow(x []float64) (float64, error) {
	if err := r.validateRow(x); err != nil {
		if r.metrics != nil {
			r.metrics.PredictionFailuresInc()
		}
		return 0, err
	}

	out := make([]float64, 1)
	if err := r.ensemble.Predict(x, 0, out); err != nil {
		if r.metrics != nil {
			r.metrics.PredictionFailuresInc()
		}
		return 0, fmt.Errorf("predict: %w", err)
	}

	if r.metrics != nil {
		r.metrics.PredictionsInc()
	}
	return out[0], nil
}

// PredictBatch predicts one value per row.
func (r *Regressor) PredictBatch(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	ncols := r.ensemble.NFeatures()
	vals := make([]float64, 0, len(rows)*ncols)
	for i, row := range rows {
		if err := r.validateRow(row); err != nil {
			if r.metrics != nil {
				r.metrics.PredictionFailuresInc()
			}
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		vals = append(vals, row...)
	}

	preds := make([]float64, len(rows))
	if err := r.ensemble.PredictDense(vals, len(rows), ncols, preds, 0, 1); err != nil {
		if r.metrics != nil {
			r.metrics.PredictionFailuresInc()
		}
		return nil, fmt.Errorf("predict batch: %w", err)
	}

	if r.metrics != nil {
		for range rows {
			r.metrics.PredictionsInc()
		}
	}
	return preds, nil
}

func (r *Regressor) validateRow(x []float64) error {
	if n := r.ensemble.NFeatures(); len(x) != n {
		return fmt.Errorf("feature vector has %d values, model expects %d", len(x), n)
	}
	for i, v := range x {
		if math.IsNaN(v) {
			return fmt.Errorf("feature %d is NaN", i)
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("feature %d is infinite", i)
		}
	}
	return nil
}

// Name returns the ensemble type reported by the model file.
func (r *Regressor) Name() string { return r.ensemble.Name() }

// NumFeatures returns the input dimensionality the model expects.
func (r *Regressor) NumFeatures() int { return r.ensemble.NFeatures() }

// NumTrees returns the number of trees in the ensemble.
func (r *Regressor) NumTrees() int { return r.ensemble.NEstimators() }

// Path returns the file the model was loaded from.
func (r *Regressor) Path() string { return r.path }

// ModTime returns the model file modification time at load.
func (r *Regressor) ModTime() time.Time { return r.modTime }
