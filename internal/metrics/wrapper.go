package metrics

// Wrapper provides the small metric surfaces consumed by the model and
// server packages without having them depend on Prometheus types directly.
// All methods are nil-safe so callers can run without metrics wired.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) RequestsInc() {
	if w == nil {
		return
	}
	w.m.RequestsTotal.Inc()
}

func (w *Wrapper) RequestObserve(seconds float64) {
	if w == nil {
		return
	}
	w.m.RequestDuration.Observe(seconds)
}

func (w *Wrapper) PredictionsInc() {
	if w == nil {
		return
	}
	w.m.PredictionsTotal.Inc()
}

func (w *Wrapper) PredictionFailuresInc() {
	if w == nil {
		return
	}
	w.m.PredictionFailures.Inc()
}

func (w *Wrapper) PredictionValueObserve(v float64) {
	if w == nil {
		return
	}
	w.m.PredictionValues.Observe(v)
}

func (w *Wrapper) SquaredErrorObserve(v float64) {
	if w == nil {
		return
	}
	w.m.SquaredErrors.Observe(v)
}

func (w *Wrapper) ModelLoadsInc() {
	if w == nil {
		return
	}
	w.m.ModelLoadsTotal.Inc()
}

func (w *Wrapper) ModelLoadObserve(seconds float64) {
	if w == nil {
		return
	}
	w.m.ModelLoadDuration.Observe(seconds)
}

func (w *Wrapper) ModelAgeSet(seconds float64) {
	if w == nil {
		return
	}
	w.m.ModelAge.Set(seconds)
}

func (w *Wrapper) ErrorsInc() {
	if w == nil {
		return
	}
	w.m.ErrorsTotal.Inc()
}
