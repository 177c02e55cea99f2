// Package server provides the HTTP surface of the prediction demo service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"modelserve/internal/friedman"

	"github.com/rs/zerolog/log"
)

// Predictor is the loaded-model surface the handlers need.
// *model.Regressor satisfies it.
type Predictor interface {
	PredictRow(x []float64) (float64, error)
	Name() string
	NumFeatures() int
	NumTrees() int
	Path() string
	ModTime() time.Time
}

// Loader produces a freshly loaded model. The demo handler calls it on every
// request so a replaced model file takes effect immediately; there is no
// caching on purpose.
type Loader func() (Predictor, error)

// MetricsSink defines the metrics methods needed by the handlers.
type MetricsSink interface {
	RequestsInc()
	RequestObserve(float64)
	PredictionValueObserve(float64)
	SquaredErrorObserve(float64)
	ErrorsInc()
}

// Observer receives each served prediction, e.g. for the live dashboard.
type Observer interface {
	Observe(prediction, reference, squaredError float64)
}

// Config carries the server listen parameters.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the demo prediction page plus health and model metadata.
type Server struct {
	load     Loader
	sampler  *friedman.Sampler
	metrics  MetricsSink
	observer Observer
	server   *http.Server
}

// New creates the HTTP server. metrics and observer may be nil.
func New(cfg Config, load Loader, sampler *friedman.Sampler, metrics MetricsSink, observer Observer) *Server {
	s := &Server{
		load:     load,
		sampler:  sampler,
		metrics:  metrics,
		observer: observer,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePredict)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/model/info", s.handleModelInfo)

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// handlePredict reloads the model, predicts one random feature vector and
// compares it against the synthetic reference value.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if s.metrics != nil {
		s.metrics.RequestsInc()
		defer func() {
			s.metrics.RequestObserve(time.Since(start).Seconds())
		}()
	}

	reg, err := s.load()
	if err != nil {
		log.Error().Err(err).Msg("model load failed")
		if s.metrics != nil {
			s.metrics.ErrorsInc()
		}
		http.Error(w, fmt.Sprintf("model load failed: %v", err), http.StatusInternalServerError)
		return
	}

	x := s.sampler.Vector(friedman.FeatureCount)
	pred, err := reg.PredictRow(x)
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		if s.metrics != nil {
			s.metrics.ErrorsInc()
		}
		http.Error(w, fmt.Sprintf("prediction failed: %v", err), http.StatusInternalServerError)
		return
	}

	reference := friedman.Value(x) + s.sampler.Noise()
	sqErr := (reference - pred) * (reference - pred)

	if s.metrics != nil {
		s.metrics.PredictionValueObserve(pred)
		s.metrics.SquaredErrorObserve(sqErr)
	}
	if s.observer != nil {
		s.observer.Observe(pred, reference, sqErr)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Prediction: %v\n Error: %v\n n.b. model suboptimal to save time", pred, sqErr)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	reg, err := s.load()
	if err != nil {
		log.Error().Err(err).Msg("model info load failed")
		http.Error(w, fmt.Sprintf("model unavailable: %v", err), http.StatusServiceUnavailable)
		return
	}

	info := map[string]interface{}{
		"name":     reg.Name(),
		"features": reg.NumFeatures(),
		"trees":    reg.NumTrees(),
		"path":     reg.Path(),
		"modified": reg.ModTime(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
