package confidence

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
)

const (
	// ModelVersion is written into every serialized model snapshot.
	ModelVersion = 1

	defaultLearningRate = 0.05
	defaultMinSamples   = 30

	numParams = NumFeatures + 1 // weights + bias
)

// ModelConfig tunes the learned estimator. Zero values are replaced with defaults.
type ModelConfig struct {
	LearningRate float64 `mapstructure:"learning_rate" validate:"gte=0"`
	MinSamples   int     `mapstructure:"min_samples" validate:"gte=0"`
}

func (c ModelConfig) withDefaults() ModelConfig {
	if c.LearningRate == 0 {
		c.LearningRate = defaultLearningRate
	}
	if c.MinSamples == 0 {
		c.MinSamples = defaultMinSamples
	}
	return c
}

// Sample is one labeled training example.
type Sample struct {
	Features Features
	Correct  bool
}

// Snapshot is the serialized state of a Model.
type Snapshot struct {
	Version int       `json:"version"`
	Weights []float64 `json:"weights"`
	M       []float64 `json:"m"`
	V       []float64 `json:"v"`
	Step    int       `json:"step"`
	Samples int       `json:"samples"`
}

// adam is the Adam optimizer with bias correction over the model parameters.
type adam struct {
	lr           float64
	beta1, beta2 float64
	eps          float64
	m, v         [numParams]float64
	step         int
}

func newAdam(lr float64) adam {
	return adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
}

func (a *adam) update(params, grads [numParams]float64) [numParams]float64 {
	a.step++
	for i := range params {
		g := grads[i]
		if g == 0 {
			continue
		}
		a.m[i] = a.beta1*a.m[i] + (1-a.beta1)*g
		a.v[i] = a.beta2*a.v[i] + (1-a.beta2)*g*g

		mHat := a.m[i] / (1 - math.Pow(a.beta1, float64(a.step)))
		vHat := a.v[i] / (1 - math.Pow(a.beta2, float64(a.step)))

		params[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
	return params
}

// Model is an online logistic regression predicting the probability that an
// answer with the given features is correct. The probability is used as the
// confidence score of correct answers.
type Model struct {
	mu      sync.RWMutex
	cfg     ModelConfig
	params  [numParams]float64
	opt     adam
	samples int
}

func NewModel(cfg ModelConfig) *Model {
	cfg = cfg.withDefaults()
	return &Model{
		cfg: cfg,
		opt: newAdam(cfg.LearningRate),
	}
}

// Ready reports whether the model has seen enough samples to be trusted.
func (m *Model) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.samples >= m.cfg.MinSamples
}

// Samples returns the number of samples the model was trained on.
func (m *Model) Samples() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.samples
}

func (m *Model) Estimate(f Features) (Estimate, error) {
	if !f.WasCorrect {
		return incorrectEstimate(), nil
	}

	// TryRLock keeps a prediction from waiting behind a training batch.
	if !m.mu.TryRLock() {
		return Estimate{}, ErrModelNotReady
	}
	defer m.mu.RUnlock()

	if m.samples < m.cfg.MinSamples {
		return Estimate{}, ErrModelNotReady
	}

	score := m.predict(f.Vector())
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Estimate{}, fmt.Errorf("confidence: model produced %v", score)
	}

	return Estimate{
		Level:  levelFor(score),
		Score:  score,
		Source: SourceLearned,
	}, nil
}

// Train runs one optimizer step per sample.
func (m *Model) Train(batch []Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range batch {
		x := s.Features.Vector()
		y := 0.0
		if s.Correct {
			y = 1
		}

		diff := m.predict(x) - y
		var grads [numParams]float64
		for i, xi := range x {
			grads[i] = diff * xi
		}
		grads[NumFeatures] = diff

		opt := m.opt
		next := opt.update(m.params, grads)
		for _, w := range next {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("confidence: training diverged after %d samples", m.samples)
			}
		}
		m.opt = opt
		m.params = next
		m.samples++
	}
	return nil
}

func (m *Model) predict(x [NumFeatures]float64) float64 {
	z := m.params[NumFeatures]
	for i, xi := range x {
		z += m.params[i] * xi
	}
	return 1 / (1 + math.Exp(-z))
}

// Snapshot returns a copy of the model state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Version: ModelVersion,
		Weights: append([]float64(nil), m.params[:]...),
		M:       append([]float64(nil), m.opt.m[:]...),
		V:       append([]float64(nil), m.opt.v[:]...),
		Step:    m.opt.step,
		Samples: m.samples,
	}
}

// Restore replaces the model state with s.
func (m *Model) Restore(s Snapshot) error {
	if s.Version != ModelVersion {
		return fmt.Errorf("confidence: unsupported model version %d", s.Version)
	}
	if len(s.Weights) != numParams || len(s.M) != numParams || len(s.V) != numParams {
		return fmt.Errorf("confidence: model snapshot has %d weights, want %d", len(s.Weights), numParams)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.params[:], s.Weights)
	copy(m.opt.m[:], s.M)
	copy(m.opt.v[:], s.V)
	m.opt.step = s.Step
	m.samples = s.Samples
	return nil
}

// MarshalSnapshot encodes the model state as JSON.
func (m *Model) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(m.Snapshot())
}

// UnmarshalSnapshot restores the model from JSON produced by MarshalSnapshot.
func (m *Model) UnmarshalSnapshot(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("confidence: decode model: %w", err)
	}
	return m.Restore(s)
}
