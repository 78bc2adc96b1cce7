package confidence

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Trainer feeds samples to a Model in the background with at most one
// training batch in flight. Failures are logged and dropped.
type Trainer struct {
	model  *Model
	logger *zap.Logger

	mu      sync.Mutex
	pending []Sample
	running bool
	wg      sync.WaitGroup
}

func NewTrainer(model *Model, logger *zap.Logger) *Trainer {
	return &Trainer{
		model:  model,
		logger: logger,
	}
}

// Submit queues a sample and starts a training run if none is active.
func (t *Trainer) Submit(s Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = append(t.pending, s)
	if t.running {
		return
	}
	t.running = true
	t.wg.Add(1)
	go t.run()
}

func (t *Trainer) run() {
	defer t.wg.Done()

	for {
		t.mu.Lock()
		batch := t.pending
		t.pending = nil
		if len(batch) == 0 {
			t.running = false
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()

		if err := t.train(batch); err != nil {
			t.logger.Warn("confidence model training failed",
				zap.Int("batch", len(batch)),
				zap.Error(err))
		}
	}
}

func (t *Trainer) train(batch []Sample) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("confidence: training panicked: %v", r)
		}
	}()
	return t.model.Train(batch)
}

// Wait blocks until the active training run, if any, has finished.
func (t *Trainer) Wait() {
	t.wg.Wait()
}
