// Package jobs runs the periodic background work of the drill service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	DefaultPersistInterval = 5 * time.Minute
	DefaultFlushInterval   = time.Minute
)

type ServiceI interface {
	PersistModel(ctx context.Context) error
	FlushSessionLogs(ctx context.Context) error
}

type Config struct {
	PersistInterval time.Duration
	FlushInterval   time.Duration
	Timeout         time.Duration
}

// Jobs persists the learned model weights and flushes buffered session logs.
type Jobs struct {
	scheduler *gocron.Scheduler
	service   ServiceI
	cfg       Config
	log       *zap.Logger
}

func New(service ServiceI, cfg Config, log *zap.Logger) *Jobs {
	if cfg.PersistInterval <= 0 {
		cfg.PersistInterval = DefaultPersistInterval
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Jobs{
		scheduler: s,
		service:   service,
		cfg:       cfg,
		log:       log,
	}
}

// Start registers the jobs and runs them in the background.
func (j *Jobs) Start() error {
	if _, err := j.scheduler.Every(j.cfg.PersistInterval).WaitForSchedule().Do(j.persistModel); err != nil {
		return fmt.Errorf("failed to schedule model persistence: %w", err)
	}
	if _, err := j.scheduler.Every(j.cfg.FlushInterval).WaitForSchedule().Do(j.flushSessionLogs); err != nil {
		return fmt.Errorf("failed to schedule session log flush: %w", err)
	}

	j.scheduler.StartAsync()
	j.log.Info("background jobs started",
		zap.Duration("persist_interval", j.cfg.PersistInterval),
		zap.Duration("flush_interval", j.cfg.FlushInterval))

	return nil
}

// Stop halts the scheduler and runs both jobs one last time.
func (j *Jobs) Stop() {
	j.scheduler.Stop()
	j.persistModel()
	j.flushSessionLogs()
}

func (j *Jobs) persistModel() {
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.Timeout)
	defer cancel()

	if err := j.service.PersistModel(ctx); err != nil {
		j.log.Warn("failed to persist confidence model", zap.Error(err))
	}
}

func (j *Jobs) flushSessionLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.Timeout)
	defer cancel()

	if err := j.service.FlushSessionLogs(ctx); err != nil {
		j.log.Warn("failed to flush session logs", zap.Error(err))
	}
}
