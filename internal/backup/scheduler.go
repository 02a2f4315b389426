package backup

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs periodic backups in the background. Failures only log
// a warning; request handling never waits on a backup.
type Scheduler struct {
	manager  *Manager
	interval time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(manager *Manager, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{manager: manager, interval: interval, logger: logger, stop: make(chan struct{})}
}

// Start launches the backup goroutine
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop signals the goroutine to stop and waits for it
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			s.logger.Info("backup scheduler stopping")
			return
		case <-ctx.Done():
			s.logger.Info("context canceled, backup scheduler exiting")
			return
		case <-ticker.C:
			name, err := s.manager.Run()
			if err != nil {
				s.logger.Warn("scheduled backup failed", "err", err)
				continue
			}
			s.logger.Info("backup written", "name", name)
		}
	}
}
