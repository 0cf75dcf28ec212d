// Package jobs runs periodic maintenance work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/services"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	JobWalletReconcile = "wallet_reconcile"

	reconcileTimeout = 10 * time.Minute
)

// Reconciler is implemented by services.WalletService.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*services.ReconcileSummary, error)
}

type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	config     *config.JobsConfig
	logger     *logger.Logger
}

func NewScheduler(reconciler Reconciler, cfg *config.JobsConfig, log *logger.Logger) *Scheduler {
	cronLog := cronLogger{log: log.WithField("component", "cron")}
	c := cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))

	return &Scheduler{
		cron:       c,
		reconciler: reconciler,
		config:     cfg,
		logger:     log,
	}
}

// Start registers the enabled jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.config.ReconcileEnabled {
		if _, err := s.cron.AddFunc(s.config.ReconcileSchedule, func() {
			_ = s.RunReconcile(context.Background())
		}); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", JobWalletReconcile, err)
		}
		s.logger.WithField("schedule", s.config.ReconcileSchedule).Info("Scheduled wallet reconciliation job")
	}

	s.cron.Start()
	return nil
}

// Stop stops scheduling; the returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunReconcile compares every wallet balance with its ledger once.
func (s *Scheduler) RunReconcile(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	start := time.Now()
	summary, err := s.reconciler.ReconcileAll(ctx)
	metrics.RecordJobRun(JobWalletReconcile, time.Since(start), err == nil)

	if err != nil {
		s.logger.WithError(err).Error("Wallet reconciliation run failed")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"checked":  summary.Checked,
		"drifted":  len(summary.Drifted),
		"failed":   summary.Failed,
		"duration": time.Since(start).String(),
	}).Info("Wallet reconciliation run finished")
	return nil
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(kvFields(keysAndValues)).Error(msg)
}

func kvFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
