// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/logging"
	appmetrics "github.com/tomtom215/azafea/internal/metrics"
	"github.com/tomtom215/azafea/internal/processors"
	"github.com/tomtom215/azafea/internal/queue"
	"github.com/tomtom215/azafea/internal/supervisor"
)

// Controller runs the workers of a configuration.
type Controller struct {
	cfg        *config.Config
	connect    Connector
	newHandler func(name string) (processors.Handler, error)
	draining   atomic.Bool
}

// NewController checks that every configured handler exists.
func NewController(cfg *config.Config) (*Controller, error) {
	if err := cfg.ValidateHandlers(processors.IsRegistered); err != nil {
		return nil, fmt.Errorf("%w, known handlers are %v", err, processors.Names())
	}
	return &Controller{cfg: cfg, connect: DefaultConnector(cfg), newHandler: processors.New}, nil
}

// Drain asks every worker to stop after its current record.
func (c *Controller) Drain() {
	if !c.draining.Swap(true) {
		logging.Info().Msg("Draining workers, waiting for in-flight records")
	}
}

// Run starts the workers and blocks until all of them finished. The first
// SIGINT or SIGTERM, or the cancellation of ctx, drains them.
func (c *Controller) Run(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfigFrom(c.cfg.Supervisor))
	if err != nil {
		return err
	}

	n := c.cfg.Main.NumberOfWorkers
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		w, err := New(Options{
			ID:          i,
			Queues:      c.cfg.Queues,
			Connect:     c.connect,
			NewHandler:  c.newHandler,
			PopTimeout:  c.cfg.Redis.PopTimeout,
			ExitOnEmpty: c.cfg.Main.ExitOnEmptyQueues,
			Breaker:     c.cfg.Breaker,
			Draining:    &c.draining,
			OnFinish:    wg.Done,
		})
		if err != nil {
			return err
		}
		tree.AddWorker(w)
	}
	if path := c.cfg.Metrics.TextfilePath; path != "" {
		tree.AddSupportService(appmetrics.NewTextfileExporter(path, c.cfg.Metrics.Interval))
	}

	// The tree outlives ctx: workers are stopped by the drain flag, then the
	// tree is canceled once all of them returned.
	treeCtx, cancelTree := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelTree()
	errCh := tree.ServeBackground(treeCtx)

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

	logging.Info().Int("workers", n).Int("queues", len(c.cfg.Queues)).Msg("Controller started")
	c.reportQueues(ctx)

	select {
	case <-allDone:
	case err := <-errCh:
		return supervisorStopped(err)
	case <-sigCtx.Done():
		// A second signal now terminates the process.
		stop()
		c.Drain()
		select {
		case <-allDone:
		case err := <-errCh:
			return supervisorStopped(err)
		}
	}

	cancelTree()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	c.logTotals()
	return nil
}

// reportQueues logs the backlog of every queue and its dead-letter queue.
func (c *Controller) reportQueues(ctx context.Context) {
	q := queue.New(&c.cfg.Redis)
	defer func() { _ = q.Close() }()

	for _, qc := range c.cfg.Queues {
		pending, err := q.Len(ctx, qc.Name)
		if err != nil {
			logging.Warn().Err(err).Str("queue", qc.Name).Msg("Cannot read queue length")
			continue
		}
		dead, err := q.Len(ctx, queue.DeadLetterName(qc.Name))
		if err != nil {
			logging.Warn().Err(err).Str("queue", qc.Name).Msg("Cannot read dead-letter queue length")
			continue
		}
		appmetrics.SetQueueLength(qc.Name, pending)
		appmetrics.SetQueueLength(queue.DeadLetterName(qc.Name), dead)
		logging.Info().
			Str("queue", qc.Name).
			Str("handler", qc.Handler).
			Int64("pending", pending).
			Int64("dead_lettered", dead).
			Msg("Queue backlog")
	}
}

func (c *Controller) logTotals() {
	totals, err := appmetrics.GatherTotals(prometheus.DefaultGatherer)
	if err != nil {
		logging.Warn().Err(err).Msg("All workers finished")
		return
	}
	logging.Info().
		Float64("popped", totals.Popped).
		Float64("committed", totals.Committed).
		Float64("failed", totals.Failed).
		Float64("dead_lettered", totals.DeadLettered).
		Msg("All workers finished")
}

func supervisorStopped(err error) error {
	if err == nil {
		return errors.New("supervisor stopped before the workers finished")
	}
	return fmt.Errorf("supervisor stopped: %w", err)
}
