// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/logging"
	appmetrics "github.com/tomtom215/azafea/internal/metrics"
	"github.com/tomtom215/azafea/internal/processors"
	"github.com/tomtom215/azafea/internal/queue"
)

// DefaultPopTimeout is used when the configured pop timeout is not positive.
const DefaultPopTimeout = 5 * time.Second

// Queue is the part of queue.Client a worker uses.
type Queue interface {
	Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error)
	Requeue(ctx context.Context, queue string, data []byte) error
	DeadLetter(ctx context.Context, queue string, data []byte) error
	Close() error
}

// Database is the part of database.DB a worker uses.
type Database interface {
	Begin(ctx context.Context) (database.Session, error)
	Close()
}

// Connector opens the connections of one worker.
type Connector func(ctx context.Context) (Queue, Database, error)

// DefaultConnector connects to the Redis and PostgreSQL servers of cfg.
func DefaultConnector(cfg *config.Config) Connector {
	return func(ctx context.Context) (Queue, Database, error) {
		q := queue.New(&cfg.Redis)
		if err := q.Ping(ctx); err != nil {
			_ = q.Close()
			return nil, nil, err
		}
		db, err := database.Open(ctx, &cfg.PostgreSQL)
		if err != nil {
			_ = q.Close()
			return nil, nil, err
		}
		return q, db, nil
	}
}

// Options configure a Worker.
type Options struct {
	ID     int
	Queues []config.QueueConfig

	Connect Connector

	// NewHandler builds the handler of a queue. Defaults to processors.New.
	NewHandler func(name string) (processors.Handler, error)

	PopTimeout  time.Duration
	ExitOnEmpty bool
	Breaker     config.BreakerConfig

	// Draining is shared by the workers of a controller. Once set, workers
	// finish after their current record.
	Draining *atomic.Bool

	// OnFinish is called once, when the worker stops for good.
	OnFinish func()
}

// Worker consumes records from its queues. It is a suture service.
type Worker struct {
	id          int
	name        string
	queues      []string
	handlers    map[string]processors.Handler
	connect     Connector
	popTimeout  time.Duration
	exitOnEmpty bool
	breaker     *gobreaker.CircuitBreaker[struct{}]
	draining    *atomic.Bool
	finishOnce  sync.Once
	onFinish    func()
}

// New returns a worker with its own handler instances.
func New(opts Options) (*Worker, error) {
	if len(opts.Queues) == 0 {
		return nil, errors.New("worker: no queues")
	}
	if opts.Connect == nil {
		return nil, errors.New("worker: no connector")
	}
	newHandler := opts.NewHandler
	if newHandler == nil {
		newHandler = processors.New
	}

	w := &Worker{
		id:          opts.ID,
		name:        "worker-" + strconv.Itoa(opts.ID),
		handlers:    make(map[string]processors.Handler, len(opts.Queues)),
		connect:     opts.Connect,
		popTimeout:  opts.PopTimeout,
		exitOnEmpty: opts.ExitOnEmpty,
		draining:    opts.Draining,
		onFinish:    opts.OnFinish,
	}
	if w.popTimeout <= 0 {
		w.popTimeout = DefaultPopTimeout
	}
	if w.draining == nil {
		w.draining = new(atomic.Bool)
	}

	for _, q := range opts.Queues {
		if _, dup := w.handlers[q.Name]; dup {
			return nil, fmt.Errorf("worker: queue %s listed twice", q.Name)
		}
		h, err := newHandler(q.Handler)
		if err != nil {
			return nil, fmt.Errorf("worker: queue %s: %w", q.Name, err)
		}
		w.queues = append(w.queues, q.Name)
		w.handlers[q.Name] = h
	}
	w.breaker = newBreaker(w.name+"-postgresql", opts.Breaker)
	return w, nil
}

// String names the service in supervisor logs.
func (w *Worker) String() string { return w.name }

// Serve pops and handles records until the worker is drained, ctx is
// canceled, or, with ExitOnEmpty, a pop times out. Connection failures are
// returned so that the supervisor restarts the worker with backoff.
func (w *Worker) Serve(ctx context.Context) error {
	log := logging.With().Int("worker", w.id).Logger()
	if w.stopping(ctx) {
		return w.finish()
	}

	q, db, err := w.connect(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to connect: %w", w.name, err)
	}
	defer func() {
		if err := q.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
		db.Close()
	}()

	appmetrics.TrackWorker(true)
	defer appmetrics.TrackWorker(false)
	log.Info().Strs("queues", w.queues).Msg("Worker started")

	for {
		if w.stopping(ctx) {
			log.Info().Msg("Worker drained")
			return w.finish()
		}

		if w.breaker.State() == gobreaker.StateOpen {
			w.pause(ctx)
			continue
		}

		// The pop is not canceled by ctx: a record taken off Redis is always
		// handled. Cancellation is noticed within one pop timeout.
		name, data, err := q.Pop(context.WithoutCancel(ctx), w.popTimeout, w.queues...)
		switch {
		case errors.Is(err, queue.ErrEmpty):
			if w.exitOnEmpty {
				log.Info().Msg("Queues are empty, worker exiting")
				return w.finish()
			}
			continue
		case err != nil:
			return fmt.Errorf("%s: %w", w.name, err)
		}

		appmetrics.RecordPopped(name)
		if err := w.handle(ctx, q, db, name, data); err != nil {
			return err
		}
	}
}

func (w *Worker) stopping(ctx context.Context) bool {
	return w.draining.Load() || ctx.Err() != nil
}

func (w *Worker) finish() error {
	w.finishOnce.Do(func() {
		if w.onFinish != nil {
			w.onFinish()
		}
	})
	return suture.ErrDoNotRestart
}

// pause waits while the breaker is open, without popping.
func (w *Worker) pause(ctx context.Context) {
	timer := time.NewTimer(w.popTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// handle runs one record. Errors returned here are infrastructure failures
// that stop the worker; record failures are dead-lettered.
func (w *Worker) handle(ctx context.Context, q Queue, db Database, name string, data []byte) error {
	h := w.handlers[name]
	rctx := logging.ContextWithRecord(context.WithoutCancel(ctx), logging.Record{
		Worker:  w.id,
		Queue:   name,
		Handler: h.Name(),
		Size:    len(data),
	})

	start := time.Now()
	_, err := w.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, w.process(rctx, db, h, data)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Ctx(rctx).Warn().Err(err).Msg("Database circuit breaker is open, requeueing record")
		if rqErr := q.Requeue(rctx, name, data); rqErr != nil {
			logging.Ctx(rctx).Error().Err(rqErr).Msg("Failed to requeue record, it is lost")
			return fmt.Errorf("%s: %w", w.name, rqErr)
		}
		return nil
	}

	appmetrics.RecordProcessed(name, h.Name(), time.Since(start), err != nil)
	if err == nil {
		logging.Ctx(rctx).Debug().Dur("duration", time.Since(start)).Msg("Record stored")
		return nil
	}

	category := Categorize(err)
	if dlErr := q.DeadLetter(rctx, name, data); dlErr != nil {
		logging.Ctx(rctx).Error().Err(dlErr).AnErr("cause", err).Msg("Failed to dead-letter record, it is lost")
		return fmt.Errorf("%s: %w", w.name, dlErr)
	}
	appmetrics.RecordDeadLettered(name, category.String())
	logging.Ctx(rctx).Error().
		Err(err).
		Str("category", category.String()).
		Str("dead_letter_queue", queue.DeadLetterName(name)).
		Msg("Failed to process record, moved it to the dead-letter queue")
	return nil
}

// process runs h in one transaction.
func (w *Worker) process(ctx context.Context, db Database, h processors.Handler, data []byte) error {
	sess, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := h.Process(ctx, sess, data); err != nil {
		if rbErr := sess.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, database.ErrClosed) {
			logging.Ctx(ctx).Warn().Err(rbErr).Msg("Failed to roll back transaction")
		}
		reset(h)
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		reset(h)
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// reset drops handler state that may refer to rolled back rows.
func reset(h processors.Handler) {
	if r, ok := h.(processors.Resetter); ok {
		r.Reset()
	}
}
