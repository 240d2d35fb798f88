// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package worker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/processors"
	"github.com/tomtom215/azafea/internal/queue"
)

// fakeSession records how its transaction ended.
type fakeSession struct {
	db *fakeDB
}

func (s *fakeSession) UpsertChannel(context.Context, *models.Channel) (int64, error) { return 1, nil }
func (s *fakeSession) InsertRequest(context.Context, *models.Request) (int64, bool, error) {
	return 1, true, nil
}
func (s *fakeSession) UpsertPingConfiguration(context.Context, *models.PingConfiguration) (int64, error) {
	return 1, nil
}
func (s *fakeSession) InsertRow(context.Context, models.Row) error { return nil }
func (s *fakeSession) FindPingConfiguration(context.Context, string, string, string, bool, int64) (int64, bool, error) {
	return 0, false, nil
}
func (s *fakeSession) UpdateVendor(context.Context, string, int64, string) error { return nil }
func (s *fakeSession) MovePings(context.Context, int64, int64) (int64, error) { return 0, nil }
func (s *fakeSession) UpdateImage(context.Context, string, int64, imageid.Image) error { return nil }
func (s *fakeSession) DeleteByID(context.Context, string, int64) error { return nil }

func (s *fakeSession) Commit(context.Context) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failCommit != nil {
		return s.db.failCommit
	}
	s.db.commits++
	return nil
}

func (s *fakeSession) Rollback(context.Context) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.rollbacks++
	return nil
}

type fakeDB struct {
	mu         sync.Mutex
	commits    int
	rollbacks  int
	failCommit error
}

func (d *fakeDB) Begin(context.Context) (database.Session, error) { return &fakeSession{db: d}, nil }
func (d *fakeDB) Close() {}

func (d *fakeDB) counts() (commits, rollbacks int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits, d.rollbacks
}

// fakeHandler fails records listed in fail and remembers what it saw.
type fakeHandler struct {
	mu     sync.Mutex
	name   string
	fail   map[string]error
	seen   []string
	resets int
}

func (h *fakeHandler) Name() string { return h.name }

func (h *fakeHandler) Process(_ context.Context, _ database.Store, record []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, string(record))
	return h.fail[string(record)]
}

func (h *fakeHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resets++
}

func (h *fakeHandler) records() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}

type harness struct {
	mr      *miniredis.Miniredis
	db      *fakeDB
	handler *fakeHandler
	connect Connector
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	h := &harness{
		mr:      mr,
		db:      &fakeDB{},
		handler: &fakeHandler{name: "fake.v1", fail: map[string]error{}},
	}
	h.connect = func(context.Context) (Queue, Database, error) {
		// The worker closes what it connects; hand it a client of its own.
		return queue.New(&config.RedisConfig{Host: mr.Host(), Port: port}), h.db, nil
	}
	return h
}

func (h *harness) push(t *testing.T, q string, records ...string) {
	t.Helper()
	for _, r := range records {
		_, err := h.mr.Lpush(q, r)
		require.NoError(t, err)
	}
}

func (h *harness) options(queues ...string) Options {
	var qs []config.QueueConfig
	for _, q := range queues {
		qs = append(qs, config.QueueConfig{Name: q, Handler: h.handler.name})
	}
	return Options{
		ID:          0,
		Queues:      qs,
		Connect:     h.connect,
		NewHandler:  func(string) (processors.Handler, error) { return h.handler, nil },
		PopTimeout:  time.Second,
		ExitOnEmpty: true,
	}
}

func TestNewValidatesOptions(t *testing.T) {
	h := newHarness(t)

	_, err := New(Options{Connect: h.connect})
	assert.Error(t, err, "no queues")

	opts := h.options("ping")
	opts.Connect = nil
	_, err = New(opts)
	assert.Error(t, err, "no connector")

	_, err = New(h.options("ping", "ping"))
	assert.Error(t, err, "duplicate queue")

	opts = h.options("ping")
	opts.NewHandler = func(string) (processors.Handler, error) { return nil, errors.New("unknown handler") }
	_, err = New(opts)
	assert.Error(t, err)

	w, err := New(h.options("ping"))
	require.NoError(t, err)
	assert.Equal(t, "worker-0", w.String())
}

func TestServeCommitsAndExitsOnEmpty(t *testing.T) {
	h := newHarness(t)
	h.push(t, "ping", "r1", "r2")

	var finished int32
	opts := h.options("ping")
	opts.OnFinish = func() { atomic.AddInt32(&finished, 1) }
	w, err := New(opts)
	require.NoError(t, err)

	err = w.Serve(context.Background())
	assert.ErrorIs(t, err, suture.ErrDoNotRestart)
	assert.Equal(t, []string{"r1", "r2"}, h.handler.records())

	commits, rollbacks := h.db.counts()
	assert.Equal(t, 2, commits)
	assert.Equal(t, 0, rollbacks)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))

	// A restarted worker does not call OnFinish twice.
	assert.ErrorIs(t, w.Serve(context.Background()), suture.ErrDoNotRestart)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

func TestServeDeadLettersFailedRecords(t *testing.T) {
	h := newHarness(t)
	bad := "\x00\x01bad record"
	h.handler.fail[bad] = errors.New("invalid payload")
	h.push(t, "metrics", "good", bad, "after")

	w, err := New(h.options("metrics"))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Serve(context.Background()), suture.ErrDoNotRestart)

	assert.Equal(t, []string{"good", bad, "after"}, h.handler.records())
	commits, rollbacks := h.db.counts()
	assert.Equal(t, 2, commits)
	assert.Equal(t, 1, rollbacks)
	assert.Equal(t, 1, h.handler.resets)

	dead, err := h.mr.List("errors-metrics")
	require.NoError(t, err)
	assert.Equal(t, []string{bad}, dead)
	assert.False(t, h.mr.Exists("metrics"))
}

func TestServeDeadLettersFailedCommits(t *testing.T) {
	h := newHarness(t)
	h.db.failCommit = errors.New("serialization failure")
	h.push(t, "ping", "r1")

	w, err := New(h.options("ping"))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Serve(context.Background()), suture.ErrDoNotRestart)

	dead, err := h.mr.List("errors-ping")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, dead)
	assert.Equal(t, 1, h.handler.resets)
}

func TestServeHonorsQueueOrder(t *testing.T) {
	h := newHarness(t)
	h.push(t, "low", "l1", "l2")
	h.push(t, "high", "h1", "h2")

	w, err := New(h.options("high", "low"))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Serve(context.Background()), suture.ErrDoNotRestart)

	assert.Equal(t, []string{"h1", "h2", "l1", "l2"}, h.handler.records())
}

func TestServeDrained(t *testing.T) {
	h := newHarness(t)
	h.push(t, "ping", "r1")

	connected := false
	opts := h.options("ping")
	opts.Connect = func(ctx context.Context) (Queue, Database, error) {
		connected = true
		return h.connect(ctx)
	}
	opts.Draining = new(atomic.Bool)
	opts.Draining.Store(true)

	w, err := New(opts)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Serve(context.Background()), suture.ErrDoNotRestart)
	assert.False(t, connected)
	assert.Empty(t, h.handler.records())
}

func TestServeWaitsForRecordsUntilDrained(t *testing.T) {
	h := newHarness(t)

	opts := h.options("ping")
	opts.ExitOnEmpty = false
	opts.Draining = new(atomic.Bool)
	w, err := New(opts)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Serve(context.Background()) }()

	h.push(t, "ping", "late")
	require.Eventually(t, func() bool { return len(h.handler.records()) == 1 }, 5*time.Second, 10*time.Millisecond)

	opts.Draining.Store(true)
	select {
	case err := <-done:
		assert.ErrorIs(t, err, suture.ErrDoNotRestart)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after draining")
	}
}

func TestServeConnectFailure(t *testing.T) {
	h := newHarness(t)
	opts := h.options("ping")
	opts.Connect = func(context.Context) (Queue, Database, error) {
		return nil, nil, errors.New("dial tcp: connection refused")
	}
	w, err := New(opts)
	require.NoError(t, err)

	err = w.Serve(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, suture.ErrDoNotRestart)
}

func TestBreakerOpensOnConnectionErrors(t *testing.T) {
	h := newHarness(t)
	h.handler.fail["r1"] = errors.New("write: connection reset by peer")
	h.handler.fail["r2"] = errors.New("write: connection reset by peer")
	h.push(t, "ping", "r1", "r2", "r3")

	opts := h.options("ping")
	opts.ExitOnEmpty = false
	opts.Draining = new(atomic.Bool)
	opts.Breaker = config.BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour}
	w, err := New(opts)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Serve(context.Background()) }()

	require.Eventually(t, func() bool {
		dead, _ := h.mr.List("errors-ping")
		return len(dead) == 2
	}, 5*time.Second, 10*time.Millisecond)

	// The open breaker keeps the third record in Redis.
	time.Sleep(100 * time.Millisecond)
	left, err := h.mr.List("ping")
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, left)
	assert.Equal(t, []string{"r1", "r2"}, h.handler.records())

	opts.Draining.Store(true)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after draining")
	}
}

func TestBreakerIgnoresRecordErrors(t *testing.T) {
	h := newHarness(t)
	for _, r := range []string{"r1", "r2", "r3"} {
		h.handler.fail[r] = errors.New("invalid payload")
	}
	h.push(t, "ping", "r1", "r2", "r3", "r4")

	opts := h.options("ping")
	opts.Breaker = config.BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour}
	w, err := New(opts)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Serve(context.Background()), suture.ErrDoNotRestart)

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, h.handler.records())
}
