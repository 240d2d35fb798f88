// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package queue

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/tomtom215/azafea/internal/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatal(err)
	}
	c := New(&config.RedisConfig{Host: mr.Host(), Port: port})
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestDeadLetterName(t *testing.T) {
	if got := DeadLetterName("metrics-3"); got != "errors-metrics-3" {
		t.Errorf("DeadLetterName() = %q", got)
	}
	if !IsDeadLetter("errors-metrics-3") || IsDeadLetter("metrics-3") {
		t.Error("IsDeadLetter() misclassified a queue")
	}
}

func TestPopRespectsQueueOrder(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if _, err := mr.Lpush("low", "l1"); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.Lpush("high", "h1"); err != nil {
		t.Fatal(err)
	}

	q, data, err := c.Pop(ctx, time.Second, "high", "low")
	if err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if q != "high" || string(data) != "h1" {
		t.Errorf("Pop() = %s %q, want high h1", q, data)
	}

	q, data, err = c.Pop(ctx, time.Second, "high", "low")
	if err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if q != "low" || string(data) != "l1" {
		t.Errorf("Pop() = %s %q, want low l1", q, data)
	}
}

func TestPopTakesOldestFirst(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for _, v := range []string{"first", "second"} {
		if err := c.Push(ctx, "q", []byte(v)); err != nil {
			t.Fatal(err)
		}
	}
	_, data, err := c.Pop(ctx, time.Second, "q")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("Pop() = %q, want first", data)
	}
}

func TestPopTimeout(t *testing.T) {
	c, _ := newTestClient(t)

	_, _, err := c.Pop(context.Background(), time.Second, "empty")
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Pop() error = %v, want ErrEmpty", err)
	}
}

func TestPopNoQueues(t *testing.T) {
	c, _ := newTestClient(t)
	if _, _, err := c.Pop(context.Background(), time.Second); err == nil {
		t.Error("Pop() without queues succeeded")
	}
}

func TestDeadLetterKeepsBytes(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	record := []byte{0x00, 0xff, 0x10, 'x', 0x00}
	if err := c.DeadLetter(ctx, "metrics", record); err != nil {
		t.Fatalf("DeadLetter() error = %v", err)
	}

	n, err := c.Len(ctx, "errors-metrics")
	if err != nil || n != 1 {
		t.Fatalf("Len() = %d, %v; want 1", n, err)
	}
	items, err := mr.List("errors-metrics")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal([]byte(items[0]), record) {
		t.Errorf("dead letter = %x, want %x", items[0], record)
	}
}

func TestMoveAllPreservesOrder(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for _, v := range []string{"a", "b", "c"} {
		if err := c.DeadLetter(ctx, "ping", []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	moved, err := c.MoveAll(ctx, "errors-ping", "ping")
	if err != nil {
		t.Fatalf("MoveAll() error = %v", err)
	}
	if moved != 3 {
		t.Errorf("MoveAll() = %d, want 3", moved)
	}
	if n, _ := c.Len(ctx, "errors-ping"); n != 0 {
		t.Errorf("Len(errors-ping) = %d after MoveAll", n)
	}

	for _, want := range []string{"a", "b", "c"} {
		_, data, err := c.Pop(ctx, time.Second, "ping")
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != want {
			t.Errorf("Pop() = %q, want %q", data, want)
		}
	}
}

func TestRange(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_ = c.Push(ctx, "q", []byte("one"))
	_ = c.Push(ctx, "q", []byte("two"))

	items, err := c.Range(ctx, "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || string(items[0]) != "two" || string(items[1]) != "one" {
		t.Errorf("Range() = %q", items)
	}
}

func TestPingUnreachable(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err == nil {
		t.Error("Ping() succeeded against a stopped server")
	}
}

func TestRequeueIsPoppedNext(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for _, v := range []string{"a", "b"} {
		if err := c.Push(ctx, "q", []byte(v)); err != nil {
			t.Fatal(err)
		}
	}
	_, first, err := c.Pop(ctx, time.Second, "q")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Requeue(ctx, "q", first); err != nil {
		t.Fatalf("Requeue() error = %v", err)
	}

	_, again, err := c.Pop(ctx, time.Second, "q")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, first) || string(again) != "a" {
		t.Errorf("Pop() after Requeue = %q, want %q", again, first)
	}
}
