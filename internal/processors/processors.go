// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package processors

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/processors/activation"
	"github.com/tomtom215/azafea/internal/processors/metrics"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
	"github.com/tomtom215/azafea/internal/processors/ping"
)

// Handler stores one queue record through a transaction-scoped store.
type Handler interface {
	Name() string
	Process(ctx context.Context, store database.Store, record []byte) error
}

// Resetter is implemented by handlers holding state that must be dropped
// after a rolled back transaction.
type Resetter interface {
	Reset()
}

// Factory builds a fresh handler.
type Factory func() (Handler, error)

var factories = map[string]Factory{
	metrics.HandlerName: func() (Handler, error) {
		return metrics.NewProcessor(events.Default(), metrics.DefaultChannelCacheSize)
	},
	ping.HandlerName: func() (Handler, error) {
		return ping.NewProcessor(), nil
	},
	activation.HandlerName: func() (Handler, error) {
		return activation.NewProcessor(), nil
	},
}

// New builds the handler registered as name.
func New(name string) (Handler, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown handler %q, known handlers are %v", name, Names())
	}
	h, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to build handler %s: %w", name, err)
	}
	return h, nil
}

// IsRegistered reports whether name is a known handler.
func IsRegistered(name string) bool {
	_, ok := factories[name]
	return ok
}

// Names lists the registered handler names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
