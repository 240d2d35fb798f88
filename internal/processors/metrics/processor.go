// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/logging"
	appmetrics "github.com/tomtom215/azafea/internal/metrics"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
)

// HandlerName is the queue handler name of this package.
const HandlerName = "endless.metrics.v3"

// DefaultChannelCacheSize bounds the per-worker channel id cache.
const DefaultChannelCacheSize = 4096

// Processor stores metrics-v3 records. It is owned by one worker and is not
// safe for concurrent use.
type Processor struct {
	dispatcher *Dispatcher

	// channels caches committed channel ids by identity. Reset must be called
	// after a rolled back transaction since it may hold ids that were never
	// committed.
	channels *lru.Cache[string, int64]
}

// NewProcessor returns a processor routing events through registry.
func NewProcessor(registry *events.Registry, cacheSize int) (*Processor, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultChannelCacheSize
	}
	cache, err := lru.New[string, int64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel cache: %w", err)
	}
	return &Processor{dispatcher: NewDispatcher(registry), channels: cache}, nil
}

// Name returns the handler name.
func (p *Processor) Name() string { return HandlerName }

// Reset forgets cached channel ids.
func (p *Processor) Reset() { p.channels.Purge() }

// Process decodes record and writes its channel, request and events through
// store. A request whose fingerprint was already stored writes nothing new.
func (p *Processor) Process(ctx context.Context, store database.Store, record []byte) error {
	req, err := DecodeRecord(record)
	if err != nil {
		return err
	}

	channelID, err := p.channelID(ctx, store, &req.Channel)
	if err != nil {
		return err
	}
	req.Channel.ID = channelID
	req.Request.ChannelID = channelID

	if _, inserted, err := store.InsertRequest(ctx, &req.Request); err != nil {
		return err
	} else if !inserted {
		appmetrics.RecordDuplicateRequest()
		logging.Ctx(ctx).Debug().Str("sha512", req.Request.SHA512).Msg("Duplicate request, skipping its events")
		return nil
	}

	for _, child := range req.Singulars {
		out, err := p.dispatcher.Singular(ctx, req, child)
		if err != nil {
			return err
		}
		if err := p.write(ctx, store, events.Singular, out); err != nil {
			return err
		}
	}
	for _, child := range req.Aggregates {
		out, err := p.dispatcher.Aggregate(ctx, req, child)
		if err != nil {
			return err
		}
		if err := p.write(ctx, store, events.Aggregate, out); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) channelID(ctx context.Context, store database.Store, ch *models.Channel) (int64, error) {
	key := channelKey(ch)
	if id, ok := p.channels.Get(key); ok {
		return id, nil
	}
	id, err := store.UpsertChannel(ctx, ch)
	if err != nil {
		return 0, err
	}
	p.channels.Add(key, id)
	return id, nil
}

func (p *Processor) write(ctx context.Context, store database.Store, kind events.Kind, out Outcome) error {
	appmetrics.RecordEvent(kind.String(), out.Kind.String())

	switch out.Kind {
	case Drop:
		logging.Ctx(ctx).Debug().
			Str("event_id", out.EventID.String()).
			Bool("ignored", out.Ignored).
			Msg("Dropping metric event")
		return nil
	case Invalid:
		logging.Ctx(ctx).Warn().Err(out.Err).Str("event_id", out.EventID.String()).Msg("Storing invalid metric event")
	case Unknown:
		logging.Ctx(ctx).Debug().Str("event_id", out.EventID.String()).Msg("Storing unknown metric event")
	}
	return store.InsertRow(ctx, out.Row)
}

// channelKey renders the identity tuple of ch.
func channelKey(ch *models.Channel) string {
	keys := make([]string, 0, len(ch.Site))
	for k := range ch.Site {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(ch.ImageID)
	for _, k := range keys {
		sb.WriteByte(0)
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(ch.Site[k])
	}
	fmt.Fprintf(&sb, "\x00%t\x00%t", ch.DualBoot, ch.Live)
	return sb.String()
}
