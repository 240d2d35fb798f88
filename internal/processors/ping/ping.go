// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package ping

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/logging"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/validation"
	"github.com/tomtom215/azafea/internal/vendors"
)

// HandlerName is the queue handler name of this package.
const HandlerName = "endless.ping.v1"

// Record is the JSON form of a ping.
type Record struct {
	Image              string           `json:"image" validate:"required"`
	Vendor             string           `json:"vendor"`
	Product            string           `json:"product"`
	DualBoot           bool             `json:"dualboot"`
	Release            string           `json:"release" validate:"required"`
	Count              int64            `json:"count" validate:"gte=0"`
	MetricsEnabled     *bool            `json:"metrics_enabled"`
	MetricsEnvironment *string          `json:"metrics_environment"`
	Country            *string          `json:"country" validate:"omitempty,country"`
	CreatedAt          models.Timestamp `json:"created_at"`
}

// Parse decodes and validates a ping record.
func Parse(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("invalid ping record: %w", err)
	}
	if r.Country != nil && *r.Country == "" {
		r.Country = nil
	}
	if err := validation.ValidateStruct(&r); err != nil {
		return nil, fmt.Errorf("invalid ping record: %w", err)
	}
	if r.CreatedAt.IsZero() {
		return nil, fmt.Errorf("invalid ping record: created_at is required")
	}
	return &r, nil
}

// Configuration returns the deduplicated configuration part of r, with a
// normalized vendor.
func (r *Record) Configuration(ctx context.Context) *models.PingConfiguration {
	return &models.PingConfiguration{
		Image:       r.Image,
		Vendor:      vendors.Normalize(r.Vendor),
		Product:     r.Product,
		DualBoot:    r.DualBoot,
		ParsedImage: parseImage(ctx, r.Image),
	}
}

// Ping returns the ping row of r for configuration configID.
func (r *Record) Ping(configID int64) models.Ping {
	return models.Ping{
		ConfigID:           configID,
		Release:            r.Release,
		Count:              r.Count,
		Country:            r.Country,
		MetricsEnabled:     r.MetricsEnabled,
		MetricsEnvironment: r.MetricsEnvironment,
		CreatedAt:          r.CreatedAt.Time,
	}
}

func parseImage(ctx context.Context, image string) imageid.Image {
	img, err := imageid.Parse(image)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Cannot parse ping image, leaving its components empty")
		return imageid.Image{}
	}
	return img
}

// Processor stores ping records.
type Processor struct{}

// NewProcessor returns a ping processor.
func NewProcessor() *Processor { return &Processor{} }

// Name returns the handler name.
func (p *Processor) Name() string { return HandlerName }

// Process upserts the record's configuration and appends its ping.
func (p *Processor) Process(ctx context.Context, store database.Store, record []byte) error {
	r, err := Parse(record)
	if err != nil {
		return err
	}

	configID, err := store.UpsertPingConfiguration(ctx, r.Configuration(ctx))
	if err != nil {
		return err
	}
	return store.InsertRow(ctx, r.Ping(configID).Row())
}
