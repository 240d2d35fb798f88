// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package activation

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
const HandlerName = "endless.activation.v1"

// Record is the JSON form of an activation.
type Record struct {
	Image     string           `json:"image" validate:"required"`
	Vendor    string           `json:"vendor"`
	Product   string           `json:"product"`
	Release   string           `json:"release" validate:"required"`
	Serial    *string          `json:"serial"`
	DualBoot  *bool            `json:"dualboot"`
	MacHash   *int64           `json:"mac_hash"`
	Country   *string          `json:"country" validate:"omitempty,country"`
	Region    *string          `json:"region"`
	City      *string          `json:"city"`
	Latitude  *float64         `json:"latitude" validate:"omitempty,halfint,gte=-90,lte=90"`
	Longitude *float64         `json:"longitude" validate:"omitempty,halfint,gte=-180,lte=180"`
	CreatedAt models.Timestamp `json:"created_at"`
}

// Parse decodes and validates an activation record.
func Parse(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("invalid activation record: %w", err)
	}
	r.Country = nilIfEmpty(r.Country)
	r.Region = nilIfEmpty(r.Region)
	r.City = nilIfEmpty(r.City)

	if err := validation.ValidateStruct(&r); err != nil {
		return nil, fmt.Errorf("invalid activation record: %w", err)
	}
	if r.CreatedAt.IsZero() {
		return nil, fmt.Errorf("invalid activation record: created_at is required")
	}
	return &r, nil
}

func nilIfEmpty(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}

// Activation returns the row model of r.
func (r *Record) Activation(ctx context.Context) models.Activation {
	img, err := imageid.Parse(r.Image)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Cannot parse activation image, leaving its components empty")
		img = imageid.Image{}
	}

	return models.Activation{
		Image:       r.Image,
		Vendor:      vendors.Normalize(r.Vendor),
		Product:     r.Product,
		Release:     r.Release,
		Serial:      r.Serial,
		DualBoot:    r.DualBoot,
		MacHash:     r.MacHash,
		Country:     r.Country,
		Region:      r.Region,
		City:        r.City,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		CreatedAt:   r.CreatedAt.Time,
		ParsedImage: img,
	}
}

// Processor stores activation records.
type Processor struct{}

// NewProcessor returns an activation processor.
func NewProcessor() *Processor { return &Processor{} }

// Name returns the handler name.
func (p *Processor) Name() string { return HandlerName }

// Process appends one activation row.
func (p *Processor) Process(ctx context.Context, store database.Store, record []byte) error {
	r, err := Parse(record)
	if err != nil {
		return err
	}
	return store.InsertRow(ctx, r.Activation(ctx).Row())
}
