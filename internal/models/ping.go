// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package models

import (
	"time"

	"github.com/tomtom215/azafea/internal/imageid"
)

// Ping and activation tables.
const (
	TablePingConfiguration = "ping_configuration_v1"
	TablePing              = "ping_v1"
	TableActivation        = "activation_v1"
)

// PingConfiguration is the deduplicated hardware and image configuration
// shared by pings. (Image, Vendor, Product, DualBoot) is unique.
type PingConfiguration struct {
	ID       int64
	Image    string
	Vendor   string
	Product  string
	DualBoot bool

	ParsedImage imageid.Image
}

// Ping is a periodic liveness report from one machine.
type Ping struct {
	ID                 int64
	ConfigID           int64
	Release            string
	Count              int64
	Country            *string
	MetricsEnabled     *bool
	MetricsEnvironment *string
	CreatedAt          time.Time
}

// Row converts the ping into an insertable row.
func (p Ping) Row() Row {
	return Row{Table: TablePing, Fields: Fields{
		{"config_id", p.ConfigID},
		{"release", p.Release},
		{"count", p.Count},
		{"country", p.Country},
		{"metrics_enabled", p.MetricsEnabled},
		{"metrics_environment", p.MetricsEnvironment},
		{"created_at", p.CreatedAt},
	}}
}

// Activation records the first boot of a machine.
type Activation struct {
	ID        int64
	Image     string
	Vendor    string
	Product   string
	Release   string
	Serial    *string
	DualBoot  *bool
	MacHash   *int64
	Country   *string
	Region    *string
	City      *string
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time

	ParsedImage imageid.Image
}

// Row converts the activation into an insertable row.
func (a Activation) Row() Row {
	fields := Fields{
		{"image", a.Image},
		{"vendor", a.Vendor},
		{"product", a.Product},
		{"release", a.Release},
		{"serial", a.Serial},
		{"dualboot", a.DualBoot},
		{"mac_hash", a.MacHash},
		{"country", a.Country},
		{"region", a.Region},
		{"city", a.City},
		{"latitude", a.Latitude},
		{"longitude", a.Longitude},
		{"created_at", a.CreatedAt},
	}
	return Row{Table: TableActivation, Fields: append(fields, ImageFields(a.ParsedImage)...)}
}

// ImageFields returns the six parsed image columns of img.
func ImageFields(img imageid.Image) Fields {
	values := img.Columns()
	fields := make(Fields, len(values))
	for i, v := range values {
		fields[i] = Field{Name: imageid.ColumnNames[i], Value: v}
	}
	return fields
}
