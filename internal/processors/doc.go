// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package processors binds handler names, as used in the queues section of
// the configuration, to the packages that store their records:
//
//	endless.metrics.v3     metrics
//	endless.ping.v1        ping
//	endless.activation.v1  activation
//
// Each worker builds its own handler instances through New, so handler state
// such as the metrics channel cache is never shared between workers.
package processors
