// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package ping stores ping v1 records.
//
// A ping record is a JSON object sent periodically by a running machine:
//
//	{
//	    "image": "eos-eos3.7-amd64-amd64.190419-225606.base",
//	    "vendor": "ASUSTeK COMPUTER INC.",
//	    "product": "X541",
//	    "dualboot": false,
//	    "release": "3.7.0",
//	    "count": 12,
//	    "metrics_enabled": true,
//	    "metrics_environment": "production",
//	    "country": "FR",
//	    "created_at": "2020-05-04 10:11:12.000000Z"
//	}
//
// The hardware and image fields form a PingConfiguration, shared by every
// ping of the same machine model. The remaining fields form the Ping row.
// Unknown keys are ignored and a missing count is 0.
package ping
