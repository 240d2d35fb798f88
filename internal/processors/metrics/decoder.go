// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
)

// EnvelopeSignature is the type of a metrics-v3 request body.
const EnvelopeSignature = "(xxsa{ss}ya(aysxmv)a(ayssumv))"

var envelopeType = gvariant.MustParseType(EnvelopeSignature)

// receivedTimeSize is the length of the receive time prefix of a record.
const receivedTimeSize = 8

// Clock reconciliation window: a client absolute clock at most this far
// behind or ahead of the server receive time is trusted.
const (
	maxClockLag  = 600 * time.Second
	maxClockLead = 1 * time.Second
)

// Boot flags of the envelope.
const (
	flagDualBoot = 1 << 0
	flagLive     = 1 << 1
)

// ErrShortRecord is returned for records too short to hold the receive
// time prefix.
var ErrShortRecord = errors.New("metrics: record shorter than its receive time prefix")

// ErrTimestampOverflow is returned when an event time does not fit in an
// int64 nanosecond count.
var ErrTimestampOverflow = errors.New("metrics: event timestamp overflows")

// Request is a decoded metrics-v3 record.
type Request struct {
	Channel models.Channel
	Request models.Request

	// Singulars and Aggregates are the raw event tuples, (aysxmv) and
	// (ayssumv), in submission order.
	Singulars  []gvariant.Value
	Aggregates []gvariant.Value
}

// DecodeRecord splits a queue record and parses its body. The returned
// request has no ids yet.
func DecodeRecord(record []byte) (*Request, error) {
	if len(record) < receivedTimeSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrShortRecord, len(record))
	}
	receivedUsec := binary.LittleEndian.Uint64(record[:receivedTimeSize])
	body := record[receivedTimeSize:]

	v, err := gvariant.ParseAs(envelopeType, body)
	if err != nil {
		return nil, fmt.Errorf("invalid metrics-v3 request body: %w", err)
	}
	env := v.(gvariant.Tuple)

	relative := int64(env[0].(gvariant.Int64))
	absolute := int64(env[1].(gvariant.Int64))
	imageID := string(env[2].(gvariant.String))
	site, err := gvariant.AsStringMap(env[3])
	if err != nil {
		return nil, err
	}
	flags := byte(env[4].(gvariant.Byte))

	receivedNS := int64(receivedUsec) * 1000 //nolint:gosec // microseconds since epoch fit in int64
	digest := sha512.Sum512(body)

	img, err := imageid.Parse(imageID)
	if err != nil {
		img = imageid.Image{}
	}

	return &Request{
		Channel: models.Channel{
			ImageID:  imageID,
			Site:     filterSite(site),
			DualBoot: flags&flagDualBoot != 0,
			Live:     flags&flagLive != 0,
			Image:    img,
		},
		Request: models.Request{
			SHA512:            hex.EncodeToString(digest[:]),
			ReceivedAt:        time.Unix(0, receivedNS).UTC(),
			AbsoluteTimestamp: ReconcileClock(receivedNS, absolute),
			RelativeTimestamp: relative,
		},
		Singulars:  env[5].(gvariant.Array).Values,
		Aggregates: env[6].(gvariant.Array).Values,
	}, nil
}

// ReconcileClock returns the absolute timestamp to store: the client's when
// it lies within [-1s, +600s] of the receive time, the receive time
// otherwise.
func ReconcileClock(receivedNS, clientNS int64) int64 {
	gap := receivedNS - clientNS
	if gap >= -int64(maxClockLead) && gap <= int64(maxClockLag) {
		return clientNS
	}
	return receivedNS
}

// filterSite keeps the known site keys with non-empty values.
func filterSite(site map[string]string) map[string]string {
	out := make(map[string]string, len(models.SiteKeys))
	for _, k := range models.SiteKeys {
		if v := site[k]; v != "" {
			out[k] = v
		}
	}
	return out
}

// EncodeRecord builds a queue record from a receive time and a body. It is
// the inverse of DecodeRecord's split and is used by tests and the replay
// tooling.
func EncodeRecord(received time.Time, body []byte) []byte {
	record := make([]byte, receivedTimeSize, receivedTimeSize+len(body))
	binary.LittleEndian.PutUint64(record, uint64(received.UnixMicro())) //nolint:gosec // post-epoch times only
	return append(record, body...)
}
