// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"context"
	"errors"

	"github.com/tomtom215/azafea/internal/models"
)

// fakeStore is an in-memory database.Store.
type fakeStore struct {
	channels       map[string]int64
	channelUpserts int
	requests       map[string]int64
	rows           []models.Row
	nextID         int64

	failInsert error
}

func newFakeStore() *fakeStore {
	return &fakeStore{channels: map[string]int64{}, requests: map[string]int64{}}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) UpsertChannel(_ context.Context, ch *models.Channel) (int64, error) {
	f.channelUpserts++
	key := channelKey(ch)
	if id, ok := f.channels[key]; ok {
		return id, nil
	}
	id := f.id()
	f.channels[key] = id
	return id, nil
}

func (f *fakeStore) InsertRequest(_ context.Context, req *models.Request) (int64, bool, error) {
	if id, ok := f.requests[req.SHA512]; ok {
		return id, false, nil
	}
	id := f.id()
	f.requests[req.SHA512] = id
	return id, true, nil
}

func (f *fakeStore) UpsertPingConfiguration(context.Context, *models.PingConfiguration) (int64, error) {
	return 0, errors.New("not supported")
}

func (f *fakeStore) InsertRow(_ context.Context, row models.Row) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeStore) rowsIn(table string) []models.Row {
	var out []models.Row
	for _, r := range f.rows {
		if r.Table == table {
			out = append(out, r)
		}
	}
	return out
}
