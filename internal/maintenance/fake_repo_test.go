// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package maintenance

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
)

type imageEntry struct {
	image  string
	parsed imageid.Image
}

// fakeRepo is an in-memory Repo. Every chunk runs on a fakeSession writing
// straight into the maps.
type fakeRepo struct {
	configs     map[int64]models.PingConfiguration
	pings       map[int64]int64 // ping id -> configuration id
	activations map[int64]string
	images      map[string]map[int64]*imageEntry
	stored      map[string]map[int64]models.StoredEvent
	countries   map[string]map[int64]string
	inserted    []models.Row

	chunks    int
	failAfter int // chunks before UpdateVendor fails, 0 never
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		configs:     map[int64]models.PingConfiguration{},
		pings:       map[int64]int64{},
		activations: map[int64]string{},
		images:      map[string]map[int64]*imageEntry{},
		stored:      map[string]map[int64]models.StoredEvent{},
		countries:   map[string]map[int64]string{},
	}
}

func (f *fakeRepo) addImage(table string, id int64, image string) {
	if f.images[table] == nil {
		f.images[table] = map[int64]*imageEntry{}
	}
	f.images[table][id] = &imageEntry{image: image}
}

func (f *fakeRepo) addStored(table string, e models.StoredEvent) {
	if f.stored[table] == nil {
		f.stored[table] = map[int64]models.StoredEvent{}
	}
	f.stored[table][e.ID] = e
}

func (f *fakeRepo) addCountry(table string, id int64, code string) {
	if f.countries[table] == nil {
		f.countries[table] = map[int64]string{}
	}
	f.countries[table][id] = code
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// walk mimics database.ChunkedQuery: each chunk is re-read after the
// previous one was processed, following the last id seen.
func walk[T any](ctx context.Context, f *fakeRepo, size int, reverse bool, rows func() []T, id func(T) int64, fn database.ChunkFunc[T]) error {
	var last int64
	hasLast := false
	for {
		all := rows()
		if reverse {
			sort.Slice(all, func(i, j int) bool { return id(all[i]) > id(all[j]) })
		} else {
			sort.Slice(all, func(i, j int) bool { return id(all[i]) < id(all[j]) })
		}

		var chunk []T
		for _, r := range all {
			if hasLast && ((!reverse && id(r) <= last) || (reverse && id(r) >= last)) {
				continue
			}
			chunk = append(chunk, r)
			if len(chunk) == size {
				break
			}
		}
		if len(chunk) == 0 {
			return nil
		}

		f.chunks++
		if err := fn(ctx, &fakeSession{repo: f}, chunk); err != nil {
			return err
		}
		if len(chunk) < size {
			return nil
		}
		last, hasLast = id(chunk[len(chunk)-1]), true
	}
}

func (f *fakeRepo) PingConfigurationChunks(ctx context.Context, size int, fn database.ChunkFunc[models.PingConfiguration]) error {
	return walk(ctx, f, size, false, func() []models.PingConfiguration {
		var out []models.PingConfiguration
		for _, c := range f.configs {
			out = append(out, c)
		}
		return out
	}, func(c models.PingConfiguration) int64 { return c.ID }, fn)
}

func (f *fakeRepo) VendorChunks(ctx context.Context, table string, size int, fn database.ChunkFunc[database.VendorRow]) error {
	if table != models.TableActivation {
		return errors.New("fake: no vendors in " + table)
	}
	return walk(ctx, f, size, false, func() []database.VendorRow {
		var out []database.VendorRow
		for id, v := range f.activations {
			out = append(out, database.VendorRow{ID: id, Vendor: v})
		}
		return out
	}, func(r database.VendorRow) int64 { return r.ID }, fn)
}

func (f *fakeRepo) unparsed(table string) []database.ImageRow {
	var out []database.ImageRow
	for id, e := range f.images[table] {
		if e.parsed.IsZero() && e.image != "unknown" {
			out = append(out, database.ImageRow{ID: id, Image: e.image})
		}
	}
	return out
}

func (f *fakeRepo) UnparsedImageChunks(ctx context.Context, target database.ImageTarget, size int, fn database.ChunkFunc[database.ImageRow]) error {
	return walk(ctx, f, size, true, func() []database.ImageRow {
		return f.unparsed(target.Table)
	}, func(r database.ImageRow) int64 { return r.ID }, fn)
}

func (f *fakeRepo) StoredEventChunks(ctx context.Context, table string, _, _ bool, size int, fn database.ChunkFunc[models.StoredEvent]) error {
	return walk(ctx, f, size, false, func() []models.StoredEvent {
		var out []models.StoredEvent
		for _, e := range f.stored[table] {
			out = append(out, e)
		}
		return out
	}, func(e models.StoredEvent) int64 { return e.ID }, fn)
}

func (f *fakeRepo) Alpha3Countries(_ context.Context, table string) ([]string, error) {
	seen := map[string]bool{}
	var codes []string
	for _, c := range f.countries[table] {
		if len(c) == 3 && !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (f *fakeRepo) UpdateCountry(_ context.Context, table, from, to string) (int64, error) {
	var n int64
	for id, c := range f.countries[table] {
		if c == from {
			f.countries[table][id] = to
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountRows(_ context.Context, table, _ string, _ ...interface{}) (int64, error) {
	switch table {
	case models.TablePingConfiguration:
		return int64(len(f.configs)), nil
	case models.TableActivation:
		return int64(len(f.activations)), nil
	}
	return int64(len(f.stored[table])), nil
}

func (f *fakeRepo) CountUnparsedImages(_ context.Context, target database.ImageTarget) (int64, error) {
	return int64(len(f.unparsed(target.Table))), nil
}

func (f *fakeRepo) insertedIn(table string) []models.Row {
	var out []models.Row
	for _, r := range f.inserted {
		if r.Table == table {
			out = append(out, r)
		}
	}
	return out
}

type fakeSession struct {
	repo *fakeRepo
}

func (s *fakeSession) UpsertChannel(context.Context, *models.Channel) (int64, error) {
	return 0, errors.New("fake: not supported")
}

func (s *fakeSession) InsertRequest(context.Context, *models.Request) (int64, bool, error) {
	return 0, false, errors.New("fake: not supported")
}

func (s *fakeSession) UpsertPingConfiguration(context.Context, *models.PingConfiguration) (int64, error) {
	return 0, errors.New("fake: not supported")
}

func (s *fakeSession) InsertRow(_ context.Context, row models.Row) error {
	s.repo.inserted = append(s.repo.inserted, row)
	return nil
}

func (s *fakeSession) FindPingConfiguration(_ context.Context, image, vendor, product string, dualBoot bool, exclude int64) (int64, bool, error) {
	for _, id := range sortedIDs(s.repo.configs) {
		c := s.repo.configs[id]
		if id != exclude && c.Image == image && c.Vendor == vendor && c.Product == product && c.DualBoot == dualBoot {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeSession) UpdateVendor(_ context.Context, table string, id int64, vendor string) error {
	if s.repo.failAfter > 0 && s.repo.chunks > s.repo.failAfter {
		return errors.New("fake: connection reset")
	}
	switch table {
	case models.TablePingConfiguration:
		c := s.repo.configs[id]
		c.Vendor = vendor
		s.repo.configs[id] = c
	case models.TableActivation:
		s.repo.activations[id] = vendor
	default:
		return errors.New("fake: no vendors in " + table)
	}
	return nil
}

func (s *fakeSession) MovePings(_ context.Context, from, to int64) (int64, error) {
	var n int64
	for id, cfg := range s.repo.pings {
		if cfg == from {
			s.repo.pings[id] = to
			n++
		}
	}
	return n, nil
}

func (s *fakeSession) UpdateImage(_ context.Context, table string, id int64, img imageid.Image) error {
	e, ok := s.repo.images[table][id]
	if !ok {
		return errors.New("fake: no row")
	}
	e.parsed = img
	return nil
}

func (s *fakeSession) DeleteByID(_ context.Context, table string, id int64) error {
	switch {
	case table == models.TablePingConfiguration:
		for _, cfg := range s.repo.pings {
			if cfg == id {
				return errors.New("fake: ping_v1 still references configuration")
			}
		}
		delete(s.repo.configs, id)
	case strings.HasSuffix(table, "_event_v3"):
		delete(s.repo.stored[table], id)
	default:
		return errors.New("fake: cannot delete from " + table)
	}
	return nil
}

func (s *fakeSession) Commit(context.Context) error { return nil }
func (s *fakeSession) Rollback(context.Context) error { return nil }
