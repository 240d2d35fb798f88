// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Totals sums the record counters over every queue and handler.
type Totals struct {
	Popped       float64
	Committed    float64
	Failed       float64
	DeadLettered float64
}

// GatherTotals reads the record counters from g.
func GatherTotals(g prometheus.Gatherer) (Totals, error) {
	families, err := g.Gather()
	if err != nil {
		return Totals{}, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var t Totals
	for _, mf := range families {
		switch mf.GetName() {
		case namespace + "_records_popped_total":
			t.Popped += sumCounters(mf, nil)
		case namespace + "_records_processed_total":
			t.Committed += sumCounters(mf, labelIs("result", resultCommitted))
			t.Failed += sumCounters(mf, labelIs("result", resultFailed))
		case namespace + "_records_dead_lettered_total":
			t.DeadLettered += sumCounters(mf, nil)
		}
	}
	return t, nil
}

func sumCounters(mf *dto.MetricFamily, keep func(*dto.Metric) bool) float64 {
	var sum float64
	for _, m := range mf.GetMetric() {
		if keep == nil || keep(m) {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func labelIs(name, value string) func(*dto.Metric) bool {
	return func(m *dto.Metric) bool {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name {
				return lp.GetValue() == value
			}
		}
		return false
	}
}
