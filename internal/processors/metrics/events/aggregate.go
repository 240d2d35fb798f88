// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import "github.com/tomtom215/azafea/internal/models"

func aggregateEvents() []*Spec {
	return []*Spec{
		{
			ID:      "49d0451a-f706-4f50-81d2-70cc0ec923a4",
			Name:    "DailyAppUsage",
			Table:   "daily_app_usage",
			Payload: sig("s"),
			Columns: []models.Column{indexed("app_id", "text")},
			Build:   direct("app_id"),
		},
		{
			ID:    "a3826320-9192-446a-8886-d2129c0ce302",
			Name:  "DailyUsers",
			Table: "daily_users",
		},
		{
			ID:    "86cf5e43-1c3e-4434-9b6b-338b5d6b9797",
			Name:  "MonthlyUsers",
			Table: "monthly_users",
		},
		{
			ID:    "5dc0b53c-93f9-4df0-ad6f-bd25e9fe638f",
			Name:  "DailySessionTime",
			Table: "daily_session_time",
		},
	}
}
