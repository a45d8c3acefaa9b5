package domain

import "time"

type StatusCount struct {
	Status IncidentStatus `json:"status"`
	Count  int64          `json:"count"`
}

type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// DashboardStats is recomputed on every call; there is no materialized view.
type DashboardStats struct {
	Total        int64           `json:"total"`
	ByStatus     []StatusCount   `json:"byStatus"`
	Daily        []DailyCount    `json:"daily"`
	TopLocations []LocationCount `json:"topLocations"`
}

// MapStats is the inline count block returned with the map projection.
type MapStats struct {
	Total         int64 `json:"total"`
	Pending       int64 `json:"pending"`
	Investigating int64 `json:"investigating"`
	Resolved      int64 `json:"resolved"`
	Escalated     int64 `json:"escalated"`
}
