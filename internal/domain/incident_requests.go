package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReportRequest struct {
	IncidentType string     `json:"incidentType"`
	Location     string     `json:"location" validate:"required"`
	LocationName string     `json:"locationName"`
	Date         *time.Time `json:"date"`
	Description  string     `json:"description" validate:"required"`
	Urgency      string     `json:"urgency" validate:"required"`
	Anonymous    bool       `json:"anonymous"`
	FollowUp     bool       `json:"followUp"`
	Files        []string   `json:"files" validate:"max=5"`
}

type UpdateStatusRequest struct {
	Status IncidentStatus `json:"status" validate:"required,incident_status"`
}

// Coordinates is the lat/lng shape dashboards render; note the order is
// swapped back from the stored (lng, lat) pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IncidentSummary is the new_incident_reported payload.
type IncidentSummary struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Type         string         `json:"type"`
	Status       IncidentStatus `json:"status"`
	Date         time.Time      `json:"date"`
	Location     Coordinates    `json:"location"`
	LocationName string         `json:"locationName"`
	Reporter     Reporter       `json:"reporter"`
}

// IncidentListItem is one row of the all_incidents_update payload and the
// admin list endpoint.
type IncidentListItem struct {
	ID           uuid.UUID      `json:"id"`
	IncidentType string         `json:"incidentType"`
	LocationName string         `json:"locationName"`
	Coordinates  Coordinates    `json:"coordinates"`
	Urgency      string         `json:"urgency"`
	Description  string         `json:"description"`
	Status       IncidentStatus `json:"status"`
	Date         time.Time      `json:"date"`
	Anonymous    bool           `json:"anonymous"`
	ReportedBy   Reporter       `json:"reportedBy"`
}

// MapPoint is the trimmed projection for the spatial map client.
type MapPoint struct {
	Type     string         `json:"type"`
	Status   IncidentStatus `json:"status"`
	Urgency  string         `json:"urgency"`
	Date     time.Time      `json:"date"`
	Location Coordinates    `json:"location"`
}

func (i *Incident) Summary() IncidentSummary {
	return IncidentSummary{
		ID:           i.ID,
		Title:        i.IncidentType,
		Type:         i.IncidentType,
		Status:       i.Status,
		Date:         i.Date,
		Location:     Coordinates{Lat: i.Location.Lat, Lng: i.Location.Lng},
		LocationName: i.LocationName,
		Reporter:     i.Reporter,
	}
}

func (i *Incident) ListItem() IncidentListItem {
	return IncidentListItem{
		ID:           i.ID,
		IncidentType: i.IncidentType,
		LocationName: i.LocationName,
		Coordinates:  Coordinates{Lat: i.Location.Lat, Lng: i.Location.Lng},
		Urgency:      i.Urgency,
		Description:  i.Description,
		Status:       i.Status,
		Date:         i.Date,
		Anonymous:    i.Reporter == ReporterAnonymous,
		ReportedBy:   i.Reporter,
	}
}

func (i *Incident) MapPoint() MapPoint {
	return MapPoint{
		Type:     i.IncidentType,
		Status:   i.Status,
		Urgency:  i.Urgency,
		Date:     i.Date,
		Location: Coordinates{Lat: i.Location.Lat, Lng: i.Location.Lng},
	}
}

func ToListItems(src []*Incident) []IncidentListItem {
	out := make([]IncidentListItem, 0, len(src))
	for _, inc := range src {
		out = append(out, inc.ListItem())
	}
	return out
}
