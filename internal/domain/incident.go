package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/pkg/geo"
)

type IncidentStatus string

const (
	StatusPending       IncidentStatus = "pending"
	StatusInvestigating IncidentStatus = "investigating"
	StatusResolved      IncidentStatus = "resolved"
	StatusEscalated     IncidentStatus = "escalated"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInvestigating, StatusResolved, StatusEscalated:
		return true
	}
	return false
}

type Reporter string

const (
	ReporterAnonymous Reporter = "anonymous"
	ReporterUser      Reporter = "user"
)

const MaxAttachments = 5

type Incident struct {
	ID           uuid.UUID      `json:"id"`
	IncidentType string         `json:"incidentType"`
	Location     geo.Point      `json:"location"`
	LocationName string         `json:"locationName"`
	Date         time.Time      `json:"date"`
	Description  string         `json:"description"`
	Urgency      string         `json:"urgency"`
	Status       IncidentStatus `json:"status"`
	Reporter     Reporter       `json:"reporter"`
	FollowUp     bool           `json:"followUp"`
	Files        []string       `json:"files"`
	CreatedAt    time.Time      `json:"createdAt"`
}
