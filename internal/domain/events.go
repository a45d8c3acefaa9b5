package domain

// Event names pushed to connected dashboards. Renaming any of these breaks
// deployed dashboard clients.
const (
	EventNewIncident           = "new_incident_reported"
	EventAllIncidentsUpdate    = "all_incidents_update"
	EventIncidentStatusUpdated = "incident_status_updated"
	EventIncidentDeleted       = "incident_deleted"

	EventNewDiscussion        = "new_discussion_created"
	EventAllDiscussionsUpdate = "all_discussions_update"
	EventNewDiscussionMessage = "new_discussion_message"
	EventDiscussionDeleted    = "discussion_deleted"
)

// DeletedEvent carries just the id of a removed record.
type DeletedEvent struct {
	ID string `json:"id"`
}
