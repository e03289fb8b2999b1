package entity

import "time"

type EventType string

const (
	EventClientCreated  EventType = "client.created"
	EventClientUpdated  EventType = "client.updated"
	EventClientDeleted  EventType = "client.deleted"
	EventClientRestored EventType = "client.restored"
	EventProjectCreated EventType = "project.created"
	EventProjectUpdated EventType = "project.updated"
	EventProjectDeleted EventType = "project.deleted"
)

// Event is published after the change it describes has been committed.
type Event struct {
	Type             EventType      `json:"type"`
	OrganizationID   OrganizationID `json:"organization_id"`
	EntityID         string         `json:"entity_id"`
	Version          int            `json:"version,omitempty"`
	DetachedProjects int64          `json:"detached_projects,omitempty"`
	OccurredAt       time.Time      `json:"occurred_at"`
}

func ClientEvent(t EventType, c Client, occurredAt time.Time) Event {
	return Event{
		Type:           t,
		OrganizationID: c.OrganizationID,
		EntityID:       c.ID.String(),
		Version:        c.Version,
		OccurredAt:     occurredAt,
	}
}

func ProjectEvent(t EventType, p Project, occurredAt time.Time) Event {
	return Event{
		Type:           t,
		OrganizationID: p.OrganizationID,
		EntityID:       p.ID.String(),
		Version:        p.Version,
		OccurredAt:     occurredAt,
	}
}
