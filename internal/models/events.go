package models

import "time"

// Audit event types
const (
	EventTypeOrderAdded   = "NEW ORDER ADDED"
	EventTypeOrderEdited  = "ORDER EDITED"
	EventTypeOrderRemoved = "ORDER DELETED"
	EventTypeDataExported = "DATA EXPORTED TO BACKUP"
)

// AuditEvent is one entry appended to the audit log
type AuditEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	// OrderDate and Order are unset for export events.
	OrderDate time.Time `json:"order_date,omitempty"`
	Order     *Order    `json:"order,omitempty"`
}
