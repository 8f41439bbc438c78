package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flooring-orders/internal/models"
)

const auditTimestampLayout = "2006-01-02T15:04:05.000000"

// AuditLog appends one line per event to a text file
type AuditLog struct {
	path string
}

// NewAuditLog creates an audit log writing to path
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// WriteEntry appends event to the log. Failures are PersistenceErrors
// recognised by IsAuditFailure.
func (a *AuditLog) WriteEntry(event models.AuditEvent) error {
	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return persistenceErr(opAudit, a.path, err)
		}
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return persistenceErr(opAudit, a.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditEntry(event) + "\n"); err != nil {
		return persistenceErr(opAudit, a.path, err)
	}
	return nil
}

// FormatAuditEntry renders an event as a single audit line, e.g.
//
//	2026-10-17T09:30:00.000000 : NEW ORDER ADDED | Order Date: 2026-10-18 | Order{orderNumber=1, customerName=Shrek} | id=...
func FormatAuditEntry(event models.AuditEvent) string {
	parts := []string{event.EventType}
	if event.Order != nil {
		parts = append(parts,
			"Order Date: "+event.OrderDate.Format("2006-01-02"),
			event.Order.String(),
		)
	}
	if event.EventID != "" {
		parts = append(parts, "id="+event.EventID)
	}
	return fmt.Sprintf("%s : %s", event.Timestamp.Format(auditTimestampLayout), strings.Join(parts, " | "))
}
