package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables del workflow de préstamos.
const (
	AuditActionCreate  = "Create Borrow Request"
	AuditActionApprove = "Approve Borrow Request"
	AuditActionDeny    = "Deny Borrow Request"
	AuditActionReturns = "Update Returned Quantity"
)

// AuditEntry registro inmutable de una acción que cambió el estado de un préstamo.
// Solo se inserta; nunca se actualiza ni se borra.
type AuditEntry struct {
	ID         string
	TransferID string
	UserID     string
	UserName   string
	Action     string
	Details    json.RawMessage // valores viejos/nuevos por línea, razón, etc.
	CreatedAt  time.Time
}
