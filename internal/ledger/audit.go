package ledger

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names the operation recorded in the audit trail.
type AuditAction string

const (
	AuditCreated    AuditAction = "CREATED"
	AuditUpdated    AuditAction = "UPDATED"
	AuditConfirmed  AuditAction = "CONFIRMED"
	AuditAdjusted   AuditAction = "ADJUSTED"
	AuditRejected   AuditAction = "REJECTED"
	AuditSplit      AuditAction = "SPLIT"
	AuditClassified AuditAction = "CLASSIFIED"
)

// FieldChange records a before/after pair for one field.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// AuditLog is the compliance trail: one row per mutation, written in the
// same transaction as the mutation itself. Direct writes that bypass it
// are not allowed.
type AuditLog struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	CaseID    uuid.UUID
	Action    AuditAction
	Changes   map[string]FieldChange
	Reason    string
	Actor     string
	Timestamp time.Time
}

// AuditFilter narrows case-level audit queries.
type AuditFilter struct {
	Action *AuditAction
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
