package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action tags.
const (
	ActionVisitorSignIn  = "VISITOR_SIGN_IN"
	ActionVisitorUpdated = "VISITOR_UPDATED"
	ActionVisitorSignOut = "VISITOR_SIGN_OUT"
	ActionAdminCreated   = "ADMIN_CREATED"
)

// Audited entity types.
const (
	EntityTypeVisitor = "visitor"
	EntityTypeAdmin   = "admin_user"
)

// AuditLog is one immutable record of an action taken on a visitor or admin.
// Entries are appended by the service layer as a side effect of every
// mutation and are never updated or deleted.
type AuditLog struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	Action     string          `json:"action" gorm:"index"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"` // back-reference, not an ownership edge
	UserID     *string         `json:"userId"`   // nil for anonymous kiosk actions
	Details    json.RawMessage `json:"details" gorm:"type:text"`
	Timestamp  time.Time       `json:"timestamp" gorm:"index"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
