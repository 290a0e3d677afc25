package store

import (
	"errors"

	"github.com/foyerhq/foyer/backend/internal/models"
)

var (
	// ErrNotFound signals that no record matches the given id or name.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken signals an admin username collision on creation.
	ErrUsernameTaken = errors.New("username already taken")
)

// Store is the persistence contract for visitors, admin users and the audit
// trail. Two implementations exist: Memory (maps behind a mutex) and Gorm
// (SQLite). A future persistent backend only needs to satisfy this interface.
//
// Implementations serialize access so every mutation of a single record
// appears atomic to concurrent readers. They perform no validation and no
// audit side effects; both belong to the callers.
type Store interface {
	// Visitors
	CreateVisitor(v *models.Visitor) error
	GetVisitor(id string) (*models.Visitor, error)
	// FindActiveVisitorByName matches case-insensitively among visitors that
	// are not signed out. When several active visitors share a name the one
	// with the earliest sign-in wins (id as the final tie-break), so repeated
	// calls against the same state resolve identically.
	FindActiveVisitorByName(name string) (*models.Visitor, error)
	// SaveVisitor overwrites an existing record. ErrNotFound if the id is unknown.
	SaveVisitor(v *models.Visitor) error
	ListCurrentVisitors() ([]models.Visitor, error)
	ListVisitors() ([]models.Visitor, error)

	// Admin users
	CreateAdmin(u *models.AdminUser) error
	GetAdmin(id string) (*models.AdminUser, error)
	GetAdminByUsername(username string) (*models.AdminUser, error)
	CountAdmins() (int64, error)

	// Audit trail
	AppendAudit(entry *models.AuditLog) error
	// ListAudit returns entries newest-first.
	ListAudit() ([]models.AuditLog, error)
}
