package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common visit reason values offered by the kiosk. The field is an open set;
// any non-empty reason is accepted.
const (
	VisitReasonMeeting     = "meeting"
	VisitReasonInterview   = "interview"
	VisitReasonDelivery    = "delivery"
	VisitReasonMaintenance = "maintenance"
	VisitReasonOther       = "other"
)

// Visitor tracks one front-desk visit from sign-in to sign-out.
// IsSignedOut and SignOutTime are set together and never revert; a visitor
// who returns signs in as a new record.
type Visitor struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"index"`
	Company     *string    `json:"company"`
	HostName    string     `json:"hostName"`
	VisitReason string     `json:"visitReason"`
	PhotoData   *string    `json:"photoData" gorm:"type:text"` // base64 encoded photo
	SignInTime  time.Time  `json:"signInTime"`
	SignOutTime *time.Time `json:"signOutTime"`
	IsSignedOut bool       `json:"isSignedOut" gorm:"default:false;index"`
	EmailSent   bool       `json:"emailSent" gorm:"default:false"`
}

func (v *Visitor) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

// Redacted returns a copy with photo data removed. Used whenever a bulk
// listing crosses a payload-size or privacy boundary.
func (v Visitor) Redacted() Visitor {
	v.PhotoData = nil
	return v
}
