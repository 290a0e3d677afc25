package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is an external channel notified about visitor events,
// in addition to the direct host email.
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // discord, slack, gotify, telegram, webhook
	URL     string `json:"url"`  // shoutrrr URL or plain webhook URL
	Enabled bool   `json:"enabled"`

	NotifySignIns  bool `json:"notify_sign_ins" gorm:"default:true"`
	NotifySignOuts bool `json:"notify_sign_outs" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
