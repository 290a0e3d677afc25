package models

import "time"

// Setting is a key/value configuration row, grouped by category
// (e.g. "smtp", "general").
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex"`
	Value     string    `json:"value"`
	Type      string    `json:"type" gorm:"default:'string'"`
	Category  string    `json:"category" gorm:"default:'general'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
