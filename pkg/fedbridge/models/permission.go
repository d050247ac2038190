package models

import (
	"time"
)

// Permission is a leaf entity owned collectively by roles.
type Permission struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"uniqueIndex" json:"code"`
	Module      string    `json:"module,omitempty"`
	Description string    `json:"description,omitempty"`
}
