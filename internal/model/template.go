package model

import "time"

// Template is a group-scoped preset used to seed new assistants.
type Template struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	ClientGroup  string    `gorm:"size:64;not null;index" json:"client_group"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	Model        string    `gorm:"size:64" json:"model"`
	Temperature  float32   `gorm:"not null;default:1" json:"temperature"`
	TopP         float32   `gorm:"not null;default:1" json:"top_p"`
	Avatar       string    `gorm:"size:128" json:"avatar"`
	Voice        string    `gorm:"size:64" json:"voice"`
	Background   string    `gorm:"size:128" json:"background"`
	Language     string    `gorm:"size:32" json:"language"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Template) TableName() string { return "assistant_templates" }
