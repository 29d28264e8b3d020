package model

import "time"

// AssistantFunction mirrors one function-type tool registered on the remote
// assistant. Parameters is the JSON schema text pushed to the remote side.
type AssistantFunction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AssistantID uint      `gorm:"not null;index:idx_assistant_function,unique" json:"assistant_id"`
	Name        string    `gorm:"size:128;not null;index:idx_assistant_function,unique" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	Parameters  string    `gorm:"type:text" json:"parameters"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AssistantFunction) TableName() string { return "assistant_functions" }
