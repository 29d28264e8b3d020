package model

import "time"

// Thread is one conversation session against a remote assistant. ThreadID
// holds the external identifier assigned by the assistants API.
type Thread struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AssistantID uint      `gorm:"not null;index" json:"assistant_id"`
	ThreadID    string    `gorm:"size:64;not null;uniqueIndex" json:"thread_id"`
	Title       string    `gorm:"size:128" json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Thread) TableName() string { return "threads" }
