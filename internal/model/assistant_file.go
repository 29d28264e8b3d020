package model

import "time"

// AssistantFile records a file that finished indexing into an assistant's
// vector store. It is the retrieval-facing counterpart of File: one row per
// remote vector-store entry, written by the index worker.
type AssistantFile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AssistantID       uint      `gorm:"not null;index" json:"assistant_id"`
	FileID            uint      `gorm:"not null;index" json:"file_id"`
	Name              string    `gorm:"size:256;not null" json:"name"`
	VectorStoreID     string    `gorm:"size:64;not null;index" json:"vector_store_id"`
	VectorStoreFileID string    `gorm:"size:64;not null;uniqueIndex" json:"vector_store_file_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (AssistantFile) TableName() string { return "assistant_files" }
