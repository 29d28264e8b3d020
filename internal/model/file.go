package model

import "time"

const (
	FileStatusPending = "pending"
	FileStatusIndexed = "indexed"
	FileStatusFailed  = "failed"
)

// File is the upload metadata row for the vector-store indexing workflow.
// Rows are created status=pending when the upload request is accepted and
// flipped to indexed/failed by the index worker. BatchID groups the files of
// one upload request so its progress can be polled.
type File struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AssistantID       uint      `gorm:"not null;index" json:"assistant_id"`
	ThreadID          uint      `gorm:"index" json:"thread_id"` // 0 = assistant-level upload
	Name              string    `gorm:"size:256;not null" json:"name"`
	Size              int64     `gorm:"not null" json:"size"`
	DiskName          string    `gorm:"size:256;not null" json:"-"`
	BatchID           string    `gorm:"size:64;not null;index" json:"batch_id"`
	Status            string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	Error             string    `gorm:"size:512" json:"error,omitempty"`
	VectorStoreFileID string    `gorm:"size:64" json:"vector_store_file_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (File) TableName() string { return "files" }
