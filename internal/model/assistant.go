package model

import "time"

// Assistant mirrors a remote assistant resource. AsstID is the stable
// external identifier; the local row is authoritative for avatar-facing
// fields (avatar, voice, background, language) that the remote API never
// sees.
type Assistant struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ClientID          uint      `gorm:"not null;index" json:"client_id"`
	AsstID            string    `gorm:"size:64;not null;uniqueIndex" json:"asst_id"`
	Name              string    `gorm:"size:128;not null" json:"name"`
	Instructions      string    `gorm:"type:text" json:"instructions"`
	Model             string    `gorm:"size:64;not null" json:"model"`
	Temperature       float32   `gorm:"not null;default:1" json:"temperature"`
	TopP              float32   `gorm:"not null;default:1" json:"top_p"`
	Avatar            string    `gorm:"size:128" json:"avatar"`
	Voice             string    `gorm:"size:64" json:"voice"`
	Background        string    `gorm:"size:128" json:"background"`
	Language          string    `gorm:"size:32" json:"language"`
	FileSearchEnabled bool      `gorm:"not null;default:false" json:"file_search_enabled"`
	VectorStoreID     string    `gorm:"size:64" json:"vector_store_id"`
	IsDeleted         bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Assistant) TableName() string { return "assistants" }
