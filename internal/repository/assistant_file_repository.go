package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type AssistantFileRepository struct {
	db *gorm.DB
}

func NewAssistantFileRepository(db *gorm.DB) *AssistantFileRepository {
	return &AssistantFileRepository{db: db}
}

func (r *AssistantFileRepository) Create(file *model.AssistantFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("create assistant file failed: %w", err)
	}
	return nil
}

func (r *AssistantFileRepository) ListByAssistantID(assistantID uint) ([]model.AssistantFile, error) {
	var files []model.AssistantFile
	if err := r.db.Where("assistant_id = ?", assistantID).
		Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list assistant files failed: %w", err)
	}
	return files, nil
}

func (r *AssistantFileRepository) DeleteByFileID(fileID uint) error {
	if err := r.db.Where("file_id = ?", fileID).Delete(&model.AssistantFile{}).Error; err != nil {
		return fmt.Errorf("delete assistant file failed: %w", err)
	}
	return nil
}
