package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) CreateBatch(files []model.File) error {
	if len(files) == 0 {
		return nil
	}
	if err := r.db.Create(&files).Error; err != nil {
		return fmt.Errorf("create file batch failed: %w", err)
	}
	return nil
}

func (r *FileRepository) GetByID(id uint) (*model.File, error) {
	var file model.File
	if err := r.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query file by id failed: %w", err)
	}
	return &file, nil
}

func (r *FileRepository) ListByAssistantID(assistantID uint) ([]model.File, error) {
	var files []model.File
	if err := r.db.Where("assistant_id = ?", assistantID).
		Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files failed: %w", err)
	}
	return files, nil
}

func (r *FileRepository) ListByBatchID(batchID string) ([]model.File, error) {
	var files []model.File
	if err := r.db.Where("batch_id = ?", batchID).Order("id ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files by batch failed: %w", err)
	}
	return files, nil
}

func (r *FileRepository) MarkIndexed(id uint, vectorStoreFileID string) error {
	err := r.db.Model(&model.File{}).Where("id = ?", id).Updates(map[string]any{
		"status":               model.FileStatusIndexed,
		"vector_store_file_id": vectorStoreFileID,
		"error":                "",
	}).Error
	if err != nil {
		return fmt.Errorf("mark file indexed failed: %w", err)
	}
	return nil
}

func (r *FileRepository) MarkFailed(id uint, reason string) error {
	if len(reason) > 512 {
		reason = reason[:512]
	}
	err := r.db.Model(&model.File{}).Where("id = ?", id).Updates(map[string]any{
		"status": model.FileStatusFailed,
		"error":  reason,
	}).Error
	if err != nil {
		return fmt.Errorf("mark file failed failed: %w", err)
	}
	return nil
}

func (r *FileRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&model.File{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete file failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
