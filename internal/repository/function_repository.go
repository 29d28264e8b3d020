package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type FunctionRepository struct {
	db *gorm.DB
}

func NewFunctionRepository(db *gorm.DB) *FunctionRepository {
	return &FunctionRepository{db: db}
}

func (r *FunctionRepository) Create(fn *model.AssistantFunction) error {
	if err := r.db.Create(fn).Error; err != nil {
		return fmt.Errorf("create assistant function failed: %w", err)
	}
	return nil
}

func (r *FunctionRepository) GetByName(assistantID uint, name string) (*model.AssistantFunction, error) {
	var fn model.AssistantFunction
	if err := r.db.Where("assistant_id = ? AND name = ?", assistantID, name).First(&fn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query assistant function failed: %w", err)
	}
	return &fn, nil
}

func (r *FunctionRepository) ListByAssistantID(assistantID uint) ([]model.AssistantFunction, error) {
	var fns []model.AssistantFunction
	if err := r.db.Where("assistant_id = ?", assistantID).Order("name ASC").Find(&fns).Error; err != nil {
		return nil, fmt.Errorf("list assistant functions failed: %w", err)
	}
	return fns, nil
}

func (r *FunctionRepository) DeleteByName(assistantID uint, name string) (bool, error) {
	result := r.db.Where("assistant_id = ? AND name = ?", assistantID, name).
		Delete(&model.AssistantFunction{})
	if result.Error != nil {
		return false, fmt.Errorf("delete assistant function failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
