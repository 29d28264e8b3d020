package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(template *model.Template) error {
	if err := r.db.Create(template).Error; err != nil {
		return fmt.Errorf("create template failed: %w", err)
	}
	return nil
}

func (r *TemplateRepository) GetByID(id uint) (*model.Template, error) {
	var template model.Template
	if err := r.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query template by id failed: %w", err)
	}
	return &template, nil
}

func (r *TemplateRepository) List() ([]model.Template, error) {
	var templates []model.Template
	if err := r.db.Order("id ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates failed: %w", err)
	}
	return templates, nil
}

func (r *TemplateRepository) ListByGroup(group string) ([]model.Template, error) {
	var templates []model.Template
	if err := r.db.Where("client_group = ?", group).Order("id ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates by group failed: %w", err)
	}
	return templates, nil
}

func (r *TemplateRepository) Update(template *model.Template) error {
	if err := r.db.Save(template).Error; err != nil {
		return fmt.Errorf("update template failed: %w", err)
	}
	return nil
}

func (r *TemplateRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&model.Template{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete template failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
