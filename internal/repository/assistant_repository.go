package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type AssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) Create(assistant *model.Assistant) error {
	if err := r.db.Create(assistant).Error; err != nil {
		return fmt.Errorf("create assistant failed: %w", err)
	}
	return nil
}

func (r *AssistantRepository) GetByAsstID(asstID string) (*model.Assistant, error) {
	var assistant model.Assistant
	if err := r.db.Where("asst_id = ?", asstID).First(&assistant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query assistant by asst_id failed: %w", err)
	}
	return &assistant, nil
}

// OwnerGroup resolves the tenant group of an assistant through its owning
// client. This is the only sanctioned way to pick the API credential for an
// assistant-scoped request; group names asserted by the caller are ignored.
func (r *AssistantRepository) OwnerGroup(asstID string) (string, error) {
	var group string
	err := r.db.Model(&model.Assistant{}).
		Select("clients.client_group").
		Joins("JOIN clients ON clients.id = assistants.client_id").
		Where("assistants.asst_id = ?", asstID).
		Scan(&group).Error
	if err != nil {
		return "", fmt.Errorf("query assistant owner group failed: %w", err)
	}
	return group, nil
}

// OwnerGroupByID is OwnerGroup keyed by the local row id.
func (r *AssistantRepository) OwnerGroupByID(id uint) (string, error) {
	var group string
	err := r.db.Model(&model.Assistant{}).
		Select("clients.client_group").
		Joins("JOIN clients ON clients.id = assistants.client_id").
		Where("assistants.id = ?", id).
		Scan(&group).Error
	if err != nil {
		return "", fmt.Errorf("query assistant owner group failed: %w", err)
	}
	return group, nil
}

func (r *AssistantRepository) VectorStoreIDByID(id uint) (string, error) {
	var storeID string
	err := r.db.Model(&model.Assistant{}).
		Select("vector_store_id").
		Where("id = ?", id).
		Scan(&storeID).Error
	if err != nil {
		return "", fmt.Errorf("query assistant vector store failed: %w", err)
	}
	return storeID, nil
}

// ListByClientID returns the client's assistants, soft-deleted rows excluded.
func (r *AssistantRepository) ListByClientID(clientID uint) ([]model.Assistant, error) {
	var assistants []model.Assistant
	if err := r.db.Where("client_id = ? AND is_deleted = ?", clientID, false).
		Order("created_at DESC").Find(&assistants).Error; err != nil {
		return nil, fmt.Errorf("list assistants failed: %w", err)
	}
	return assistants, nil
}

func (r *AssistantRepository) ListByGroup(group string) ([]model.Assistant, error) {
	var assistants []model.Assistant
	err := r.db.
		Joins("JOIN clients ON clients.id = assistants.client_id").
		Where("clients.client_group = ? AND assistants.is_deleted = ?", group, false).
		Order("assistants.created_at DESC").
		Find(&assistants).Error
	if err != nil {
		return nil, fmt.Errorf("list assistants by group failed: %w", err)
	}
	return assistants, nil
}

func (r *AssistantRepository) ListAll() ([]model.Assistant, error) {
	var assistants []model.Assistant
	if err := r.db.Where("is_deleted = ?", false).Order("created_at DESC").Find(&assistants).Error; err != nil {
		return nil, fmt.Errorf("list all assistants failed: %w", err)
	}
	return assistants, nil
}

// UpdateFields writes the given columns and reports whether any row matched,
// so the caller can distinguish a miss from a no-op.
func (r *AssistantRepository) UpdateFields(asstID string, fields map[string]any) (bool, error) {
	result := r.db.Model(&model.Assistant{}).Where("asst_id = ?", asstID).Updates(fields)
	if result.Error != nil {
		return false, fmt.Errorf("update assistant failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AssistantRepository) SoftDelete(asstID string) (bool, error) {
	result := r.db.Model(&model.Assistant{}).Where("asst_id = ?", asstID).Update("is_deleted", true)
	if result.Error != nil {
		return false, fmt.Errorf("soft delete assistant failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AssistantRepository) SetVectorStoreID(asstID, vectorStoreID string) error {
	if err := r.db.Model(&model.Assistant{}).Where("asst_id = ?", asstID).
		Update("vector_store_id", vectorStoreID).Error; err != nil {
		return fmt.Errorf("set assistant vector store failed: %w", err)
	}
	return nil
}
