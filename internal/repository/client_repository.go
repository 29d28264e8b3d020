package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(client *model.Client) error {
	if err := r.db.Create(client).Error; err != nil {
		return fmt.Errorf("create client failed: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(id uint) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query client by id failed: %w", err)
	}
	return &client, nil
}

// GetActiveByEmail only matches rows with is_active=1; deactivated clients
// cannot log in.
func (r *ClientRepository) GetActiveByEmail(email string) (*model.Client, error) {
	var client model.Client
	if err := r.db.Where("email = ? AND is_active = ?", email, true).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query client by email failed: %w", err)
	}
	return &client, nil
}

func (r *ClientRepository) GetByEmail(email string) (*model.Client, error) {
	var client model.Client
	if err := r.db.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query client by email failed: %w", err)
	}
	return &client, nil
}

func (r *ClientRepository) List() ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.Order("id ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients failed: %w", err)
	}
	return clients, nil
}

func (r *ClientRepository) ListByGroup(group string) ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.Where("client_group = ?", group).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients by group failed: %w", err)
	}
	return clients, nil
}

func (r *ClientRepository) Update(client *model.Client) error {
	if err := r.db.Save(client).Error; err != nil {
		return fmt.Errorf("update client failed: %w", err)
	}
	return nil
}

func (r *ClientRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&model.Client{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete client failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
