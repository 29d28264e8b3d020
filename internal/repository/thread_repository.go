package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) Create(thread *model.Thread) error {
	if err := r.db.Create(thread).Error; err != nil {
		return fmt.Errorf("create thread failed: %w", err)
	}
	return nil
}

func (r *ThreadRepository) GetByID(id uint) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query thread by id failed: %w", err)
	}
	return &thread, nil
}

// ListByAsstID lists threads via the assistant's external identifier; soft
// deletion of the assistant does not hide its history.
func (r *ThreadRepository) ListByAsstID(asstID string) ([]model.Thread, error) {
	var threads []model.Thread
	err := r.db.
		Joins("JOIN assistants ON assistants.id = threads.assistant_id").
		Where("assistants.asst_id = ?", asstID).
		Order("threads.created_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("list threads failed: %w", err)
	}
	return threads, nil
}
