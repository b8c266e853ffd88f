package repository

import (
	"errors"

	"testseries_backend/internal/model"
	"testseries_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentRepository interface {
	FindByID(id uint) (*model.UserTestAssignment, error)
	ListByUser(userID uint) ([]model.UserTestAssignment, error)
	ListByReviewed(reviewed bool) ([]model.UserTestAssignment, error)
	// UpdateTimerMirror refreshes only the denormalized elapsed checkpoint;
	// it never touches the window or the reviewed flag.
	UpdateTimerMirror(id uint, elapsed string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) FindByID(id uint) (*model.UserTestAssignment, error) {
	var a model.UserTestAssignment
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) ListByUser(userID uint) ([]model.UserTestAssignment, error) {
	var assignments []model.UserTestAssignment
	err := r.db.Where("user_id = ?", userID).Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) ListByReviewed(reviewed bool) ([]model.UserTestAssignment, error) {
	var assignments []model.UserTestAssignment
	err := r.db.Where("reviewed = ?", reviewed).Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) UpdateTimerMirror(id uint, elapsed string) error {
	return r.db.Model(&model.UserTestAssignment{}).
		Where("id = ?", id).
		Update("last_elapsed", elapsed).Error
}
