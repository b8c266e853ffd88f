package repository

import (
	"errors"

	"testseries_backend/internal/model"
	"testseries_backend/internal/util"

	"gorm.io/gorm"
)

type TestRepository interface {
	FindByID(id uint) (*model.TestDefinition, error)
	ListSlices(testID uint) ([]model.TestSlice, error)
	FindSlice(testID, subjectID uint) (*model.TestSlice, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) FindByID(id uint) (*model.TestDefinition, error) {
	var t model.TestDefinition
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *testRepository) ListSlices(testID uint) ([]model.TestSlice, error) {
	var slices []model.TestSlice
	err := r.db.Where("test_id = ?", testID).Order("subject_id").Find(&slices).Error
	return slices, err
}

func (r *testRepository) FindSlice(testID, subjectID uint) (*model.TestSlice, error) {
	var s model.TestSlice
	if err := r.db.Where("test_id = ? AND subject_id = ?", testID, subjectID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSliceNotFound
		}
		return nil, err
	}
	return &s, nil
}
