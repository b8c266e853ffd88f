package repository

import (
	"errors"

	"testseries_backend/internal/model"
	"testseries_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	ListByTest(testID uint) ([]model.Question, error)
	FindByKey(testID uint, questionKey string) (*model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListByTest(testID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("test_id = ?", testID).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindByKey(testID uint, questionKey string) (*model.Question, error) {
	var q model.Question
	if err := r.db.Where("test_id = ? AND question_key = ?", testID, questionKey).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}
