package repository

import (
	"testseries_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptDetailRepository interface {
	// UpsertAnswer inserts or overwrites the single row for the record's
	// (assignment, subject, question) key. The unique index carries the
	// find-or-create invariant, so concurrent saves of the same key cannot
	// produce duplicates.
	UpsertAnswer(rec *model.AttemptDetailRecord) error
	ListByAssignment(assignmentID uint) ([]model.AttemptDetailRecord, error)
	CountByAssignment(assignmentID uint) (int64, error)
	CountByAssignments(assignmentIDs []uint) (map[uint]int64, error)
	// ApplyReview persists the regraded records and the assignment's
	// reviewed flag in one transaction, so a reader never observes marks
	// without the flag or the flag without marks.
	ApplyReview(assignmentID uint, records []model.AttemptDetailRecord, reviewed bool) error
}

type attemptDetailRepository struct {
	db *gorm.DB
}

func NewAttemptDetailRepository(db *gorm.DB) AttemptDetailRepository {
	return &attemptDetailRepository{db: db}
}

func (r *attemptDetailRepository) UpsertAnswer(rec *model.AttemptDetailRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "assignment_id"},
			{Name: "subject_id"},
			{Name: "question_key"},
		},
		// marks is in the set so a resave of a graded subjective answer
		// clears the denormalized grade along with the payload
		DoUpdates: clause.AssignmentColumns([]string{"payload", "marks", "elapsed", "updated_at"}),
	}).Create(rec).Error
}

func (r *attemptDetailRepository) ListByAssignment(assignmentID uint) ([]model.AttemptDetailRecord, error) {
	var records []model.AttemptDetailRecord
	err := r.db.Where("assignment_id = ?", assignmentID).Find(&records).Error
	return records, err
}

func (r *attemptDetailRepository) CountByAssignment(assignmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.AttemptDetailRecord{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	return count, err
}

func (r *attemptDetailRepository) CountByAssignments(assignmentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return counts, nil
	}
	rows := []struct {
		AssignmentID uint
		N            int64
	}{}
	err := r.db.Model(&model.AttemptDetailRecord{}).
		Select("assignment_id, COUNT(*) AS n").
		Where("assignment_id IN ?", assignmentIDs).
		Group("assignment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AssignmentID] = row.N
	}
	return counts, nil
}

func (r *attemptDetailRepository) ApplyReview(assignmentID uint, records []model.AttemptDetailRecord, reviewed bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Model(&model.AttemptDetailRecord{}).
				Where("id = ?", records[i].ID).
				Updates(map[string]interface{}{
					"payload": records[i].Payload,
					"marks":   records[i].Marks,
				}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.UserTestAssignment{}).
			Where("id = ?", assignmentID).
			Update("reviewed", reviewed).Error
	})
}
