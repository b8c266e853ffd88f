package model

// TestSlice is the per-subject configuration of a test: question count,
// duration budget and the mark weights used by scoring. Read-only input.
type TestSlice struct {
	BaseModel
	TestID           uint    `gorm:"not null;index;uniqueIndex:idx_test_subject" json:"testId"`
	SubjectID        uint    `gorm:"not null;uniqueIndex:idx_test_subject" json:"subjectId"`
	TopicID          *uint   `gorm:"index" json:"topicId,omitempty"`
	QuestionCount    int     `gorm:"not null" json:"questionCount"`
	DurationMinutes  int     `gorm:"default:0" json:"durationMinutes"`
	MarksPerQuestion float64 `gorm:"type:decimal(8,2);not null" json:"marksPerQuestion"`
	NegativeMarks    float64 `gorm:"type:decimal(8,2);default:0" json:"negativeMarks"`
}

func (TestSlice) TableName() string {
	return "test_slices"
}

// MaxMarks is the designed maximum for the slice, independent of how many
// questions were actually attempted.
func (s TestSlice) MaxMarks() float64 {
	return float64(s.QuestionCount) * s.MarksPerQuestion
}
