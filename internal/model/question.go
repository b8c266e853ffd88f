package model

const (
	QuestionKindObjective  = "objective"
	QuestionKindSubjective = "subjective" // includes EPI sections, graded by a human
)

// Question is a read-only row from the question catalog. CorrectAnswer is
// stored in canonical form for objective questions and empty for
// subjective ones.
type Question struct {
	BaseModel
	TestID        uint   `gorm:"not null;index;uniqueIndex:idx_test_question" json:"testId"`
	SubjectID     uint   `gorm:"not null;index" json:"subjectId"`
	QuestionKey   string `gorm:"size:64;not null;uniqueIndex:idx_test_question" json:"questionKey"`
	Kind          string `gorm:"size:20;not null;default:'objective'" json:"kind"`
	Prompt        string `gorm:"type:text" json:"prompt"`
	CorrectAnswer string `gorm:"size:255" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
