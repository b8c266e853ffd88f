package model

type Subject struct {
	BaseModel
	Name string `gorm:"size:100;not null" json:"name"`
	Code string `gorm:"size:50;uniqueIndex" json:"code"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Topic struct {
	BaseModel
	SubjectID uint   `gorm:"index" json:"subjectId"`
	Name      string `gorm:"size:100;not null" json:"name"`
}

func (Topic) TableName() string {
	return "topics"
}
