package model

import "time"

const (
	// TestTypeSingle allows exactly one attempt within the validity window.
	TestTypeSingle = "SINGLE"
	// TestTypeLoop allows unlimited attempts within the validity window.
	TestTypeLoop = "LOOP"
)

// TestDefinition is immutable once published; it is created and edited by
// the admin surface, this engine only reads it.
type TestDefinition struct {
	BaseModel
	Name            string     `gorm:"size:255;not null" json:"name"`
	TestType        string     `gorm:"size:10;not null;default:'SINGLE'" json:"testType"`
	SelectionMethod string     `gorm:"size:50" json:"selectionMethod"` // informational only
	StartDate       *time.Time `json:"startDate,omitempty"`            // nil = unbounded
	EndDate         *time.Time `json:"endDate,omitempty"`              // nil = unbounded
	IsPublished     bool       `gorm:"default:false" json:"isPublished"`
}

func (TestDefinition) TableName() string {
	return "tests"
}
