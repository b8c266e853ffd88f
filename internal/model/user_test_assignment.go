package model

import "time"

// UserTestAssignment is a learner's ticket to attempt one test. Its
// validity window may differ from the test's own window. The engine only
// mutates the timer mirror and the reviewed flag; everything else is owned
// by the provisioning step that created the row.
type UserTestAssignment struct {
	BaseModel
	UserID    uint       `gorm:"not null;index;uniqueIndex:idx_user_test" json:"userId"`
	TestID    uint       `gorm:"not null;index;uniqueIndex:idx_user_test" json:"testId"`
	ValidFrom *time.Time `json:"validFrom,omitempty"` // nil = unbounded
	ValidTo   *time.Time `json:"validTo,omitempty"`   // nil = unbounded

	// LastElapsed mirrors the newest timer checkpoint from the attempt
	// ledger so "resume where I left off" is a single-row read. It is
	// written only by the same save that updates the ledger row.
	LastElapsed string `gorm:"size:10" json:"lastElapsed"`

	Reviewed bool `gorm:"default:false" json:"reviewed"`
}

func (UserTestAssignment) TableName() string {
	return "user_test_assignments"
}
