package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// AttemptDetailRecord is the append-as-you-go ledger: one row per
// (assignment, subject, question key). The unique composite index makes
// find-or-create race-free at the store level; the repository upserts on
// it instead of replicating check-then-act.
type AttemptDetailRecord struct {
	UUIDBase
	AssignmentID uint   `gorm:"not null;index;uniqueIndex:idx_attempt_question" json:"assignmentId"`
	TestID       uint   `gorm:"not null;index" json:"testId"`
	SubjectID    uint   `gorm:"not null;uniqueIndex:idx_attempt_question" json:"subjectId"`
	QuestionKey  string `gorm:"size:64;not null;uniqueIndex:idx_attempt_question" json:"questionKey"`

	Payload datatypes.JSON `gorm:"type:json" json:"payload"`

	// Marks is nil until the record is scored (objective, on read) or
	// graded (subjective, by a reviewer).
	Marks *float64 `gorm:"type:decimal(8,2)" json:"marks,omitempty"`

	// Elapsed is the "MM:SS" timer checkpoint at the last save.
	Elapsed string `gorm:"size:10" json:"elapsed"`
}

func (AttemptDetailRecord) TableName() string {
	return "attempt_details"
}

// AnswerPayload is a tagged variant per question kind, so the grading
// field's presence is a type-level distinction rather than a runtime
// null-check on a loose blob.
type AnswerPayload struct {
	Kind       string            `json:"kind"` // objective | subjective
	Objective  *ObjectiveAnswer  `json:"objective,omitempty"`
	Subjective *SubjectiveAnswer `json:"subjective,omitempty"`
}

// ObjectiveAnswer holds the canonical answer; nil means not attempted.
type ObjectiveAnswer struct {
	Answer *string `json:"answer"`
}

// SubjectiveAnswer holds the learner's free response. GradedMarks stays
// nil until a reviewer assigns marks; an assignment is pending review
// while any of its subjective records has a nil GradedMarks.
type SubjectiveAnswer struct {
	Response      string   `json:"response"`
	AttachmentURL string   `json:"attachmentUrl,omitempty"`
	GradedMarks   *float64 `json:"gradedMarks,omitempty"`
}

func (r *AttemptDetailRecord) DecodePayload() (*AnswerPayload, error) {
	var p AnswerPayload
	if len(r.Payload) == 0 {
		return &AnswerPayload{Kind: QuestionKindObjective, Objective: &ObjectiveAnswer{}}, nil
	}
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AttemptDetailRecord) SetPayload(p *AnswerPayload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	r.Payload = datatypes.JSON(raw)
	return nil
}
