package service

import (
	"errors"
	"math"
	"testing"

	"testseries_backend/internal/model"
	"testseries_backend/internal/util"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreRecords(t *testing.T) {
	slices := []model.TestSlice{
		{TestID: 1, SubjectID: 101, QuestionCount: 10, MarksPerQuestion: 2, NegativeMarks: 0.5},
		{TestID: 1, SubjectID: 102, QuestionCount: 5, MarksPerQuestion: 4, NegativeMarks: 1},
	}
	questions := []model.Question{
		{TestID: 1, SubjectID: 101, QuestionKey: "q1", Kind: model.QuestionKindObjective, CorrectAnswer: "b, a"},
		{TestID: 1, SubjectID: 101, QuestionKey: "q2", Kind: model.QuestionKindObjective, CorrectAnswer: "C"},
		{TestID: 1, SubjectID: 102, QuestionKey: "q3", Kind: model.QuestionKindSubjective},
	}

	tests := []struct {
		name        string
		records     []model.AttemptDetailRecord
		wantTotal   float64
		wantSubject map[uint]SubjectScore
	}{
		{
			name:      "no records scores zero with full possible",
			wantTotal: 0,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Possible: 20},
				102: {SubjectID: 102, Possible: 20},
			},
		},
		{
			name: "correct answer matches by canonical form",
			records: []model.AttemptDetailRecord{
				objectiveRecord(t, 1, 101, "q1", util.NormalizeAnswer("A ; b")),
			},
			wantTotal: 2,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Scored: 2, Possible: 20, Correct: 1},
				102: {SubjectID: 102, Possible: 20},
			},
		},
		{
			name: "wrong answer draws negative marks",
			records: []model.AttemptDetailRecord{
				objectiveRecord(t, 1, 101, "q2", strPtr("D")),
			},
			wantTotal: -0.5,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Scored: -0.5, Possible: 20, Wrong: 1},
				102: {SubjectID: 102, Possible: 20},
			},
		},
		{
			name: "unanswered record contributes nothing either way",
			records: []model.AttemptDetailRecord{
				objectiveRecord(t, 1, 101, "q1", nil),
			},
			wantTotal: 0,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Possible: 20, Unanswered: 1},
				102: {SubjectID: 102, Possible: 20},
			},
		},
		{
			name: "record without matching question is skipped",
			records: []model.AttemptDetailRecord{
				objectiveRecord(t, 1, 101, "ghost", strPtr("A")),
			},
			wantTotal: 0,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Possible: 20},
				102: {SubjectID: 102, Possible: 20},
			},
		},
		{
			name: "graded subjective marks are added ungraded are not",
			records: []model.AttemptDetailRecord{
				subjectiveRecord(t, 1, 102, "q3", "essay", floatPtr(7.5)),
				subjectiveRecord(t, 1, 102, "q4", "essay", nil),
			},
			wantTotal: 7.5,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Possible: 20},
				102: {SubjectID: 102, Scored: 7.5, Possible: 20},
			},
		},
		{
			name: "mixed subjects sum into total",
			records: []model.AttemptDetailRecord{
				objectiveRecord(t, 1, 101, "q1", util.NormalizeAnswer("b,a")),
				objectiveRecord(t, 1, 101, "q2", strPtr("X")),
				subjectiveRecord(t, 1, 102, "q3", "essay", floatPtr(3)),
			},
			wantTotal: 4.5,
			wantSubject: map[uint]SubjectScore{
				101: {SubjectID: 101, Scored: 1.5, Possible: 20, Correct: 1, Wrong: 1},
				102: {SubjectID: 102, Scored: 3, Possible: 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ScoreRecords(1, slices, questions, tt.records)
			if !almostEqual(report.Total, tt.wantTotal) {
				t.Errorf("Total = %v, want %v", report.Total, tt.wantTotal)
			}
			if len(report.PerSubject) != len(tt.wantSubject) {
				t.Fatalf("PerSubject has %d entries, want %d", len(report.PerSubject), len(tt.wantSubject))
			}
			for _, got := range report.PerSubject {
				want, ok := tt.wantSubject[got.SubjectID]
				if !ok {
					t.Errorf("unexpected subject %d in report", got.SubjectID)
					continue
				}
				if !almostEqual(got.Scored, want.Scored) || !almostEqual(got.Possible, want.Possible) ||
					got.Correct != want.Correct || got.Wrong != want.Wrong || got.Unanswered != want.Unanswered {
					t.Errorf("subject %d = %+v, want %+v", got.SubjectID, got, want)
				}
			}
		})
	}
}

func TestScoreHardFailures(t *testing.T) {
	tr := newFakeTestRepo()
	ar := newFakeAssignmentRepo()
	svc := NewScoringService(tr, &fakeQuestionRepo{}, ar, &fakeDetailRepo{})

	if _, err := svc.Score(99, 1); !errors.Is(err, util.ErrAssignmentNotFound) {
		t.Errorf("missing assignment: err = %v, want ErrAssignmentNotFound", err)
	}

	ar.assignments[5] = &model.UserTestAssignment{BaseModel: model.BaseModel{ID: 5}, UserID: 1, TestID: 7}
	if _, err := svc.Score(5, 1); !errors.Is(err, util.ErrTestNotFound) {
		t.Errorf("dangling test: err = %v, want ErrTestNotFound", err)
	}

	tr.tests[7] = model.TestDefinition{BaseModel: model.BaseModel{ID: 7}, TestType: model.TestTypeSingle}
	if _, err := svc.Score(5, 1); !errors.Is(err, util.ErrSliceNotFound) {
		t.Errorf("test without slices: err = %v, want ErrSliceNotFound", err)
	}
}

func TestScoreOwnerScope(t *testing.T) {
	tr := newFakeTestRepo()
	ar := newFakeAssignmentRepo()
	svc := NewScoringService(tr, &fakeQuestionRepo{}, ar, &fakeDetailRepo{})

	tr.tests[7] = model.TestDefinition{BaseModel: model.BaseModel{ID: 7}, TestType: model.TestTypeSingle}
	tr.slices[7] = []model.TestSlice{{TestID: 7, SubjectID: 101, QuestionCount: 5, MarksPerQuestion: 4}}
	ar.assignments[5] = &model.UserTestAssignment{BaseModel: model.BaseModel{ID: 5}, UserID: 2, TestID: 7}

	if _, err := svc.Score(5, 1); !errors.Is(err, util.ErrAssignmentNotFound) {
		t.Errorf("foreign assignment: err = %v, want ErrAssignmentNotFound", err)
	}
	if _, err := svc.Score(5, 2); err != nil {
		t.Errorf("owner read: %v", err)
	}
	if _, err := svc.Score(5, 0); err != nil {
		t.Errorf("unscoped reviewer read: %v", err)
	}
}
