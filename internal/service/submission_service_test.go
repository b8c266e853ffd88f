package service

import (
	"errors"
	"testing"

	"testseries_backend/internal/model"
	"testseries_backend/internal/util"
)

func newSubmissionFixture() (*SubmissionService, *fakeAssignmentRepo, *fakeQuestionRepo, *fakeDetailRepo) {
	ar := newFakeAssignmentRepo()
	qr := &fakeQuestionRepo{}
	dr := &fakeDetailRepo{assignments: ar}
	ar.assignments[10] = &model.UserTestAssignment{BaseModel: model.BaseModel{ID: 10}, UserID: 1, TestID: 1}
	qr.questions = []model.Question{
		{TestID: 1, SubjectID: 101, QuestionKey: "q1", Kind: model.QuestionKindObjective, CorrectAnswer: "A,B"},
		{TestID: 1, SubjectID: 102, QuestionKey: "q3", Kind: model.QuestionKindSubjective},
	}
	return NewSubmissionService(ar, qr, dr), ar, qr, dr
}

func TestRecordAnswerValidation(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	tests := []struct {
		name         string
		assignmentID uint
		userID       uint
		req          RecordAnswerRequest
		wantErr      error
	}{
		{"zero assignment", 0, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1"}, util.ErrInvalidInput},
		{"zero user", 10, 0, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1"}, util.ErrInvalidInput},
		{"zero subject", 10, 1, RecordAnswerRequest{QuestionKey: "q1"}, util.ErrInvalidInput},
		{"blank question key", 10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "   "}, util.ErrInvalidInput},
		{"malformed timer", 10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1", Elapsed: "12:99"}, util.ErrInvalidTimer},
		{"unknown assignment", 99, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1"}, util.ErrAssignmentNotFound},
		{"someone else's assignment", 10, 2, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1"}, util.ErrAssignmentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.RecordAnswer(tt.assignmentID, tt.userID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(dr.records) != 0 {
		t.Errorf("rejected requests must not reach the ledger, found %d records", len(dr.records))
	}
}

func TestRecordAnswerNormalizesObjective(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	err := svc.RecordAnswer(10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1", RawAnswer: "b ; a ,A"})
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if len(dr.records) != 1 {
		t.Fatalf("got %d records, want 1", len(dr.records))
	}
	payload, err := dr.records[0].DecodePayload()
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Kind != model.QuestionKindObjective {
		t.Errorf("Kind = %v, want objective", payload.Kind)
	}
	if payload.Objective == nil || payload.Objective.Answer == nil || *payload.Objective.Answer != "A,B" {
		t.Errorf("stored answer = %+v, want canonical A,B", payload.Objective)
	}
	if dr.records[0].TestID != 1 {
		t.Errorf("TestID = %d, want 1 denormalized from the assignment", dr.records[0].TestID)
	}
}

func TestRecordAnswerNotAttempted(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	for _, raw := range []string{"", "   ", util.NotAttempted} {
		if err := svc.RecordAnswer(10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1", RawAnswer: raw}); err != nil {
			t.Fatalf("RecordAnswer(%q): %v", raw, err)
		}
	}
	if len(dr.records) != 1 {
		t.Fatalf("resaves must overwrite, got %d records", len(dr.records))
	}
	payload, err := dr.records[0].DecodePayload()
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Objective == nil || payload.Objective.Answer != nil {
		t.Errorf("not-attempted sentinel must store a nil answer, got %+v", payload.Objective)
	}
}

func TestRecordAnswerSubjective(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	err := svc.RecordAnswer(10, 1, RecordAnswerRequest{
		SubjectID:     102,
		QuestionKey:   "q3",
		Response:      "  long form answer  ",
		AttachmentURL: "/uploads/attachments/10/essay.pdf",
	})
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	payload, err := dr.records[0].DecodePayload()
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Kind != model.QuestionKindSubjective || payload.Subjective == nil {
		t.Fatalf("payload = %+v, want subjective", payload)
	}
	if payload.Subjective.Response != "long form answer" {
		t.Errorf("Response = %q, want trimmed text", payload.Subjective.Response)
	}
	if payload.Subjective.GradedMarks != nil {
		t.Errorf("fresh subjective answer must start ungraded")
	}
}

func TestRecordAnswerUnknownQuestionDefaultsObjective(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	if err := svc.RecordAnswer(10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "ghost", RawAnswer: "c"}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	payload, err := dr.records[0].DecodePayload()
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Kind != model.QuestionKindObjective {
		t.Errorf("Kind = %v, want objective fallback", payload.Kind)
	}
}

func TestRecordAnswerForeignAssignmentLeavesLedgerAlone(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	err := svc.RecordAnswer(10, 2, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1", RawAnswer: "a"})
	if !errors.Is(err, util.ErrAssignmentNotFound) {
		t.Fatalf("err = %v, want ErrAssignmentNotFound", err)
	}
	if len(dr.records) != 0 {
		t.Errorf("another learner's save must not reach the ledger, found %d records", len(dr.records))
	}
}

func TestVerifyAssignmentOwner(t *testing.T) {
	svc, _, _, _ := newSubmissionFixture()

	if err := svc.VerifyAssignmentOwner(10, 1); err != nil {
		t.Errorf("owner: %v", err)
	}
	if err := svc.VerifyAssignmentOwner(10, 2); !errors.Is(err, util.ErrAssignmentNotFound) {
		t.Errorf("foreign user: err = %v, want ErrAssignmentNotFound", err)
	}
	if err := svc.VerifyAssignmentOwner(99, 1); !errors.Is(err, util.ErrAssignmentNotFound) {
		t.Errorf("missing assignment: err = %v, want ErrAssignmentNotFound", err)
	}
}

func TestRecordAnswerResaveClearsGradedMarks(t *testing.T) {
	svc, _, _, dr := newSubmissionFixture()

	graded := subjectiveRecord(t, 10, 102, "q3", "first draft", floatPtr(6))
	graded.TestID = 1
	graded.Marks = floatPtr(6)
	dr.records = append(dr.records, graded)

	err := svc.RecordAnswer(10, 1, RecordAnswerRequest{SubjectID: 102, QuestionKey: "q3", Response: "second draft"})
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if len(dr.records) != 1 {
		t.Fatalf("resave must overwrite, got %d records", len(dr.records))
	}
	if dr.records[0].Marks != nil {
		t.Errorf("denormalized marks = %v, want cleared alongside the payload", *dr.records[0].Marks)
	}
	payload, err := dr.records[0].DecodePayload()
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Subjective == nil || payload.Subjective.GradedMarks != nil {
		t.Errorf("resaved answer must be ungraded again, got %+v", payload.Subjective)
	}
	if payload.Subjective != nil && payload.Subjective.Response != "second draft" {
		t.Errorf("Response = %q, want the new draft", payload.Subjective.Response)
	}
}

func TestRecordAnswerTimerMirror(t *testing.T) {
	svc, ar, _, _ := newSubmissionFixture()

	if err := svc.RecordAnswer(10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q1", RawAnswer: "a", Elapsed: "0:45"}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if ar.assignments[10].LastElapsed != "0:45" {
		t.Errorf("LastElapsed = %q, want 0:45", ar.assignments[10].LastElapsed)
	}

	// an empty timer leaves the checkpoint alone
	if err := svc.RecordAnswer(10, 1, RecordAnswerRequest{SubjectID: 101, QuestionKey: "q2", RawAnswer: "b"}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if len(ar.timerCalls) != 1 {
		t.Errorf("timer mirror written %d times, want 1", len(ar.timerCalls))
	}
}
