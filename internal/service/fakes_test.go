package service

import (
	"testing"

	"testseries_backend/internal/model"
	"testseries_backend/internal/util"
)

// In-memory repository fakes backing the service tests.

type fakeTestRepo struct {
	tests  map[uint]model.TestDefinition
	slices map[uint][]model.TestSlice
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{
		tests:  make(map[uint]model.TestDefinition),
		slices: make(map[uint][]model.TestSlice),
	}
}

func (r *fakeTestRepo) FindByID(id uint) (*model.TestDefinition, error) {
	t, ok := r.tests[id]
	if !ok {
		return nil, util.ErrTestNotFound
	}
	return &t, nil
}

func (r *fakeTestRepo) ListSlices(testID uint) ([]model.TestSlice, error) {
	return r.slices[testID], nil
}

func (r *fakeTestRepo) FindSlice(testID, subjectID uint) (*model.TestSlice, error) {
	for _, s := range r.slices[testID] {
		if s.SubjectID == subjectID {
			return &s, nil
		}
	}
	return nil, util.ErrSliceNotFound
}

type fakeQuestionRepo struct {
	questions []model.Question
}

func (r *fakeQuestionRepo) ListByTest(testID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.TestID == testID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindByKey(testID uint, questionKey string) (*model.Question, error) {
	for _, q := range r.questions {
		if q.TestID == testID && q.QuestionKey == questionKey {
			return &q, nil
		}
	}
	return nil, util.ErrQuestionNotFound
}

type fakeAssignmentRepo struct {
	assignments map[uint]*model.UserTestAssignment
	timerCalls  []string
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[uint]*model.UserTestAssignment)}
}

func (r *fakeAssignmentRepo) FindByID(id uint) (*model.UserTestAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, util.ErrAssignmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssignmentRepo) ListByUser(userID uint) ([]model.UserTestAssignment, error) {
	var out []model.UserTestAssignment
	for _, a := range r.assignments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListByReviewed(reviewed bool) ([]model.UserTestAssignment, error) {
	var out []model.UserTestAssignment
	for _, a := range r.assignments {
		if a.Reviewed == reviewed {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) UpdateTimerMirror(id uint, elapsed string) error {
	a, ok := r.assignments[id]
	if !ok {
		return util.ErrAssignmentNotFound
	}
	a.LastElapsed = elapsed
	r.timerCalls = append(r.timerCalls, elapsed)
	return nil
}

type fakeDetailRepo struct {
	records     []model.AttemptDetailRecord
	assignments *fakeAssignmentRepo
	reviewCalls []reviewCall
}

func (r *fakeDetailRepo) key(rec model.AttemptDetailRecord) [3]interface{} {
	return [3]interface{}{rec.AssignmentID, rec.SubjectID, rec.QuestionKey}
}

func (r *fakeDetailRepo) UpsertAnswer(rec *model.AttemptDetailRecord) error {
	for i := range r.records {
		if r.key(r.records[i]) == r.key(*rec) {
			r.records[i].Payload = rec.Payload
			r.records[i].Marks = rec.Marks
			r.records[i].Elapsed = rec.Elapsed
			return nil
		}
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeDetailRepo) ListByAssignment(assignmentID uint) ([]model.AttemptDetailRecord, error) {
	var out []model.AttemptDetailRecord
	for _, rec := range r.records {
		if rec.AssignmentID == assignmentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeDetailRepo) CountByAssignment(assignmentID uint) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.AssignmentID == assignmentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDetailRepo) CountByAssignments(assignmentIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64)
	for _, id := range assignmentIDs {
		n, _ := r.CountByAssignment(id)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

type reviewCall struct {
	assignmentID uint
	records      []model.AttemptDetailRecord
	reviewed     bool
}

func (r *fakeDetailRepo) ApplyReview(assignmentID uint, records []model.AttemptDetailRecord, reviewed bool) error {
	for _, upd := range records {
		for i := range r.records {
			if r.key(r.records[i]) == r.key(upd) {
				r.records[i] = upd
			}
		}
	}
	if r.assignments != nil {
		if a, ok := r.assignments.assignments[assignmentID]; ok {
			a.Reviewed = reviewed
		}
	}
	r.reviewCalls = append(r.reviewCalls, reviewCall{assignmentID, records, reviewed})
	return nil
}

// Record builders.

func objectiveRecord(t *testing.T, assignmentID, subjectID uint, key string, answer *string) model.AttemptDetailRecord {
	t.Helper()
	rec := model.AttemptDetailRecord{
		AssignmentID: assignmentID,
		SubjectID:    subjectID,
		QuestionKey:  key,
	}
	payload := &model.AnswerPayload{
		Kind:      model.QuestionKindObjective,
		Objective: &model.ObjectiveAnswer{Answer: answer},
	}
	if err := rec.SetPayload(payload); err != nil {
		t.Fatalf("SetPayload: %v", err)
	}
	return rec
}

func subjectiveRecord(t *testing.T, assignmentID, subjectID uint, key, response string, graded *float64) model.AttemptDetailRecord {
	t.Helper()
	rec := model.AttemptDetailRecord{
		AssignmentID: assignmentID,
		SubjectID:    subjectID,
		QuestionKey:  key,
	}
	payload := &model.AnswerPayload{
		Kind:       model.QuestionKindSubjective,
		Subjective: &model.SubjectiveAnswer{Response: response, GradedMarks: graded},
	}
	if err := rec.SetPayload(payload); err != nil {
		t.Fatalf("SetPayload: %v", err)
	}
	return rec
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
