package service

import (
	"sort"

	"testseries_backend/internal/model"
	"testseries_backend/internal/repository"
	"testseries_backend/internal/util"
	"testseries_backend/pkg/monitoring"
)

type AssignmentSummary struct {
	AssignmentID    uint   `json:"assignmentId"`
	UserID          uint   `json:"userId"`
	TestID          uint   `json:"testId"`
	PendingSubjects []uint `json:"pendingSubjects,omitempty"`
}

type ReviewOutcome struct {
	AssignmentID uint           `json:"assignmentId"`
	Affected     map[uint]int64 `json:"affected"`
	Reviewed     bool           `json:"reviewed"`
}

// ReviewWorkflow walks reviewer work: pending detection over ungraded
// subjective records, and atomic mark assignment that flips the
// assignment's reviewed flag only once every subjective record is graded.
type ReviewService struct {
	Assignments repository.AssignmentRepository
	Details     repository.AttemptDetailRepository
}

func NewReviewService(assignments repository.AssignmentRepository, details repository.AttemptDetailRepository) *ReviewService {
	return &ReviewService{Assignments: assignments, Details: details}
}

// ListPending returns unreviewed assignments that actually have something
// to grade. An unreviewed assignment whose records are all objective, or
// whose subjective records already carry marks, is not reviewer work.
func (s *ReviewService) ListPending() ([]AssignmentSummary, error) {
	candidates, err := s.Assignments.ListByReviewed(false)
	if err != nil {
		return nil, err
	}
	out := make([]AssignmentSummary, 0, len(candidates))
	for _, a := range candidates {
		records, err := s.Details.ListByAssignment(a.ID)
		if err != nil {
			return nil, err
		}
		pending := pendingSubjects(records)
		if len(pending) == 0 {
			continue
		}
		out = append(out, AssignmentSummary{
			AssignmentID:    a.ID,
			UserID:          a.UserID,
			TestID:          a.TestID,
			PendingSubjects: pending,
		})
	}
	return out, nil
}

func (s *ReviewService) ListReviewed() ([]AssignmentSummary, error) {
	done, err := s.Assignments.ListByReviewed(true)
	if err != nil {
		return nil, err
	}
	out := make([]AssignmentSummary, 0, len(done))
	for _, a := range done {
		out = append(out, AssignmentSummary{AssignmentID: a.ID, UserID: a.UserID, TestID: a.TestID})
	}
	return out, nil
}

// AssignMarks writes per-subject marks onto subjective records. marks[i]
// pairs with subjectIDs[i] and is the subject's total, split evenly across
// the subject's subjective records. Regrading is allowed; a subject with no
// subjective records simply reports zero affected rows.
func (s *ReviewService) AssignMarks(assignmentID uint, subjectIDs []uint, marks []float64) (*ReviewOutcome, error) {
	if assignmentID == 0 || len(subjectIDs) == 0 || len(subjectIDs) != len(marks) {
		return nil, util.ErrInvalidInput
	}
	for _, m := range marks {
		if m < 0 {
			return nil, util.ErrInvalidMarks
		}
	}
	if _, err := s.Assignments.FindByID(assignmentID); err != nil {
		return nil, err
	}
	records, err := s.Details.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	updated, affected, reviewed, err := applyMarks(records, subjectIDs, marks)
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		if err := s.Details.ApplyReview(assignmentID, updated, reviewed); err != nil {
			return nil, err
		}
		if reviewed {
			monitoring.ReviewsFinalized.Inc()
		}
	}
	return &ReviewOutcome{AssignmentID: assignmentID, Affected: affected, Reviewed: reviewed}, nil
}

// pendingSubjects lists subjects holding at least one ungraded subjective
// record, sorted and deduplicated.
func pendingSubjects(records []model.AttemptDetailRecord) []uint {
	seen := make(map[uint]bool)
	for _, rec := range records {
		payload, err := rec.DecodePayload()
		if err != nil || payload.Kind != model.QuestionKindSubjective {
			continue
		}
		if payload.Subjective == nil || payload.Subjective.GradedMarks == nil {
			seen[rec.SubjectID] = true
		}
	}
	out := make([]uint, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func applyMarks(records []model.AttemptDetailRecord, subjectIDs []uint, marks []float64) (updated []model.AttemptDetailRecord, affected map[uint]int64, reviewed bool, err error) {
	marksBySubject := make(map[uint]float64, len(subjectIDs))
	affected = make(map[uint]int64, len(subjectIDs))
	for i, id := range subjectIDs {
		marksBySubject[id] = marks[i]
		affected[id] = 0
	}

	counts := make(map[uint]int)
	for _, rec := range records {
		payload, derr := rec.DecodePayload()
		if derr != nil || payload.Kind != model.QuestionKindSubjective || payload.Subjective == nil {
			continue
		}
		counts[rec.SubjectID]++
	}

	for i := range records {
		payload, derr := records[i].DecodePayload()
		if derr != nil || payload.Kind != model.QuestionKindSubjective || payload.Subjective == nil {
			continue
		}
		total, targeted := marksBySubject[records[i].SubjectID]
		if !targeted {
			continue
		}
		share := total / float64(counts[records[i].SubjectID])
		payload.Subjective.GradedMarks = &share
		if err = records[i].SetPayload(payload); err != nil {
			return nil, nil, false, err
		}
		records[i].Marks = &share
		updated = append(updated, records[i])
		affected[records[i].SubjectID]++
	}

	// reviewed means no subjective record is left ungraded
	hasSubjective := false
	reviewed = true
	for i := range records {
		payload, derr := records[i].DecodePayload()
		if derr != nil || payload.Kind != model.QuestionKindSubjective {
			continue
		}
		hasSubjective = true
		if payload.Subjective == nil || payload.Subjective.GradedMarks == nil {
			reviewed = false
		}
	}
	if !hasSubjective {
		reviewed = false
	}
	return updated, affected, reviewed, nil
}
