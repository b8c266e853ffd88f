package service

import (
	"strings"

	"testseries_backend/internal/model"
	"testseries_backend/internal/repository"
	"testseries_backend/internal/util"
	"testseries_backend/pkg/monitoring"
)

type RecordAnswerRequest struct {
	SubjectID     uint   `json:"subjectId" binding:"required"`
	QuestionKey   string `json:"questionKey" binding:"required"`
	RawAnswer     string `json:"answer"`
	Response      string `json:"response"`
	AttachmentURL string `json:"attachmentUrl"`
	Elapsed       string `json:"elapsed"`
}

// SubmissionService owns the answer ledger write path. Each call lands as
// a single upsert keyed on (assignment, subject, question), so saving the
// same question twice overwrites instead of duplicating.
type SubmissionService struct {
	Assignments repository.AssignmentRepository
	Questions   repository.QuestionRepository
	Details     repository.AttemptDetailRepository
}

func NewSubmissionService(
	assignments repository.AssignmentRepository,
	questions repository.QuestionRepository,
	details repository.AttemptDetailRepository,
) *SubmissionService {
	return &SubmissionService{
		Assignments: assignments,
		Questions:   questions,
		Details:     details,
	}
}

// RecordAnswer writes on behalf of userID only; an assignment owned by
// another learner reads as not-found before anything touches the ledger.
func (s *SubmissionService) RecordAnswer(assignmentID, userID uint, req RecordAnswerRequest) error {
	questionKey := strings.TrimSpace(req.QuestionKey)
	if assignmentID == 0 || userID == 0 || req.SubjectID == 0 || questionKey == "" {
		return util.ErrInvalidInput
	}
	if !util.ValidTimer(req.Elapsed) {
		return util.ErrInvalidTimer
	}
	assignment, err := s.Assignments.FindByID(assignmentID)
	if err != nil {
		return err
	}
	if assignment.UserID != userID {
		return util.ErrAssignmentNotFound
	}

	// A key with no catalog entry is stored as objective; it simply never
	// matches a correct answer at scoring time.
	kind := model.QuestionKindObjective
	if q, err := s.Questions.FindByKey(assignment.TestID, questionKey); err == nil {
		kind = q.Kind
	}

	payload := &model.AnswerPayload{Kind: kind}
	if kind == model.QuestionKindSubjective {
		payload.Subjective = &model.SubjectiveAnswer{
			Response:      strings.TrimSpace(req.Response),
			AttachmentURL: req.AttachmentURL,
		}
	} else {
		payload.Objective = &model.ObjectiveAnswer{Answer: util.NormalizeAnswer(req.RawAnswer)}
	}

	rec := &model.AttemptDetailRecord{
		AssignmentID: assignmentID,
		TestID:       assignment.TestID,
		SubjectID:    req.SubjectID,
		QuestionKey:  questionKey,
		Elapsed:      req.Elapsed,
	}
	if err := rec.SetPayload(payload); err != nil {
		return err
	}
	if err := s.Details.UpsertAnswer(rec); err != nil {
		return err
	}
	monitoring.AnswersRecorded.Inc()

	if req.Elapsed != "" {
		return s.Assignments.UpdateTimerMirror(assignmentID, req.Elapsed)
	}
	return nil
}

// VerifyAssignmentOwner confirms the assignment exists and belongs to
// userID; attachment uploads call this before writing to storage.
func (s *SubmissionService) VerifyAssignmentOwner(assignmentID, userID uint) error {
	assignment, err := s.Assignments.FindByID(assignmentID)
	if err != nil {
		return err
	}
	if assignment.UserID != userID {
		return util.ErrAssignmentNotFound
	}
	return nil
}
