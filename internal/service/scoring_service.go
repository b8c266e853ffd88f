package service

import (
	"testseries_backend/internal/model"
	"testseries_backend/internal/repository"
	"testseries_backend/internal/util"
)

type SubjectScore struct {
	SubjectID  uint    `json:"subjectId"`
	Scored     float64 `json:"scored"`
	Possible   float64 `json:"possible"`
	Correct    int     `json:"correct"`
	Wrong      int     `json:"wrong"`
	Unanswered int     `json:"unanswered"`
}

type ScoreReport struct {
	AssignmentID uint           `json:"assignmentId"`
	PerSubject   []SubjectScore `json:"perSubject"`
	Total        float64        `json:"total"`
}

// ScoringService reduces the attempt ledger plus the slice weight table
// into a score report. It is a read-side reduction: repeated calls over
// the same records always produce the same report and never write.
type ScoringService struct {
	Tests       repository.TestRepository
	Questions   repository.QuestionRepository
	Assignments repository.AssignmentRepository
	Details     repository.AttemptDetailRepository
}

func NewScoringService(
	tests repository.TestRepository,
	questions repository.QuestionRepository,
	assignments repository.AssignmentRepository,
	details repository.AttemptDetailRepository,
) *ScoringService {
	return &ScoringService{
		Tests:       tests,
		Questions:   questions,
		Assignments: assignments,
		Details:     details,
	}
}

// Score is scoped to the assignment's owner: a userID that does not match
// reads as not-found, so one learner can never read another's report. A
// zero userID skips the check for reviewer and admin reads.
func (s *ScoringService) Score(assignmentID, userID uint) (*ScoreReport, error) {
	assignment, err := s.Assignments.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && assignment.UserID != userID {
		return nil, util.ErrAssignmentNotFound
	}
	if _, err := s.Tests.FindByID(assignment.TestID); err != nil {
		return nil, err
	}
	slices, err := s.Tests.ListSlices(assignment.TestID)
	if err != nil {
		return nil, err
	}
	if len(slices) == 0 {
		return nil, util.ErrSliceNotFound
	}
	questions, err := s.Questions.ListByTest(assignment.TestID)
	if err != nil {
		return nil, err
	}
	records, err := s.Details.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	return ScoreRecords(assignmentID, slices, questions, records), nil
}

// ScoreRecords computes the report for a fixed set of inputs. Objective
// answers are compared by canonical form; a nil answer counts as
// unanswered with zero contribution; subjective records contribute their
// reviewer-assigned marks once graded. Possible is the slice's designed
// maximum, not the attempted maximum.
func ScoreRecords(assignmentID uint, slices []model.TestSlice, questions []model.Question, records []model.AttemptDetailRecord) *ScoreReport {
	questionByKey := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		questionByKey[q.QuestionKey] = q
	}

	recordsBySubject := make(map[uint][]model.AttemptDetailRecord, len(slices))
	for _, rec := range records {
		recordsBySubject[rec.SubjectID] = append(recordsBySubject[rec.SubjectID], rec)
	}

	report := &ScoreReport{AssignmentID: assignmentID}
	for _, slice := range slices {
		sub := SubjectScore{
			SubjectID: slice.SubjectID,
			Possible:  slice.MaxMarks(),
		}
		for _, rec := range recordsBySubject[slice.SubjectID] {
			payload, err := rec.DecodePayload()
			if err != nil {
				continue
			}
			if payload.Kind == model.QuestionKindSubjective {
				if payload.Subjective != nil && payload.Subjective.GradedMarks != nil {
					sub.Scored += *payload.Subjective.GradedMarks
				}
				continue
			}
			var answer *string
			if payload.Objective != nil {
				answer = payload.Objective.Answer
			}
			if answer == nil {
				sub.Unanswered++
				continue
			}
			q, ok := questionByKey[rec.QuestionKey]
			if !ok {
				continue
			}
			if util.AnswersEqual(answer, &q.CorrectAnswer) {
				sub.Scored += slice.MarksPerQuestion
				sub.Correct++
			} else {
				sub.Scored -= slice.NegativeMarks
				sub.Wrong++
			}
		}
		report.PerSubject = append(report.PerSubject, sub)
		report.Total += sub.Scored
	}
	return report
}
