package service

import (
	"sort"
	"time"

	"testseries_backend/internal/model"
	"testseries_backend/internal/repository"
	"testseries_backend/internal/util"
)

type EligibilityState string

const (
	StateNotYetOpen             EligibilityState = "NOT_YET_OPEN"
	StateOpenSingleFresh        EligibilityState = "OPEN_SINGLE_FRESH"
	StateOpenLoop               EligibilityState = "OPEN_LOOP"
	StateLockedAlreadyAttempted EligibilityState = "LOCKED_ALREADY_ATTEMPTED"
	StateExpired                EligibilityState = "EXPIRED"
)

// Attemptable reports whether a learner may start or continue the attempt
// in this state.
func (st EligibilityState) Attemptable() bool {
	return st == StateOpenSingleFresh || st == StateOpenLoop
}

// EvaluateEligibility is the attempt state machine. The window check runs
// first: outside the window the state is NOT_YET_OPEN or EXPIRED no matter
// what was attempted. Inside the window, LOOP tests are always open while
// SINGLE tests lock as soon as any answer record exists. A nil window bound
// means unbounded on that side.
func EvaluateEligibility(testType string, validFrom, validTo *time.Time, recordCount int64, now time.Time) EligibilityState {
	if validFrom != nil && now.Before(*validFrom) {
		return StateNotYetOpen
	}
	if validTo != nil && now.After(*validTo) {
		return StateExpired
	}
	if testType == model.TestTypeLoop {
		return StateOpenLoop
	}
	if recordCount > 0 {
		return StateLockedAlreadyAttempted
	}
	return StateOpenSingleFresh
}

// scoreVisible gates score exposure: outside the validity window the score
// is always shown, inside it only once at least one answer record exists.
func scoreVisible(state EligibilityState, recordCount int64) bool {
	if state == StateNotYetOpen || state == StateExpired {
		return true
	}
	return recordCount > 0
}

type AssignmentView struct {
	AssignmentID  uint             `json:"assignmentId"`
	TestID        uint             `json:"testId"`
	TestName      string           `json:"testName"`
	TestType      string           `json:"testType"`
	State         EligibilityState `json:"state"`
	IsAttemptable bool             `json:"isAttemptable"`
	IsValid       bool             `json:"isValid"`
	ValidFrom     *time.Time       `json:"validFrom"`
	ValidTo       *time.Time       `json:"validTo"`
	LastElapsed   string           `json:"lastElapsed"`
	Reviewed      bool             `json:"reviewed"`
	Score         *ScoreReport     `json:"score"`
}

type EligibilityService struct {
	Tests       repository.TestRepository
	Assignments repository.AssignmentRepository
	Details     repository.AttemptDetailRepository
	Scoring     *ScoringService
	Clock       util.Clock
}

func NewEligibilityService(
	tests repository.TestRepository,
	assignments repository.AssignmentRepository,
	details repository.AttemptDetailRepository,
	scoring *ScoringService,
	clock util.Clock,
) *EligibilityService {
	return &EligibilityService{
		Tests:       tests,
		Assignments: assignments,
		Details:     details,
		Scoring:     scoring,
		Clock:       clock,
	}
}

// ListAssignments builds the learner dashboard. Failures are isolated per
// assignment: a dangling test reference or a scoring failure marks that one
// entry invalid instead of failing the whole listing.
func (s *EligibilityService) ListAssignments(userID uint) ([]AssignmentView, error) {
	assignments, err := s.Assignments.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	counts, err := s.Details.CountByAssignments(ids)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	views := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := AssignmentView{
			AssignmentID: a.ID,
			TestID:       a.TestID,
			IsValid:      true,
			ValidFrom:    a.ValidFrom,
			ValidTo:      a.ValidTo,
			LastElapsed:  a.LastElapsed,
			Reviewed:     a.Reviewed,
		}
		test, err := s.Tests.FindByID(a.TestID)
		if err != nil {
			view.IsValid = false
			views = append(views, view)
			continue
		}
		view.TestName = test.Name
		view.TestType = test.TestType

		count := counts[a.ID]
		view.State = EvaluateEligibility(test.TestType, a.ValidFrom, a.ValidTo, count, now)
		view.IsAttemptable = view.State.Attemptable()
		if scoreVisible(view.State, count) {
			report, err := s.Scoring.Score(a.ID, a.UserID)
			if err != nil {
				view.IsValid = false
			} else {
				view.Score = report
			}
		}
		views = append(views, view)
	}
	sortAssignmentViews(views)
	return views, nil
}

// EvaluateAssignment is the single-assignment variant; unlike the listing
// it fails hard on missing rows. userID scopes the lookup to the owner, an
// assignment held by someone else reads as not-found; zero skips the check
// for reviewer and admin reads.
func (s *EligibilityService) EvaluateAssignment(assignmentID, userID uint) (*AssignmentView, error) {
	a, err := s.Assignments.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && a.UserID != userID {
		return nil, util.ErrAssignmentNotFound
	}
	test, err := s.Tests.FindByID(a.TestID)
	if err != nil {
		return nil, err
	}
	count, err := s.Details.CountByAssignment(a.ID)
	if err != nil {
		return nil, err
	}

	view := &AssignmentView{
		AssignmentID: a.ID,
		TestID:       a.TestID,
		TestName:     test.Name,
		TestType:     test.TestType,
		IsValid:      true,
		ValidFrom:    a.ValidFrom,
		ValidTo:      a.ValidTo,
		LastElapsed:  a.LastElapsed,
		Reviewed:     a.Reviewed,
	}
	view.State = EvaluateEligibility(test.TestType, a.ValidFrom, a.ValidTo, count, s.Clock.Now())
	view.IsAttemptable = view.State.Attemptable()
	if scoreVisible(view.State, count) {
		report, err := s.Scoring.Score(a.ID, a.UserID)
		if err != nil {
			return nil, err
		}
		view.Score = report
	}
	return view, nil
}

// Attemptable entries come first, then newer windows; assignments without
// a start bound sink to the end of their group.
func sortAssignmentViews(views []AssignmentView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsAttemptable != views[j].IsAttemptable {
			return views[i].IsAttemptable
		}
		vi, vj := views[i].ValidFrom, views[j].ValidFrom
		if vi == nil {
			return false
		}
		if vj == nil {
			return true
		}
		return vi.After(*vj)
	})
}
