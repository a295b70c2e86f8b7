// Package status classifies a student's assignments by submission state.
package status

import (
	"fmt"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// Status of one assignment for one student
type Status string

const (
	Pending   Status = "PENDING"
	Submitted Status = "SUBMITTED"
	Graded    Status = "GRADED"
)

// CanTransition encodes PENDING -> SUBMITTED -> GRADED. Nothing leaves GRADED.
func CanTransition(from, to Status) bool {
	return (from == Pending && to == Submitted) || (from == Submitted && to == Graded)
}

// Of classifies a single assignment given its submission, if any
func Of(sub *models.Submission) Status {
	switch {
	case sub == nil:
		return Pending
	case sub.Graded():
		return Graded
	default:
		return Submitted
	}
}

// Entry pairs an assignment with the submission that decided its status
type Entry struct {
	Assignment models.Assignment
	Submission *models.Submission
	Status     Status
}

// IssueKind names a data-integrity condition found while deriving
type IssueKind string

const (
	// DuplicateSubmission: more than one submission references the same assignment
	DuplicateSubmission IssueKind = "DUPLICATE_SUBMISSION"
	// OrphanSubmission: a submission references an assignment not in the input
	OrphanSubmission IssueKind = "ORPHAN_SUBMISSION"
)

// Issue describes one integrity condition
type Issue struct {
	Kind          IssueKind
	AssignmentID  int64
	SubmissionIDs []int64
	// ChosenID is the submission used for classification (duplicates only)
	ChosenID int64
}

func (i Issue) String() string {
	switch i.Kind {
	case DuplicateSubmission:
		return fmt.Sprintf("assignment %d has %d submissions %v; using %d", i.AssignmentID, len(i.SubmissionIDs), i.SubmissionIDs, i.ChosenID)
	case OrphanSubmission:
		return fmt.Sprintf("submissions %v reference unknown assignment %d", i.SubmissionIDs, i.AssignmentID)
	}
	return string(i.Kind)
}

// Result holds the three partitions. Each keeps the input order of assignments.
type Result struct {
	Pending   []Entry
	Submitted []Entry
	Graded    []Entry
	Issues    []Issue

	byAssignment map[int64]Status
}

// StatusOf returns the status of an assignment in the result
func (r *Result) StatusOf(assignmentID int64) (Status, bool) {
	s, ok := r.byAssignment[assignmentID]
	return s, ok
}

// Total is the number of classified assignments
func (r *Result) Total() int {
	return len(r.Pending) + len(r.Submitted) + len(r.Graded)
}

// Counts returns the partition sizes keyed by status
func (r *Result) Counts() map[Status]int {
	return map[Status]int{
		Pending:   len(r.Pending),
		Submitted: len(r.Submitted),
		Graded:    len(r.Graded),
	}
}

// Err reports integrity issues as an error wrapping apperrors.ErrDataIntegrity
func (r *Result) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	return apperrors.NewCustomError(apperrors.ErrDataIntegrity,
		fmt.Sprintf("%d data integrity issue(s), first: %s", len(r.Issues), r.Issues[0])).
		WithCode(string(r.Issues[0].Kind))
}

// Derive partitions assignments into pending, submitted and graded.
// At most one submission per assignment is expected. When several exist the
// most recently submitted one is used (ties go to the highest ID) and the
// duplicate is reported in Issues. Duplicate assignment IDs in the input are
// classified once, at their first position.
func Derive(assignments []models.Assignment, submissions []models.Submission) *Result {
	grouped := make(map[int64][]int, len(submissions))
	for i := range submissions {
		id := submissions[i].AssignmentID
		grouped[id] = append(grouped[id], i)
	}

	res := &Result{
		Pending:      []Entry{},
		Submitted:    []Entry{},
		Graded:       []Entry{},
		byAssignment: make(map[int64]Status, len(assignments)),
	}

	known := make(map[int64]struct{}, len(assignments))
	for _, a := range assignments {
		if _, seen := known[a.ID]; seen {
			continue
		}
		known[a.ID] = struct{}{}

		var chosen *models.Submission
		if idx := grouped[a.ID]; len(idx) > 0 {
			best := idx[0]
			for _, i := range idx[1:] {
				if newer(submissions[i], submissions[best]) {
					best = i
				}
			}
			sub := submissions[best]
			chosen = &sub

			if len(idx) > 1 {
				res.Issues = append(res.Issues, Issue{
					Kind:          DuplicateSubmission,
					AssignmentID:  a.ID,
					SubmissionIDs: submissionIDs(submissions, idx),
					ChosenID:      sub.ID,
				})
			}
		}

		e := Entry{Assignment: a, Submission: chosen, Status: Of(chosen)}
		res.byAssignment[a.ID] = e.Status
		switch e.Status {
		case Pending:
			res.Pending = append(res.Pending, e)
		case Submitted:
			res.Submitted = append(res.Submitted, e)
		case Graded:
			res.Graded = append(res.Graded, e)
		}
	}

	// Report orphans in submission order so the output is deterministic.
	reported := make(map[int64]struct{})
	for _, s := range submissions {
		if _, ok := known[s.AssignmentID]; ok {
			continue
		}
		if _, done := reported[s.AssignmentID]; done {
			continue
		}
		reported[s.AssignmentID] = struct{}{}
		res.Issues = append(res.Issues, Issue{
			Kind:          OrphanSubmission,
			AssignmentID:  s.AssignmentID,
			SubmissionIDs: submissionIDs(submissions, grouped[s.AssignmentID]),
		})
	}

	return res
}

func newer(a, b models.Submission) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt.Time) {
		return a.SubmittedAt.After(b.SubmittedAt.Time)
	}
	return a.ID > b.ID
}

func submissionIDs(subs []models.Submission, idx []int) []int64 {
	ids := make([]int64, len(idx))
	for i, j := range idx {
		ids[i] = subs[j].ID
	}
	return ids
}
