package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

func grade(v float64) *float64 { return &v }

func assignments(ids ...int64) []models.Assignment {
	out := make([]models.Assignment, len(ids))
	for i, id := range ids {
		out[i] = models.Assignment{ID: id, Title: "A"}
	}
	return out
}

func ids(entries []Entry) []int64 {
	out := []int64{}
	for _, e := range entries {
		out = append(out, e.Assignment.ID)
	}
	return out
}

func TestDerive_UngradedSubmission(t *testing.T) {
	res := Derive(assignments(1, 2), []models.Submission{{ID: 10, AssignmentID: 1}})

	assert.Equal(t, []int64{2}, ids(res.Pending))
	assert.Equal(t, []int64{1}, ids(res.Submitted))
	assert.Empty(t, res.Graded)
	assert.Empty(t, res.Issues)
	assert.NoError(t, res.Err())
}

func TestDerive_GradedSubmission(t *testing.T) {
	res := Derive(assignments(1, 2), []models.Submission{{ID: 10, AssignmentID: 1, Grade: grade(85)}})

	assert.Equal(t, []int64{2}, ids(res.Pending))
	assert.Empty(t, res.Submitted)
	assert.Equal(t, []int64{1}, ids(res.Graded))
}

func TestDerive_ZeroGradeCountsAsGraded(t *testing.T) {
	res := Derive(assignments(1), []models.Submission{{ID: 10, AssignmentID: 1, Grade: grade(0)}})
	assert.Equal(t, []int64{1}, ids(res.Graded))
}

func TestDerive_EmptyInputs(t *testing.T) {
	res := Derive(nil, nil)
	assert.NotNil(t, res.Pending)
	assert.NotNil(t, res.Submitted)
	assert.NotNil(t, res.Graded)
	assert.Equal(t, 0, res.Total())
}

func TestDerive_PartitionsAreDisjointAndExhaustive(t *testing.T) {
	as := assignments(1, 2, 3, 4, 5, 6)
	subs := []models.Submission{
		{ID: 11, AssignmentID: 1},
		{ID: 12, AssignmentID: 3, Grade: grade(70)},
		{ID: 13, AssignmentID: 5, Grade: grade(100)},
		{ID: 14, AssignmentID: 6},
	}
	res := Derive(as, subs)

	seen := map[int64]Status{}
	for status, list := range map[Status][]Entry{Pending: res.Pending, Submitted: res.Submitted, Graded: res.Graded} {
		for _, e := range list {
			_, dup := seen[e.Assignment.ID]
			require.False(t, dup, "assignment %d in more than one partition", e.Assignment.ID)
			seen[e.Assignment.ID] = status
			assert.Equal(t, status, e.Status)
		}
	}
	assert.Len(t, seen, len(as))
	assert.Equal(t, len(as), res.Total())
	assert.Equal(t, map[Status]int{Pending: 2, Submitted: 2, Graded: 2}, res.Counts())

	for id, want := range seen {
		got, ok := res.StatusOf(id)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestDerive_KeepsInputOrder(t *testing.T) {
	res := Derive(assignments(5, 3, 9, 1), nil)
	assert.Equal(t, []int64{5, 3, 9, 1}, ids(res.Pending))
}

func TestDerive_DuplicateSubmissionsUseMostRecent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		{ID: 20, AssignmentID: 1, SubmittedAt: models.NewTimestamp(base), Grade: grade(60)},
		{ID: 21, AssignmentID: 1, SubmittedAt: models.NewTimestamp(base.Add(time.Hour))},
	}
	res := Derive(assignments(1), subs)

	require.Len(t, res.Submitted, 1)
	assert.Equal(t, int64(21), res.Submitted[0].Submission.ID)
	assert.Empty(t, res.Graded)

	require.Len(t, res.Issues, 1)
	issue := res.Issues[0]
	assert.Equal(t, DuplicateSubmission, issue.Kind)
	assert.Equal(t, int64(1), issue.AssignmentID)
	assert.Equal(t, []int64{20, 21}, issue.SubmissionIDs)
	assert.Equal(t, int64(21), issue.ChosenID)

	err := res.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
}

func TestDerive_DuplicateTieBreaksOnHighestID(t *testing.T) {
	at := models.NewTimestamp(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	subs := []models.Submission{
		{ID: 31, AssignmentID: 1, SubmittedAt: at, Grade: grade(90)},
		{ID: 30, AssignmentID: 1, SubmittedAt: at},
	}
	res := Derive(assignments(1), subs)

	require.Len(t, res.Graded, 1)
	assert.Equal(t, int64(31), res.Graded[0].Submission.ID)
}

func TestDerive_OrphanSubmissionsAreReported(t *testing.T) {
	subs := []models.Submission{
		{ID: 40, AssignmentID: 99},
		{ID: 41, AssignmentID: 1},
		{ID: 42, AssignmentID: 99},
		{ID: 43, AssignmentID: 77},
	}
	res := Derive(assignments(1), subs)

	assert.Equal(t, []int64{1}, ids(res.Submitted))
	require.Len(t, res.Issues, 2)
	assert.Equal(t, Issue{Kind: OrphanSubmission, AssignmentID: 99, SubmissionIDs: []int64{40, 42}}, res.Issues[0])
	assert.Equal(t, Issue{Kind: OrphanSubmission, AssignmentID: 77, SubmissionIDs: []int64{43}}, res.Issues[1])
	assert.Contains(t, res.Issues[0].String(), "unknown assignment 99")
}

func TestDerive_DuplicateAssignmentIDsClassifiedOnce(t *testing.T) {
	res := Derive(assignments(1, 2, 1), []models.Submission{{ID: 50, AssignmentID: 1}})
	assert.Equal(t, 2, res.Total())
	assert.Equal(t, []int64{1}, ids(res.Submitted))
	assert.Equal(t, []int64{2}, ids(res.Pending))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{Pending, Submitted, true},
		{Submitted, Graded, true},
		{Pending, Graded, false},
		{Graded, Submitted, false},
		{Graded, Pending, false},
		{Submitted, Pending, false},
		{Pending, Pending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOf(t *testing.T) {
	assert.Equal(t, Pending, Of(nil))
	assert.Equal(t, Submitted, Of(&models.Submission{ID: 1}))
	assert.Equal(t, Graded, Of(&models.Submission{ID: 1, Grade: grade(50)}))
}
