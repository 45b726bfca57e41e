package interview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/tracking/candidate"
)

func newTestInterview() *Interview {
	return New(
		kernel.NewCandidateID("cand-1"),
		kernel.NewUserID("hr-1"),
		time.Now().Add(48*time.Hour),
		TypeTechnical,
		[]string{"Alice", "bob@example.com"},
		"https://meet.example.com/abc",
	)
}

func intp(v int) *int { return &v }

func TestOutcome_CandidateStatus(t *testing.T) {
	tests := []struct {
		outcome    Outcome
		wantStatus candidate.Status
		wantReason string
	}{
		{OutcomePassed, candidate.StatusHired, ""},
		{OutcomeFailed, candidate.StatusRejected, "Failed interview"},
		{OutcomeRecommendedNextRound, candidate.StatusInterviewed, ""},
		{OutcomePending, candidate.StatusInterviewed, ""},
		{Outcome(""), candidate.StatusInterviewed, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			status, reason := tt.outcome.CandidateStatus()
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestComplete_MergesOverExistingFeedback(t *testing.T) {
	iv := newTestInterview()
	iv.Complete(&Feedback{
		TechnicalSkills: intp(4),
		Notes:           "solid fundamentals",
	}, OutcomePending)

	require.NotNil(t, iv.Feedback)
	first := *iv.Feedback.SubmittedAt

	iv.Complete(&Feedback{
		Communication: intp(5),
		OverallRating: intp(4),
	}, OutcomePassed)

	fb := iv.Feedback
	require.NotNil(t, fb)
	assert.Equal(t, StatusCompleted, iv.Status)
	assert.Equal(t, intp(4), fb.TechnicalSkills)
	assert.Equal(t, intp(5), fb.Communication)
	assert.Equal(t, intp(4), fb.OverallRating)
	assert.Equal(t, "solid fundamentals", fb.Notes)
	assert.Equal(t, OutcomePassed, fb.Outcome)
	require.NotNil(t, fb.SubmittedAt)
	assert.False(t, fb.SubmittedAt.Before(first))
}

func TestComplete_OutcomeOnlyKeepsFeedbackBlock(t *testing.T) {
	iv := newTestInterview()
	iv.Complete(nil, OutcomeFailed)

	require.NotNil(t, iv.Feedback)
	assert.Equal(t, OutcomeFailed, iv.Feedback.Outcome)
	assert.Nil(t, iv.Feedback.SubmittedAt)
	assert.Equal(t, StatusCompleted, iv.Status)
}

func TestReschedule_PartialUpdate(t *testing.T) {
	iv := newTestInterview()
	iv.Cancel()
	originalDate := iv.InterviewDate

	iv.Reschedule(nil, "https://meet.example.com/new")
	assert.Equal(t, StatusScheduled, iv.Status)
	assert.Equal(t, originalDate, iv.InterviewDate)
	assert.Equal(t, "https://meet.example.com/new", iv.MeetingLink)

	newDate := originalDate.Add(24 * time.Hour)
	iv.Reschedule(&newDate, "")
	assert.Equal(t, newDate, iv.InterviewDate)
	assert.Equal(t, "https://meet.example.com/new", iv.MeetingLink)
}

func TestMarkNoShow(t *testing.T) {
	iv := newTestInterview()
	require.NoError(t, iv.MarkNoShow())
	assert.Equal(t, StatusNoShow, iv.Status)

	completed := newTestInterview()
	completed.Complete(nil, OutcomePassed)
	assert.Error(t, completed.MarkNoShow())
	assert.Equal(t, StatusCompleted, completed.Status)
}

func TestFeedback_ScanRoundTrip(t *testing.T) {
	fb := Feedback{
		TechnicalSkills: intp(3),
		Notes:           "ok",
		Outcome:         OutcomePending,
	}

	value, err := fb.Value()
	require.NoError(t, err)

	var out Feedback
	require.NoError(t, out.Scan(value))
	assert.Equal(t, fb, out)

	var fromNil Feedback
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, Feedback{}, fromNil)

	assert.Error(t, out.Scan(42))
}
