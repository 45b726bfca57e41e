package report

import (
	"time"

	"github.com/talentgrid/ctms/tracking/candidate"
	"github.com/talentgrid/ctms/tracking/interview"
)

type DashboardStats struct {
	CandidatesCount    int                      `json:"candidates_count"`
	InterviewsCount    int                      `json:"interviews_count"`
	StatusCounts       map[candidate.Status]int `json:"status_counts"`
	TodayInterviews    int                      `json:"today_interviews"`
	UpcomingInterviews int                      `json:"upcoming_interviews"`
}

// AnalyticsResponse is a time-windowed activity snapshot
type AnalyticsResponse struct {
	TimeRange  string `json:"time_range"`
	Candidates int    `json:"candidates"`
	Interviews int    `json:"interviews"`
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

type CandidateReportResponse struct {
	Count      int                   `json:"count"`
	Candidates []candidate.Candidate `json:"candidates"`
}

type InterviewReportResponse struct {
	Count      int                  `json:"count"`
	Interviews []interview.WithRefs `json:"interviews"`
}

// CandidateRow is one line of a rendered candidate report document
type CandidateRow struct {
	Name     string
	Email    string
	Phone    string
	Position string
	Status   string
	Source   string
}

// InterviewRow is one line of a rendered interview report document
type InterviewRow struct {
	Candidate string
	Email     string
	Phone     string
	Date      string
	Type      string
	Status    string
}
