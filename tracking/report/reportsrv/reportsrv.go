package reportsrv

import (
	"context"
	"sort"
	"time"

	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/tracking/candidate"
	"github.com/talentgrid/ctms/tracking/interview"
	"github.com/talentgrid/ctms/tracking/report"
)

const reportDateFormat = "Jan 02, 2006 15:04"

// ReportService aggregates candidate and interview data into dashboard
// figures, date-windowed activity reports, and downloadable documents.
type ReportService struct {
	candidates candidate.Repository
	interviews interview.Repository
	logoPath   string
}

func NewReportService(candidates candidate.Repository, interviews interview.Repository, logoPath string) *ReportService {
	return &ReportService{
		candidates: candidates,
		interviews: interviews,
		logoPath:   logoPath,
	}
}

// Dashboard returns the headline counters for the landing page.
func (s *ReportService) Dashboard(ctx context.Context) (*report.DashboardStats, error) {
	now := time.Now()

	candidatesCount, err := s.candidates.CountCreatedBetween(ctx, time.Time{}, now)
	if err != nil {
		return nil, err
	}
	interviewsCount, err := s.interviews.Count(ctx)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.candidates.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	todayInterviews, err := s.interviews.CountOnDay(ctx, now)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.interviews.CountUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	return &report.DashboardStats{
		CandidatesCount:    candidatesCount,
		InterviewsCount:    interviewsCount,
		StatusCounts:       statusCounts,
		TodayInterviews:    todayInterviews,
		UpcomingInterviews: upcoming,
	}, nil
}

// Analytics counts activity inside a rolling window: "weekly" covers the
// last 7 days, anything else the last month.
func (s *ReportService) Analytics(ctx context.Context, timeRange string) (*report.AnalyticsResponse, error) {
	now := time.Now()
	since := now.AddDate(0, -1, 0)
	if timeRange == "weekly" {
		since = now.AddDate(0, 0, -7)
	} else {
		timeRange = "monthly"
	}

	candidates, err := s.candidates.CountCreatedBetween(ctx, since, now)
	if err != nil {
		return nil, err
	}
	interviews, err := s.interviews.CountBetween(ctx, since, now)
	if err != nil {
		return nil, err
	}

	return &report.AnalyticsResponse{
		TimeRange:  timeRange,
		Candidates: candidates,
		Interviews: interviews,
	}, nil
}

// CandidateActivity lists candidates created in the given range,
// optionally filtered by status.
func (s *ReportService) CandidateActivity(ctx context.Context, rng report.DateRange, status string) (*report.CandidateReportResponse, error) {
	from, to, err := normalizeRange(rng)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidates.ListCreatedBetween(ctx, from, to, status)
	if err != nil {
		return nil, err
	}
	return &report.CandidateReportResponse{Count: len(candidates), Candidates: candidates}, nil
}

// InterviewActivity lists interviews dated in the given range,
// optionally filtered by type.
func (s *ReportService) InterviewActivity(ctx context.Context, rng report.DateRange, interviewType string) (*report.InterviewReportResponse, error) {
	from, to, err := normalizeRange(rng)
	if err != nil {
		return nil, err
	}

	interviews, err := s.interviews.ListBetween(ctx, from, to, interviewType)
	if err != nil {
		return nil, err
	}
	return &report.InterviewReportResponse{Count: len(interviews), Interviews: interviews}, nil
}

// RejectedCandidates returns rejected and terminated candidates, most
// recently updated first.
func (s *ReportService) RejectedCandidates(ctx context.Context) (*report.CandidateReportResponse, error) {
	now := time.Now()

	out := make([]candidate.Candidate, 0)
	for _, status := range []candidate.Status{candidate.StatusRejected, candidate.StatusTerminated} {
		batch, err := s.candidates.ListCreatedBetween(ctx, time.Time{}, now, string(status))
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	return &report.CandidateReportResponse{Count: len(out), Candidates: out}, nil
}

// CandidatesPDF renders every candidate into the branded PDF report.
func (s *ReportService) CandidatesPDF(ctx context.Context) ([]byte, error) {
	rows, err := s.candidateRows(ctx)
	if err != nil {
		return nil, err
	}
	logx.Infof("generating candidates PDF report with %d rows", len(rows))
	return renderCandidatesPDF(rows, s.logoPath)
}

// CandidatesExcel renders every candidate into the XLSX report.
func (s *ReportService) CandidatesExcel(ctx context.Context) ([]byte, error) {
	rows, err := s.candidateRows(ctx)
	if err != nil {
		return nil, err
	}
	logx.Infof("generating candidates Excel report with %d rows", len(rows))
	return renderCandidatesExcel(rows)
}

// InterviewsPDF renders every interview into the branded PDF report.
func (s *ReportService) InterviewsPDF(ctx context.Context) ([]byte, error) {
	rows, err := s.interviewRows(ctx)
	if err != nil {
		return nil, err
	}
	logx.Infof("generating interviews PDF report with %d rows", len(rows))
	return renderInterviewsPDF(rows, s.logoPath)
}

// InterviewsExcel renders every interview into the XLSX report.
func (s *ReportService) InterviewsExcel(ctx context.Context) ([]byte, error) {
	rows, err := s.interviewRows(ctx)
	if err != nil {
		return nil, err
	}
	logx.Infof("generating interviews Excel report with %d rows", len(rows))
	return renderInterviewsExcel(rows)
}

func (s *ReportService) candidateRows(ctx context.Context) ([]report.CandidateRow, error) {
	candidates, err := s.candidates.ListCreatedBetween(ctx, time.Time{}, time.Now(), "")
	if err != nil {
		return nil, err
	}

	rows := make([]report.CandidateRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, report.CandidateRow{
			Name:     c.GetFullName(),
			Email:    c.Email.String(),
			Phone:    c.Phone.String(),
			Position: c.Position.String(),
			Status:   string(c.Status),
			Source:   c.Source,
		})
	}
	return rows, nil
}

func (s *ReportService) interviewRows(ctx context.Context) ([]report.InterviewRow, error) {
	interviews, err := s.interviews.ListBetween(ctx, time.Time{}, time.Now().AddDate(1, 0, 0), "")
	if err != nil {
		return nil, err
	}

	rows := make([]report.InterviewRow, 0, len(interviews))
	for _, iv := range interviews {
		row := report.InterviewRow{
			Date:   iv.InterviewDate.Format(reportDateFormat),
			Type:   string(iv.InterviewType),
			Status: string(iv.Status),
		}
		if iv.Candidate != nil {
			row.Candidate = iv.Candidate.FirstName + " " + iv.Candidate.LastName
			row.Email = iv.Candidate.Email
			row.Phone = iv.Candidate.Phone
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalizeRange fills open ends and rejects inverted ranges. A supplied
// end date is pushed to the end of its day so same-day ranges work.
func normalizeRange(rng report.DateRange) (time.Time, time.Time, error) {
	from := rng.Start
	to := rng.End
	if to.IsZero() {
		to = time.Now()
	} else {
		to = to.Add(24*time.Hour - time.Second)
	}
	if !from.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, report.ErrInvalidDateRange()
	}
	return from, to, nil
}
