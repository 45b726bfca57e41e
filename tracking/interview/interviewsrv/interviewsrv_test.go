package interviewsrv

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid/ctms/pkg/errx"
	"github.com/talentgrid/ctms/pkg/fsx"
	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/pkg/mailx"
	"github.com/talentgrid/ctms/tracking/candidate"
	"github.com/talentgrid/ctms/tracking/interview"
)

// --- fakes ---

type fakeInterviewRepo struct {
	byID map[kernel.InterviewID]*interview.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{byID: map[kernel.InterviewID]*interview.Interview{}}
}

func (r *fakeInterviewRepo) Save(ctx context.Context, i *interview.Interview) error {
	r.byID[i.ID] = i
	return nil
}

func (r *fakeInterviewRepo) Update(ctx context.Context, i *interview.Interview) error {
	r.byID[i.ID] = i
	return nil
}

func (r *fakeInterviewRepo) FindByID(ctx context.Context, id kernel.InterviewID) (*interview.Interview, error) {
	if i, ok := r.byID[id]; ok {
		return i, nil
	}
	return nil, interview.ErrInterviewNotFound()
}

func (r *fakeInterviewRepo) FindByIDWithRefs(ctx context.Context, id kernel.InterviewID) (*interview.WithRefs, error) {
	i, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &interview.WithRefs{Interview: *i}, nil
}

func (r *fakeInterviewRepo) Delete(ctx context.Context, id kernel.InterviewID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeInterviewRepo) List(ctx context.Context, filters interview.ListFilters, pagination kernel.PaginationOptions) ([]interview.WithRefs, int, error) {
	return nil, 0, nil
}

func (r *fakeInterviewRepo) Upcoming(ctx context.Context, limit int) ([]interview.WithRefs, error) {
	return nil, nil
}

func (r *fakeInterviewRepo) ListBetween(ctx context.Context, from, to time.Time, interviewType string) ([]interview.WithRefs, error) {
	return nil, nil
}

func (r *fakeInterviewRepo) Count(ctx context.Context) (int, error) { return len(r.byID), nil }
func (r *fakeInterviewRepo) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	return 0, nil
}
func (r *fakeInterviewRepo) CountOnDay(ctx context.Context, day time.Time) (int, error) {
	return 0, nil
}
func (r *fakeInterviewRepo) CountUpcoming(ctx context.Context) (int, error) { return 0, nil }

type fakeCandidateRepo struct {
	byID map[kernel.CandidateID]*candidate.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{byID: map[kernel.CandidateID]*candidate.Candidate{}}
}

func (r *fakeCandidateRepo) Save(ctx context.Context, c *candidate.Candidate) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCandidateRepo) Update(ctx context.Context, c *candidate.Candidate) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCandidateRepo) FindByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, candidate.ErrCandidateNotFound()
}

func (r *fakeCandidateRepo) FindByEmail(ctx context.Context, email kernel.Email) (*candidate.Candidate, error) {
	return nil, candidate.ErrCandidateNotFound()
}

func (r *fakeCandidateRepo) FindByEmailOrPhone(ctx context.Context, email kernel.Email, phone kernel.Phone) (*candidate.Candidate, error) {
	return nil, candidate.ErrCandidateNotFound()
}

func (r *fakeCandidateRepo) Delete(ctx context.Context, id kernel.CandidateID) error { return nil }

func (r *fakeCandidateRepo) List(ctx context.Context, filters candidate.ListFilters, pagination kernel.PaginationOptions) ([]candidate.Candidate, int, error) {
	return nil, 0, nil
}

func (r *fakeCandidateRepo) ListCreatedBetween(ctx context.Context, from, to time.Time, status string) ([]candidate.Candidate, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) ListForExport(ctx context.Context, status string) ([]candidate.ExportRow, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) BulkUpdateStatus(ctx context.Context, ids []kernel.CandidateID, status candidate.Status, reason string, by kernel.UserID) (int, error) {
	return 0, nil
}

func (r *fakeCandidateRepo) StatusCounts(ctx context.Context) (map[candidate.Status]int, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) SourceCounts(ctx context.Context) (map[string]int, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) PositionCounts(ctx context.Context) (map[string]int, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) MonthlyTrend(ctx context.Context, months int) ([]candidate.MonthCount, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return 0, nil
}

// recorderSender captures dispatched mail synchronously
type recorderSender struct {
	messages []mailx.Message
}

func (r *recorderSender) Dispatch(msg mailx.Message) {
	r.messages = append(r.messages, msg)
}

// localFiles resolves absolute paths like the local disk store
type localFiles struct {
	exists bool
}

func (f *localFiles) Join(parts ...string) string { return strings.Join(parts, "/") }
func (f *localFiles) WriteFile(ctx context.Context, path string, data []byte) error {
	return nil
}
func (f *localFiles) WriteFileStream(ctx context.Context, path string, r io.Reader) error {
	return nil
}
func (f *localFiles) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
func (f *localFiles) Exists(ctx context.Context, path string) (bool, error) { return f.exists, nil }
func (f *localFiles) DeleteFile(ctx context.Context, path string) error     { return nil }
func (f *localFiles) AbsolutePath(path string) string                       { return "/uploads/" + path }

// remoteFiles cannot resolve local paths, like the S3 store
type remoteFiles struct {
	exists bool
}

func (f *remoteFiles) Join(parts ...string) string { return strings.Join(parts, "/") }
func (f *remoteFiles) WriteFile(ctx context.Context, path string, data []byte) error {
	return nil
}
func (f *remoteFiles) WriteFileStream(ctx context.Context, path string, r io.Reader) error {
	return nil
}
func (f *remoteFiles) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
func (f *remoteFiles) Exists(ctx context.Context, path string) (bool, error) { return f.exists, nil }
func (f *remoteFiles) DeleteFile(ctx context.Context, path string) error     { return nil }

func newService(files fsx.FileSystem) (*InterviewService, *fakeInterviewRepo, *fakeCandidateRepo, *recorderSender) {
	repo := newFakeInterviewRepo()
	candidates := newFakeCandidateRepo()
	sender := &recorderSender{}
	svc := NewInterviewService(repo, candidates, files, sender, "")
	return svc, repo, candidates, sender
}

func seedCandidate(candidates *fakeCandidateRepo, withCV bool) *candidate.Candidate {
	c := candidate.New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))
	c.Position = kernel.Position("Backend Engineer")
	if withCV {
		path := "cv/123-cv.pdf"
		c.CVPath = &path
	}
	candidates.byID[c.ID] = c
	return c
}

func scheduleRequest(candidateID string) interview.ScheduleInterviewRequest {
	return interview.ScheduleInterviewRequest{
		CandidateID:   candidateID,
		InterviewDate: time.Now().Add(72 * time.Hour),
		InterviewType: "technical",
		Interviewers:  []string{"Alice Smith", "bob@example.com"},
		MeetingLink:   "https://meet.example.com/abc",
	}
}

// --- tests ---

func TestSchedule_MovesCandidateAndSendsInvitations(t *testing.T) {
	svc, repo, candidates, sender := newService(&localFiles{exists: true})
	cand := seedCandidate(candidates, true)

	resp, err := svc.Schedule(context.Background(), scheduleRequest(cand.ID.String()), kernel.NewUserID("hr-2"))
	require.NoError(t, err)

	assert.Equal(t, interview.StatusScheduled, resp.Status)
	assert.Equal(t, candidate.StatusScheduled, candidates.byID[cand.ID].Status)
	assert.Len(t, repo.byID, 1)

	// candidate invitation plus one interviewer copy
	require.Len(t, sender.messages, 2)

	invite := sender.messages[0]
	assert.Equal(t, []string{"jane@example.com"}, invite.To)
	assert.Equal(t, "Interview Scheduled - Jane Doe", invite.Subject)
	assert.Contains(t, invite.HTMLBody, "Backend Engineer")
	assert.Contains(t, invite.HTMLBody, "https://meet.example.com/abc")
	assert.Empty(t, invite.Attachments)

	copyMsg := sender.messages[1]
	assert.Equal(t, []string{"bob@example.com"}, copyMsg.To)
	require.Len(t, copyMsg.Attachments, 1)
	assert.Equal(t, "CV_Jane_Doe.pdf", copyMsg.Attachments[0].Filename)
	assert.Equal(t, "/uploads/cv/123-cv.pdf", copyMsg.Attachments[0].Path)
}

func TestSchedule_NoInterviewerAddresses(t *testing.T) {
	svc, _, candidates, sender := newService(&localFiles{exists: true})
	cand := seedCandidate(candidates, false)

	req := scheduleRequest(cand.ID.String())
	req.Interviewers = []string{"Alice Smith", "Bob Jones"}

	_, err := svc.Schedule(context.Background(), req, kernel.NewUserID("hr-2"))
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
}

func TestSchedule_RemoteStoreSkipsCVAttachment(t *testing.T) {
	svc, _, candidates, sender := newService(&remoteFiles{exists: true})
	cand := seedCandidate(candidates, true)

	_, err := svc.Schedule(context.Background(), scheduleRequest(cand.ID.String()), kernel.NewUserID("hr-2"))
	require.NoError(t, err)

	require.Len(t, sender.messages, 2)
	assert.Empty(t, sender.messages[1].Attachments)
}

func TestSchedule_InvalidType(t *testing.T) {
	svc, _, candidates, _ := newService(&localFiles{})
	cand := seedCandidate(candidates, false)

	req := scheduleRequest(cand.ID.String())
	req.InterviewType = "casual"

	_, err := svc.Schedule(context.Background(), req, kernel.NewUserID("hr-2"))
	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, interview.CodeInvalidType, e.Code)
}

func TestSchedule_UnknownCandidate(t *testing.T) {
	svc, _, _, sender := newService(&localFiles{})

	_, err := svc.Schedule(context.Background(), scheduleRequest("missing"), kernel.NewUserID("hr-2"))
	require.Error(t, err)
	assert.Empty(t, sender.messages)
}

func TestSubmitFeedback_OutcomeDrivesCandidateStatus(t *testing.T) {
	tests := []struct {
		outcome     string
		wantStatus  candidate.Status
		wantSubject string
		wantReason  string
	}{
		{"passed", candidate.StatusHired, "Congratulations! You've Been Hired - Jane Doe", ""},
		{"failed", candidate.StatusRejected, "Interview Update - Jane Doe", "Failed interview"},
		{"recommended-next-round", candidate.StatusInterviewed, "Next Round Interview - Jane Doe", ""},
		{"pending", candidate.StatusInterviewed, "Interview Completed - Jane Doe", ""},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			svc, repo, candidates, sender := newService(&localFiles{})
			cand := seedCandidate(candidates, false)

			iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), time.Now(), interview.TypeHR, nil, "")
			repo.byID[iv.ID] = iv

			rating := 4
			resp, err := svc.SubmitFeedback(context.Background(), iv.ID, interview.SubmitFeedbackRequest{
				Feedback: &interview.FeedbackInput{OverallRating: &rating, Notes: "good session"},
				Outcome:  tt.outcome,
			}, kernel.NewUserID("hr-2"))
			require.NoError(t, err)

			assert.Equal(t, interview.StatusCompleted, resp.Status)
			require.NotNil(t, resp.Feedback)
			assert.Equal(t, interview.Outcome(tt.outcome), resp.Feedback.Outcome)
			assert.NotNil(t, resp.Feedback.SubmittedAt)

			got := candidates.byID[cand.ID]
			assert.Equal(t, tt.wantStatus, got.Status)
			if tt.wantReason != "" {
				require.NotNil(t, got.RejectionReason)
				assert.Equal(t, tt.wantReason, *got.RejectionReason)
			} else {
				assert.Nil(t, got.RejectionReason)
			}

			require.Len(t, sender.messages, 1)
			assert.Equal(t, tt.wantSubject, sender.messages[0].Subject)
			assert.Contains(t, sender.messages[0].HTMLBody, "Overall Grade:")
		})
	}
}

func TestSubmitFeedback_InvalidOutcome(t *testing.T) {
	svc, repo, candidates, _ := newService(&localFiles{})
	cand := seedCandidate(candidates, false)

	iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), time.Now(), interview.TypeHR, nil, "")
	repo.byID[iv.ID] = iv

	_, err := svc.SubmitFeedback(context.Background(), iv.ID, interview.SubmitFeedbackRequest{
		Outcome: "maybe",
	}, kernel.NewUserID("hr-2"))
	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, interview.CodeInvalidOutcome, e.Code)
}

func TestCancel_CancelsCandidateProcess(t *testing.T) {
	svc, repo, candidates, sender := newService(&localFiles{})
	cand := seedCandidate(candidates, false)

	iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), time.Now().Add(24*time.Hour), interview.TypeBehavioral, nil, "")
	repo.byID[iv.ID] = iv

	resp, err := svc.Cancel(context.Background(), iv.ID, kernel.NewUserID("hr-2"))
	require.NoError(t, err)

	assert.Equal(t, interview.StatusCancelled, resp.Status)
	assert.Equal(t, candidate.StatusCancelled, candidates.byID[cand.ID].Status)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Interview Cancelled - Jane Doe", sender.messages[0].Subject)
}

func TestReschedule_PartialAndBackToScheduled(t *testing.T) {
	svc, repo, candidates, sender := newService(&localFiles{})
	cand := seedCandidate(candidates, false)
	cand.Status = candidate.StatusCancelled

	originalDate := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), originalDate, interview.TypeTechnical, nil, "")
	iv.Cancel()
	repo.byID[iv.ID] = iv

	newDate := originalDate.Add(48 * time.Hour)
	resp, err := svc.Reschedule(context.Background(), iv.ID, interview.RescheduleRequest{
		InterviewDate: &newDate,
	}, kernel.NewUserID("hr-2"))
	require.NoError(t, err)

	assert.Equal(t, interview.StatusScheduled, resp.Status)
	assert.Equal(t, newDate, resp.InterviewDate)
	assert.Equal(t, candidate.StatusScheduled, candidates.byID[cand.ID].Status)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Interview Rescheduled - Jane Doe", sender.messages[0].Subject)
	assert.Contains(t, sender.messages[0].HTMLBody, formatEmailDate(originalDate))
	assert.Contains(t, sender.messages[0].HTMLBody, formatEmailDate(newDate))
}

func TestDelete_GuardsCompletedWithFeedback(t *testing.T) {
	svc, repo, candidates, sender := newService(&localFiles{})
	cand := seedCandidate(candidates, false)

	iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), time.Now(), interview.TypeHR, nil, "")
	rating := 5
	iv.Complete(&interview.Feedback{OverallRating: &rating}, interview.OutcomePassed)
	repo.byID[iv.ID] = iv

	err := svc.Delete(context.Background(), iv.ID)
	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, interview.CodeHasFeedback, e.Code)
	assert.Len(t, repo.byID, 1)
	assert.Empty(t, sender.messages)
}

func TestDelete_RemovesAndNotifies(t *testing.T) {
	svc, repo, candidates, sender := newService(&localFiles{})
	cand := seedCandidate(candidates, false)

	iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), time.Now().Add(24*time.Hour), interview.TypeHR, nil, "")
	repo.byID[iv.ID] = iv

	require.NoError(t, svc.Delete(context.Background(), iv.ID))
	assert.Empty(t, repo.byID)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Interview Deleted - Jane Doe", sender.messages[0].Subject)
}

func TestMarkNoShow_LeavesCandidateUntouched(t *testing.T) {
	svc, repo, candidates, sender := newService(&localFiles{})
	cand := seedCandidate(candidates, false)
	cand.Status = candidate.StatusScheduled

	iv := interview.New(cand.ID, kernel.NewUserID("hr-1"), time.Now().Add(-time.Hour), interview.TypeHR, nil, "")
	repo.byID[iv.ID] = iv

	resp, err := svc.MarkNoShow(context.Background(), iv.ID)
	require.NoError(t, err)

	assert.Equal(t, interview.StatusNoShow, resp.Status)
	assert.Equal(t, candidate.StatusScheduled, candidates.byID[cand.ID].Status)
	assert.Empty(t, sender.messages)

	_, err = svc.MarkNoShow(context.Background(), iv.ID)
	require.Error(t, err)
}
