package interviewsrv

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentgrid/ctms/pkg/fsx"
	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/pkg/mailx"
	"github.com/talentgrid/ctms/pkg/validatex"
	"github.com/talentgrid/ctms/tracking/candidate"
	"github.com/talentgrid/ctms/tracking/interview"
)

const defaultUpcomingLimit = 5

// pathResolver is implemented by file stores that can hand out a local
// path, which the mailer needs to attach a CV. The S3 store cannot, so CV
// attachments are silently skipped there.
type pathResolver interface {
	AbsolutePath(path string) string
}

// InterviewService implements interview lifecycle operations. All email is
// best effort: it is handed to the dispatcher after the state change
// commits and failures only surface in the log.
type InterviewService struct {
	repo       interview.Repository
	candidates candidate.Repository
	files      fsx.FileSystem
	mail       mailx.Sender
	logoPath   string
}

func NewInterviewService(
	repo interview.Repository,
	candidates candidate.Repository,
	files fsx.FileSystem,
	mail mailx.Sender,
	logoPath string,
) *InterviewService {
	return &InterviewService{
		repo:       repo,
		candidates: candidates,
		files:      files,
		mail:       mail,
		logoPath:   logoPath,
	}
}

// Schedule books an interview for an existing candidate, moves the
// candidate to scheduled and sends invitations: one to the candidate, one
// to each interviewer address with the candidate's CV attached.
func (s *InterviewService) Schedule(ctx context.Context, req interview.ScheduleInterviewRequest, actor kernel.UserID) (*interview.WithRefs, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	interviewType := interview.Type(req.InterviewType)
	if !interviewType.IsValid() {
		return nil, interview.ErrInvalidType().WithDetail("interview_type", req.InterviewType)
	}

	cand, err := s.candidates.FindByID(ctx, kernel.NewCandidateID(req.CandidateID))
	if err != nil {
		return nil, err
	}

	iv := interview.New(cand.ID, actor, req.InterviewDate, interviewType, req.Interviewers, req.MeetingLink)
	if err := s.repo.Save(ctx, iv); err != nil {
		return nil, err
	}

	if err := cand.ApplyStatus(candidate.StatusScheduled, "", "", actor); err != nil {
		return nil, err
	}
	if err := s.candidates.Update(ctx, cand); err != nil {
		return nil, err
	}

	s.sendScheduledMail(ctx, iv, cand)

	logx.Infof("interview scheduled: id=%s candidate=%s", iv.ID.String(), cand.ID.String())
	return s.repo.FindByIDWithRefs(ctx, iv.ID)
}

// SubmitFeedback completes an interview, merges the feedback block and
// cross-updates the candidate from the outcome: passed hires,
// recommended-next-round and anything else marks interviewed, failed
// rejects with a stamped reason.
func (s *InterviewService) SubmitFeedback(ctx context.Context, id kernel.InterviewID, req interview.SubmitFeedbackRequest, actor kernel.UserID) (*interview.WithRefs, error) {
	if req.Feedback != nil {
		if err := validatex.Struct(req.Feedback); err != nil {
			return nil, err
		}
	}

	outcome := interview.Outcome(req.Outcome)
	if req.Outcome != "" && !outcome.IsValid() {
		return nil, interview.ErrInvalidOutcome().WithDetail("outcome", req.Outcome)
	}

	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	iv.Complete(req.Feedback.ToFeedback(), outcome)
	if err := s.repo.Update(ctx, iv); err != nil {
		return nil, err
	}

	cand, err := s.candidates.FindByID(ctx, iv.CandidateID)
	if err != nil {
		return nil, err
	}

	status, reason := outcome.CandidateStatus()
	if err := cand.ApplyStatus(status, reason, "", actor); err != nil {
		return nil, err
	}
	if err := s.candidates.Update(ctx, cand); err != nil {
		return nil, err
	}

	s.sendOutcomeMail(iv, cand, outcome)

	logx.Infof("interview feedback submitted: id=%s outcome=%s candidate_status=%s",
		iv.ID.String(), outcome, cand.Status)
	return s.repo.FindByIDWithRefs(ctx, iv.ID)
}

// Cancel cancels an interview and the candidate's process with it
func (s *InterviewService) Cancel(ctx context.Context, id kernel.InterviewID, actor kernel.UserID) (*interview.WithRefs, error) {
	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	iv.Cancel()
	if err := s.repo.Update(ctx, iv); err != nil {
		return nil, err
	}

	cand, err := s.candidates.FindByID(ctx, iv.CandidateID)
	if err != nil {
		return nil, err
	}
	if err := cand.ApplyStatus(candidate.StatusCancelled, "", "", actor); err != nil {
		return nil, err
	}
	if err := s.candidates.Update(ctx, cand); err != nil {
		return nil, err
	}

	data := emailData{
		CandidateName: cand.GetFullName(),
		Position:      cand.Position.String(),
		Date:          formatEmailDate(iv.InterviewDate),
	}
	s.dispatch(mailx.Message{
		To:          []string{cand.Email.String()},
		Subject:     subjectFor("Interview Cancelled", cand.GetFullName()),
		HTMLBody:    renderEmail(cancelledTemplate, data, overallRating(iv)),
		Attachments: s.logoAttachment(),
	})

	return s.repo.FindByIDWithRefs(ctx, iv.ID)
}

// Reschedule moves an interview to a new date or link and puts both the
// interview and the candidate back to scheduled
func (s *InterviewService) Reschedule(ctx context.Context, id kernel.InterviewID, req interview.RescheduleRequest, actor kernel.UserID) (*interview.WithRefs, error) {
	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldDate := iv.InterviewDate
	link := ""
	if req.MeetingLink != nil {
		link = *req.MeetingLink
	}
	iv.Reschedule(req.InterviewDate, link)

	if err := s.repo.Update(ctx, iv); err != nil {
		return nil, err
	}

	cand, err := s.candidates.FindByID(ctx, iv.CandidateID)
	if err != nil {
		return nil, err
	}
	if err := cand.ApplyStatus(candidate.StatusScheduled, "", "", actor); err != nil {
		return nil, err
	}
	if err := s.candidates.Update(ctx, cand); err != nil {
		return nil, err
	}

	data := emailData{
		CandidateName: cand.GetFullName(),
		Position:      cand.Position.String(),
		PreviousDate:  formatEmailDate(oldDate),
		Date:          formatEmailDate(iv.InterviewDate),
		MeetingLink:   iv.MeetingLink,
	}
	s.dispatch(mailx.Message{
		To:          []string{cand.Email.String()},
		Subject:     subjectFor("Interview Rescheduled", cand.GetFullName()),
		HTMLBody:    renderEmail(rescheduledTemplate, data, overallRating(iv)),
		Attachments: s.logoAttachment(),
	})

	return s.repo.FindByIDWithRefs(ctx, iv.ID)
}

// Delete removes an interview. Completed interviews with feedback are kept
// for the record and cannot be deleted.
func (s *InterviewService) Delete(ctx context.Context, id kernel.InterviewID) error {
	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if iv.Status == interview.StatusCompleted && iv.HasFeedback() {
		return interview.ErrHasFeedback()
	}

	cand, candErr := s.candidates.FindByID(ctx, iv.CandidateID)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if candErr == nil {
		data := emailData{
			CandidateName: cand.GetFullName(),
			Position:      cand.Position.String(),
			Date:          formatEmailDate(iv.InterviewDate),
		}
		s.dispatch(mailx.Message{
			To:          []string{cand.Email.String()},
			Subject:     subjectFor("Interview Deleted", cand.GetFullName()),
			HTMLBody:    renderEmail(deletedTemplate, data, nil),
			Attachments: s.logoAttachment(),
		})
	}

	logx.Infof("interview deleted: id=%s", id.String())
	return nil
}

// MarkNoShow records that the candidate did not attend
func (s *InterviewService) MarkNoShow(ctx context.Context, id kernel.InterviewID) (*interview.WithRefs, error) {
	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := iv.MarkNoShow(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, iv); err != nil {
		return nil, err
	}

	logx.Infof("interview marked no-show: id=%s", id.String())
	return s.repo.FindByIDWithRefs(ctx, iv.ID)
}

// List retrieves interviews with filters and pagination
func (s *InterviewService) List(ctx context.Context, filters interview.ListFilters, pagination kernel.PaginationOptions) (*interview.ListInterviewsResponse, error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize < 1 {
		pagination.PageSize = 10
	}

	interviews, total, err := s.repo.List(ctx, filters, pagination)
	if err != nil {
		return nil, err
	}

	page := kernel.NewPage(pagination, total)
	return &interview.ListInterviewsResponse{
		Interviews:  interviews,
		TotalPages:  page.Pages,
		CurrentPage: page.Number,
		Total:       total,
	}, nil
}

// GetByID retrieves an interview with its references populated
func (s *InterviewService) GetByID(ctx context.Context, id kernel.InterviewID) (*interview.WithRefs, error) {
	return s.repo.FindByIDWithRefs(ctx, id)
}

// GetUpcoming returns the next scheduled interviews, soonest first
func (s *InterviewService) GetUpcoming(ctx context.Context, limit int) ([]interview.WithRefs, error) {
	if limit < 1 {
		limit = defaultUpcomingLimit
	}
	return s.repo.Upcoming(ctx, limit)
}

func (s *InterviewService) sendScheduledMail(ctx context.Context, iv *interview.Interview, cand *candidate.Candidate) {
	data := emailData{
		CandidateName: cand.GetFullName(),
		Position:      cand.Position.String(),
		Date:          formatEmailDate(iv.InterviewDate),
		InterviewType: iv.InterviewType.String(),
		Interviewers:  formatInterviewers(iv.Interviewers),
		MeetingLink:   iv.MeetingLink,
	}
	body := renderEmail(scheduledTemplate, data, nil)
	subject := subjectFor("Interview Scheduled", cand.GetFullName())

	s.dispatch(mailx.Message{
		To:          []string{cand.Email.String()},
		Subject:     subject,
		HTMLBody:    body,
		Attachments: s.logoAttachment(),
	})

	// Interviewer copies carry the CV when one is on file
	recipients := interviewerAddresses(iv.Interviewers)
	if len(recipients) == 0 {
		return
	}

	attachments := s.logoAttachment()
	if cv := s.cvAttachment(ctx, cand); cv != nil {
		attachments = append(attachments, *cv)
	}
	s.dispatch(mailx.Message{
		To:          recipients,
		Subject:     subject,
		HTMLBody:    body,
		Attachments: attachments,
	})
}

func (s *InterviewService) sendOutcomeMail(iv *interview.Interview, cand *candidate.Candidate, outcome interview.Outcome) {
	data := emailData{
		CandidateName: cand.GetFullName(),
		Position:      cand.Position.String(),
	}

	var subject, body string
	switch outcome {
	case interview.OutcomePassed:
		subject = subjectFor("Congratulations! You've Been Hired", cand.GetFullName())
		body = renderEmail(hiredTemplate, data, overallRating(iv))
	case interview.OutcomeRecommendedNextRound:
		subject = subjectFor("Next Round Interview", cand.GetFullName())
		body = renderEmail(nextRoundTemplate, data, overallRating(iv))
	case interview.OutcomeFailed:
		subject = subjectFor("Interview Update", cand.GetFullName())
		body = renderEmail(rejectedTemplate, data, overallRating(iv))
	default:
		subject = subjectFor("Interview Completed", cand.GetFullName())
		body = renderEmail(underReviewTemplate, data, overallRating(iv))
	}

	s.dispatch(mailx.Message{
		To:          []string{cand.Email.String()},
		Subject:     subject,
		HTMLBody:    body,
		Attachments: s.logoAttachment(),
	})
}

// cvAttachment resolves the candidate's CV to a mail attachment, or nil
// when there is no CV or the store cannot provide a local path.
func (s *InterviewService) cvAttachment(ctx context.Context, cand *candidate.Candidate) *mailx.Attachment {
	if !cand.HasCV() {
		return nil
	}

	resolver, ok := s.files.(pathResolver)
	if !ok {
		logx.Debugf("file store cannot resolve local paths, skipping CV attachment for %s", cand.ID.String())
		return nil
	}

	exists, err := s.files.Exists(ctx, *cand.CVPath)
	if err != nil || !exists {
		logx.Warnf("CV missing for candidate %s at %s", cand.ID.String(), *cand.CVPath)
		return nil
	}

	return &mailx.Attachment{
		Filename: fmt.Sprintf("CV_%s_%s.pdf", cand.FirstName, cand.LastName),
		Path:     resolver.AbsolutePath(*cand.CVPath),
	}
}

func (s *InterviewService) dispatch(msg mailx.Message) {
	if s.mail == nil {
		return
	}
	s.mail.Dispatch(msg)
}

func interviewerAddresses(interviewers []string) []string {
	out := []string{}
	for _, entry := range interviewers {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "@") {
			out = append(out, entry)
		}
	}
	return out
}

func overallRating(iv *interview.Interview) *int {
	if iv.Feedback == nil {
		return nil
	}
	return iv.Feedback.OverallRating
}
