package interviewsrv

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/pkg/mailx"
)

// Every message carries the company logo as an inline embed; the HTML
// references it as cid:companylogo.
const logoCID = "companylogo"

const emailDateFormat = "Monday, 02 Jan 2006 15:04"

var emailWrapper = template.Must(template.New("wrapper").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="text-align: center; margin-bottom: 20px;">
    <img src="cid:companylogo" alt="Company Logo" style="max-width:150px;" />
  </div>
  {{.Body}}
  <p>Best regards,<br>HR Team</p>
</div>`))

var scheduledTemplate = template.Must(template.New("scheduled").Parse(`<h2 style="color: #0d9488;">Interview Scheduled</h2>
<p>Dear {{.CandidateName}},</p>
<p>Your interview has been scheduled with the following details:</p>
<div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Position:</strong> {{.Position}}</p>
  <p><strong>Date &amp; Time:</strong> {{.Date}}</p>
  <p><strong>Interview Type:</strong> {{.InterviewType}}</p>
  <p><strong>Interviewers:</strong> {{.Interviewers}}</p>
  {{if .MeetingLink}}<p><strong>Meeting Link:</strong> <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}
</div>
<p>Please make sure to be available at the scheduled time.</p>`))

var hiredTemplate = template.Must(template.New("hired").Parse(`<h2 style="color: #059669;">Congratulations! You're Hired 🎉</h2>
<p>Dear {{.CandidateName}},</p>
<p>You have successfully passed the interview process!</p>
<div style="background-color: #d1fae5; padding: 20px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Position:</strong> {{.Position}}</p>
  <p><strong>Status:</strong> Hired</p>
</div>
<p>Our HR team will contact you shortly with the formal offer letter and next steps.</p>`))

var nextRoundTemplate = template.Must(template.New("nextround").Parse(`<h2 style="color: #0d9488;">Next Round Interview</h2>
<p>Dear {{.CandidateName}},</p>
<p>You have been recommended for the next round of interviews.</p>
<div style="background-color: #e0f2fe; padding: 20px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Status:</strong> Recommended for Next Round</p>
</div>
<p>Our team will contact you soon to schedule the next interview.</p>`))

var rejectedTemplate = template.Must(template.New("rejected").Parse(`<h2 style="color: #dc2626;">Interview Update</h2>
<p>Dear {{.CandidateName}},</p>
<p>After careful consideration, we regret to inform you that your application was not successful.</p>
<div style="background-color: #fee2e2; padding: 20px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Status:</strong> Rejected</p>
</div>
<p>We appreciate your interest in our company.</p>`))

var underReviewTemplate = template.Must(template.New("underreview").Parse(`<h2 style="color: #0d9488;">Interview Completed</h2>
<p>Dear {{.CandidateName}},</p>
<p>Your interview has been completed and is under review.</p>
<div style="background-color: #f3f4f6; padding: 20px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Status:</strong> Under Review</p>
</div>
<p>We will contact you soon with the final decision.</p>`))

var cancelledTemplate = template.Must(template.New("cancelled").Parse(`<h2 style="color: #dc2626;">Interview Cancelled</h2>
<p>Dear {{.CandidateName}},</p>
<p>Your interview has been cancelled.</p>
<div style="background-color: #fee2e2; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Original Date:</strong> {{.Date}}</p>
  <p><strong>Position:</strong> {{.Position}}</p>
</div>`))

var rescheduledTemplate = template.Must(template.New("rescheduled").Parse(`<h2 style="color: #0d9488;">Interview Rescheduled</h2>
<p>Dear {{.CandidateName}},</p>
<p>Your interview has been rescheduled:</p>
<div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Previous Date:</strong> {{.PreviousDate}}</p>
  <p><strong>New Date:</strong> {{.Date}}</p>
  <p><strong>Position:</strong> {{.Position}}</p>
  {{if .MeetingLink}}<p><strong>Meeting Link:</strong> <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}
</div>`))

var deletedTemplate = template.Must(template.New("deleted").Parse(`<h2 style="color: #dc2626;">Interview Deleted</h2>
<p>Dear {{.CandidateName}},</p>
<p>Your scheduled interview has been deleted from our system.</p>
<div style="background-color: #fee2e2; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Position:</strong> {{.Position}}</p>
  <p><strong>Scheduled Date:</strong> {{.Date}}</p>
</div>
<p>If you believe this is an error, please contact HR.</p>`))

var gradeTemplate = template.Must(template.New("grade").Parse(`<div style="background-color: #fef9c3; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p><strong>Overall Grade:</strong> {{.Grade}} / 5</p>
</div>`))

type emailData struct {
	CandidateName string
	Position      string
	Date          string
	PreviousDate  string
	InterviewType string
	Interviewers  string
	MeetingLink   string
}

func renderEmail(body *template.Template, data emailData, overallRating *int) string {
	var inner bytes.Buffer
	if err := body.Execute(&inner, data); err != nil {
		logx.Errorf("failed to render email template %s: %v", body.Name(), err)
		return ""
	}

	if overallRating != nil {
		var grade bytes.Buffer
		if err := gradeTemplate.Execute(&grade, struct{ Grade int }{*overallRating}); err == nil {
			inner.Write(grade.Bytes())
		}
	}

	var out bytes.Buffer
	if err := emailWrapper.Execute(&out, struct{ Body template.HTML }{template.HTML(inner.String())}); err != nil {
		logx.Errorf("failed to render email wrapper: %v", err)
		return ""
	}
	return out.String()
}

func formatEmailDate(t time.Time) string {
	return t.Format(emailDateFormat)
}

func formatInterviewers(names []string) string {
	return strings.Join(names, ", ")
}

// logoAttachment returns the inline logo embed, or nil when no logo is
// configured.
func (s *InterviewService) logoAttachment() []mailx.Attachment {
	if s.logoPath == "" {
		return nil
	}
	return []mailx.Attachment{{
		Filename: "company-logo.jpg",
		Path:     s.logoPath,
		CID:      logoCID,
	}}
}

func subjectFor(kind, candidateName string) string {
	return fmt.Sprintf("%s - %s", kind, candidateName)
}
