package interview

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/tracking/candidate"
)

// Status represents the lifecycle state of an interview
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Type is the kind of interview being held
type Type string

const (
	TypeBehavioral Type = "behavioral"
	TypeTechnical  Type = "technical"
	TypeHR         Type = "hr"
	TypeCultural   Type = "cultural"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeBehavioral, TypeTechnical, TypeHR, TypeCultural:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Outcome is the interviewer's verdict recorded with feedback
type Outcome string

const (
	OutcomePassed               Outcome = "passed"
	OutcomeFailed               Outcome = "failed"
	OutcomePending              Outcome = "pending"
	OutcomeRecommendedNextRound Outcome = "recommended-next-round"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePassed, OutcomeFailed, OutcomePending, OutcomeRecommendedNextRound:
		return true
	}
	return false
}

// CandidateStatus maps an outcome to the candidate status it triggers and,
// for failures, the rejection reason that gets stamped.
func (o Outcome) CandidateStatus() (candidate.Status, string) {
	switch o {
	case OutcomePassed:
		return candidate.StatusHired, ""
	case OutcomeFailed:
		return candidate.StatusRejected, "Failed interview"
	case OutcomeRecommendedNextRound:
		return candidate.StatusInterviewed, ""
	default:
		return candidate.StatusInterviewed, ""
	}
}

// Feedback is the structured evaluation attached when an interview
// completes. Ratings run 1 to 5.
type Feedback struct {
	TechnicalSkills *int       `json:"technical_skills,omitempty"`
	Communication   *int       `json:"communication,omitempty"`
	ProblemSolving  *int       `json:"problem_solving,omitempty"`
	CulturalFit     *int       `json:"cultural_fit,omitempty"`
	OverallRating   *int       `json:"overall_rating,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Outcome         Outcome    `json:"outcome,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
}

// Value marshals feedback into the jsonb column
func (f Feedback) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan unmarshals feedback from the jsonb column
func (f *Feedback) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported feedback scan type %T", src)
	}
}

type Interview struct {
	ID            kernel.InterviewID `db:"id" json:"id"`
	CandidateID   kernel.CandidateID `db:"candidate_id" json:"candidate_id"`
	ScheduledBy   kernel.UserID      `db:"scheduled_by" json:"scheduled_by"`
	InterviewDate time.Time          `db:"interview_date" json:"interview_date"`
	InterviewType Type               `db:"interview_type" json:"interview_type"`
	Interviewers  pq.StringArray     `db:"interviewers" json:"interviewers"`
	MeetingLink   string             `db:"meeting_link" json:"meeting_link,omitempty"`
	Status        Status             `db:"status" json:"status"`
	Feedback      *Feedback          `db:"feedback" json:"feedback,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

func New(candidateID kernel.CandidateID, scheduledBy kernel.UserID, date time.Time, interviewType Type, interviewers []string, meetingLink string) *Interview {
	now := time.Now()
	return &Interview{
		ID:            kernel.NewInterviewID(uuid.NewString()),
		CandidateID:   candidateID,
		ScheduledBy:   scheduledBy,
		InterviewDate: date,
		InterviewType: interviewType,
		Interviewers:  interviewers,
		MeetingLink:   meetingLink,
		Status:        StatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (i *Interview) HasFeedback() bool {
	return i.Feedback != nil
}

// Complete moves the interview to completed, merging the submitted feedback
// over whatever was already recorded and stamping SubmittedAt.
func (i *Interview) Complete(fb *Feedback, outcome Outcome) {
	now := time.Now()

	merged := Feedback{}
	if i.Feedback != nil {
		merged = *i.Feedback
	}
	if fb != nil {
		if fb.TechnicalSkills != nil {
			merged.TechnicalSkills = fb.TechnicalSkills
		}
		if fb.Communication != nil {
			merged.Communication = fb.Communication
		}
		if fb.ProblemSolving != nil {
			merged.ProblemSolving = fb.ProblemSolving
		}
		if fb.CulturalFit != nil {
			merged.CulturalFit = fb.CulturalFit
		}
		if fb.OverallRating != nil {
			merged.OverallRating = fb.OverallRating
		}
		if fb.Notes != "" {
			merged.Notes = fb.Notes
		}
		merged.SubmittedAt = &now
	}
	if outcome != "" {
		merged.Outcome = outcome
	}

	i.Status = StatusCompleted
	i.Feedback = &merged
	i.UpdatedAt = now
}

func (i *Interview) Cancel() {
	i.Status = StatusCancelled
	i.UpdatedAt = time.Now()
}

// Reschedule updates date and link when provided and puts the interview
// back to scheduled.
func (i *Interview) Reschedule(date *time.Time, meetingLink string) {
	if date != nil {
		i.InterviewDate = *date
	}
	if meetingLink != "" {
		i.MeetingLink = meetingLink
	}
	i.Status = StatusScheduled
	i.UpdatedAt = time.Now()
}

// MarkNoShow records that the candidate did not attend. Only scheduled
// interviews qualify.
func (i *Interview) MarkNoShow() error {
	if i.Status != StatusScheduled {
		return ErrNotScheduled()
	}
	i.Status = StatusNoShow
	i.UpdatedAt = time.Now()
	return nil
}
