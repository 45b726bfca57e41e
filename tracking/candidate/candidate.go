package candidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/talentgrid/ctms/pkg/kernel"
)

// Status represents where a candidate sits in the pipeline
type Status string

const (
	StatusNew         Status = "new"         // Just added, not yet scheduled
	StatusScheduled   Status = "scheduled"   // Has an upcoming interview
	StatusInterviewed Status = "interviewed" // Interviewed, decision pending
	StatusHired       Status = "hired"
	StatusRejected    Status = "rejected"
	StatusTerminated  Status = "terminated" // Hired, then let go
	StatusCancelled   Status = "cancelled"  // Interview process cancelled
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusScheduled, StatusInterviewed, StatusHired,
		StatusRejected, StatusTerminated, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

type Candidate struct {
	ID                kernel.CandidateID `db:"id" json:"id"`
	FirstName         kernel.FirstName   `db:"first_name" json:"first_name"`
	LastName          kernel.LastName    `db:"last_name" json:"last_name"`
	Email             kernel.Email       `db:"email" json:"email"`
	Phone             kernel.Phone       `db:"phone" json:"phone"`
	Position          kernel.Position    `db:"position" json:"position"`
	Source            string             `db:"source" json:"source"`
	Skills            pq.StringArray     `db:"skills" json:"skills"`
	Experience        int                `db:"experience" json:"experience"`
	CurrentCompany    string             `db:"current_company" json:"current_company"`
	ExpectedSalary    string             `db:"expected_salary" json:"expected_salary"`
	NoticePeriod      string             `db:"notice_period" json:"notice_period"`
	Notes             string             `db:"notes" json:"notes"`
	Status            Status             `db:"status" json:"status"`
	RejectionReason   *string            `db:"rejection_reason" json:"rejection_reason,omitempty"`
	RejectionDate     *time.Time         `db:"rejection_date" json:"rejection_date,omitempty"`
	TerminationReason *string            `db:"termination_reason" json:"termination_reason,omitempty"`
	TerminationDate   *time.Time         `db:"termination_date" json:"termination_date,omitempty"`
	CVPath            *string            `db:"cv_path" json:"cv_path,omitempty"`
	AddedBy           kernel.UserID      `db:"added_by" json:"added_by"`
	LastUpdatedBy     kernel.UserID      `db:"last_updated_by" json:"last_updated_by"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

func New(firstName, lastName string, email kernel.Email, addedBy kernel.UserID) *Candidate {
	now := time.Now()
	return &Candidate{
		ID:            kernel.NewCandidateID(uuid.NewString()),
		FirstName:     kernel.FirstName(firstName),
		LastName:      kernel.LastName(lastName),
		Email:         email,
		Skills:        pq.StringArray{},
		Status:        StatusNew,
		AddedBy:       addedBy,
		LastUpdatedBy: addedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// GetFullName returns the candidate's full name
func (c *Candidate) GetFullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

func (c *Candidate) HasCV() bool {
	return c.CVPath != nil && *c.CVPath != ""
}

// ApplyStatus moves the candidate to status, stamping rejection or
// termination metadata when a reason accompanies those statuses and
// appending a timestamped note when one is given.
func (c *Candidate) ApplyStatus(status Status, reason, note string, by kernel.UserID) error {
	if !status.IsValid() {
		return ErrInvalidStatus().WithDetail("status", string(status))
	}

	now := time.Now()
	c.Status = status
	c.LastUpdatedBy = by
	c.UpdatedAt = now

	if status == StatusRejected && reason != "" {
		c.RejectionReason = &reason
		c.RejectionDate = &now
	}
	if status == StatusTerminated && reason != "" {
		c.TerminationReason = &reason
		c.TerminationDate = &now
	}

	if note != "" {
		c.AppendStatusNote(status, note, now)
	}
	return nil
}

// AppendStatusNote accumulates status-change notes, newest last.
func (c *Candidate) AppendStatusNote(status Status, note string, at time.Time) {
	entry := fmt.Sprintf("[%s] Status changed to %s: %s", at.Format("2006-01-02 15:04:05"), status, note)
	if c.Notes == "" {
		c.Notes = entry
		return
	}
	c.Notes = c.Notes + "\n" + entry
}

// NormalizeSkills accepts the two shapes intake allows, a list or a single
// comma-separated string, and returns a trimmed list.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 1 && strings.Contains(skills[0], ",") {
		skills = strings.Split(skills[0], ",")
	}
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
