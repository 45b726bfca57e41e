package candidate

import (
	"encoding/json"
	"strings"
	"time"
)

// SkillList accepts either a JSON array of strings or a single
// comma-separated string, which is what intake forms send.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*s = nil
		return nil
	}
	*s = []string{raw}
	return nil
}

// UserRef is the populated subset of a user referenced by a candidate
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateCandidateRequest struct {
	FirstName      string    `json:"first_name" validate:"required"`
	LastName       string    `json:"last_name" validate:"required"`
	Email          string    `json:"email" validate:"required"`
	Phone          string    `json:"phone"`
	Position       string    `json:"position" validate:"required"`
	Source         string    `json:"source"`
	Skills         SkillList `json:"skills"`
	Experience     int       `json:"experience"`
	CurrentCompany string    `json:"current_company"`
	ExpectedSalary string    `json:"expected_salary"`
	NoticePeriod   string    `json:"notice_period"`
	Notes          string    `json:"notes"`
}

type UpdateCandidateRequest struct {
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Position       *string   `json:"position"`
	Source         *string   `json:"source"`
	Skills         SkillList `json:"skills"`
	Experience     *int      `json:"experience"`
	CurrentCompany *string   `json:"current_company"`
	ExpectedSalary *string   `json:"expected_salary"`
	NoticePeriod   *string   `json:"notice_period"`
	Notes          *string   `json:"notes"`
}

type UpdateStatusRequest struct {
	Status            string `json:"status" validate:"required"`
	RejectionReason   string `json:"rejection_reason"`
	TerminationReason string `json:"termination_reason"`
	Notes             string `json:"notes"`
}

type BulkUpdateStatusRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
	Status       string   `json:"status" validate:"required"`
	Reason       string   `json:"reason"`
}

type ListFilters struct {
	Status        string
	Position      string
	Source        string
	Search        string
	ExperienceMin *int
	ExperienceMax *int
	SortBy        string
	SortOrder     string
}

// CandidateResponse is a candidate with its user references populated
type CandidateResponse struct {
	Candidate
	AddedByUser       *UserRef `json:"added_by_user,omitempty"`
	LastUpdatedByUser *UserRef `json:"last_updated_by_user,omitempty"`
}

type ListCandidatesResponse struct {
	Candidates  []CandidateResponse `json:"candidates"`
	TotalPages  int                 `json:"total_pages"`
	CurrentPage int                 `json:"current_page"`
	Total       int                 `json:"total"`
	Stats       map[Status]int      `json:"stats"`
}

// InterviewSummary is the slice of an interview shown in candidate detail
type InterviewSummary struct {
	ID            string    `json:"id"`
	InterviewDate time.Time `json:"interview_date"`
	InterviewType string    `json:"interview_type"`
	Status        string    `json:"status"`
	Interviewers  []string  `json:"interviewers"`
	MeetingLink   string    `json:"meeting_link,omitempty"`
	Outcome       *string   `json:"outcome,omitempty"`
	ScheduledBy   *UserRef  `json:"scheduled_by,omitempty"`
}

type CandidateDetailResponse struct {
	Candidate      CandidateResponse  `json:"candidate"`
	Interviews     []InterviewSummary `json:"interviews"`
	InterviewCount int                `json:"interview_count"`
}

type QuickScanSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Status            Status    `json:"status"`
	Position          string    `json:"position"`
	Experience        int       `json:"experience"`
	CurrentCompany    string    `json:"current_company"`
	RejectionReason   *string   `json:"rejection_reason,omitempty"`
	TerminationReason *string   `json:"termination_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type QuickScanResponse struct {
	Exists    bool              `json:"exists"`
	Candidate *QuickScanSummary `json:"candidate,omitempty"`
}

type DeletedCandidateResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BulkUpdateResponse struct {
	ModifiedCount int `json:"modified_count"`
}

type MonthCount struct {
	Year  int `json:"year" db:"year"`
	Month int `json:"month" db:"month"`
	Count int `json:"count" db:"count"`
}

type AnalyticsResponse struct {
	StatusDistribution   map[string]int `json:"status_distribution"`
	SourceDistribution   map[string]int `json:"source_distribution"`
	PositionDistribution map[string]int `json:"position_distribution"`
	MonthlyTrend         []MonthCount   `json:"monthly_trend"`
}

// ExportRow is the flattened projection behind CSV export, addedBy already
// resolved to a display name.
type ExportRow struct {
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	Position       string    `db:"position"`
	Status         string    `db:"status"`
	Source         string    `db:"source"`
	Experience     int       `db:"experience"`
	CurrentCompany string    `db:"current_company"`
	ExpectedSalary string    `db:"expected_salary"`
	NoticePeriod   string    `db:"notice_period"`
	Skills         string    `db:"skills"`
	AddedBy        string    `db:"added_by"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ToQuickScanSummary builds the scan projection of a candidate
func ToQuickScanSummary(c *Candidate) *QuickScanSummary {
	return &QuickScanSummary{
		ID:                c.ID.String(),
		Name:              c.GetFullName(),
		Email:             c.Email.String(),
		Phone:             c.Phone.String(),
		Status:            c.Status,
		Position:          c.Position.String(),
		Experience:        c.Experience,
		CurrentCompany:    c.CurrentCompany,
		RejectionReason:   c.RejectionReason,
		TerminationReason: c.TerminationReason,
		CreatedAt:         c.CreatedAt,
	}
}

// DuplicateDetails is the existing-record summary attached to a duplicate
// intake error.
func DuplicateDetails(c *Candidate) map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID.String(),
		"name":       c.GetFullName(),
		"status":     string(c.Status),
		"position":   c.Position.String(),
		"created_at": c.CreatedAt,
	}
}
