package interview

import (
	"time"
)

// CandidateRef is the populated candidate subset shown with an interview
type CandidateRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
}

// UserRef is the populated scheduler subset
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WithRefs is an interview with its references populated
type WithRefs struct {
	Interview
	Candidate       *CandidateRef `json:"candidate,omitempty"`
	ScheduledByUser *UserRef      `json:"scheduled_by_user,omitempty"`
}

type ScheduleInterviewRequest struct {
	CandidateID   string    `json:"candidate_id" validate:"required"`
	InterviewDate time.Time `json:"interview_date" validate:"required"`
	InterviewType string    `json:"interview_type" validate:"required"`
	Interviewers  []string  `json:"interviewers"`
	MeetingLink   string    `json:"meeting_link"`
}

// FeedbackInput mirrors the feedback block; all ratings optional
type FeedbackInput struct {
	TechnicalSkills *int   `json:"technical_skills" validate:"omitempty,min=1,max=5"`
	Communication   *int   `json:"communication" validate:"omitempty,min=1,max=5"`
	ProblemSolving  *int   `json:"problem_solving" validate:"omitempty,min=1,max=5"`
	CulturalFit     *int   `json:"cultural_fit" validate:"omitempty,min=1,max=5"`
	OverallRating   *int   `json:"overall_rating" validate:"omitempty,min=1,max=5"`
	Notes           string `json:"notes"`
}

type SubmitFeedbackRequest struct {
	Feedback *FeedbackInput `json:"feedback"`
	Outcome  string         `json:"outcome"`
}

type RescheduleRequest struct {
	InterviewDate *time.Time `json:"interview_date"`
	MeetingLink   *string    `json:"meeting_link"`
}

type ListFilters struct {
	Status string
	// Date filters to interviews on that calendar day
	Date *time.Time
}

type ListInterviewsResponse struct {
	Interviews  []WithRefs `json:"interviews"`
	TotalPages  int        `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
	Total       int        `json:"total"`
}

// ToFeedback converts the request block into the domain feedback shape
func (f *FeedbackInput) ToFeedback() *Feedback {
	if f == nil {
		return nil
	}
	return &Feedback{
		TechnicalSkills: f.TechnicalSkills,
		Communication:   f.Communication,
		ProblemSolving:  f.ProblemSolving,
		CulturalFit:     f.CulturalFit,
		OverallRating:   f.OverallRating,
		Notes:           f.Notes,
	}
}
