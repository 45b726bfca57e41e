package candidate

import (
	"context"
	"time"

	"github.com/talentgrid/ctms/pkg/kernel"
)

// Repository defines the persistence operations for candidates
type Repository interface {
	Save(ctx context.Context, c *Candidate) error
	Update(ctx context.Context, c *Candidate) error
	FindByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)
	// FindByEmail matches case-insensitively; emails are stored lowercased
	// but lookups must not depend on caller casing.
	FindByEmail(ctx context.Context, email kernel.Email) (*Candidate, error)
	// FindByEmailOrPhone backs quick scan; either argument may be empty.
	FindByEmailOrPhone(ctx context.Context, email kernel.Email, phone kernel.Phone) (*Candidate, error)
	Delete(ctx context.Context, id kernel.CandidateID) error

	List(ctx context.Context, filters ListFilters, pagination kernel.PaginationOptions) ([]Candidate, int, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time, status string) ([]Candidate, error)
	ListForExport(ctx context.Context, status string) ([]ExportRow, error)

	BulkUpdateStatus(ctx context.Context, ids []kernel.CandidateID, status Status, reason string, by kernel.UserID) (int, error)

	StatusCounts(ctx context.Context) (map[Status]int, error)
	SourceCounts(ctx context.Context) (map[string]int, error)
	PositionCounts(ctx context.Context) (map[string]int, error)
	MonthlyTrend(ctx context.Context, months int) ([]MonthCount, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

// InterviewReader is the slice of interview data the candidate side needs:
// the delete guard and the detail view's history. Implemented by the
// interview persistence adapter.
type InterviewReader interface {
	CountByCandidate(ctx context.Context, id kernel.CandidateID) (int, error)
	HistoryByCandidate(ctx context.Context, id kernel.CandidateID) ([]InterviewSummary, error)
}
