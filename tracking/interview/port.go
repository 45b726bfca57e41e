package interview

import (
	"context"
	"time"

	"github.com/talentgrid/ctms/pkg/kernel"
)

// Repository defines the persistence operations for interviews
type Repository interface {
	Save(ctx context.Context, i *Interview) error
	Update(ctx context.Context, i *Interview) error
	FindByID(ctx context.Context, id kernel.InterviewID) (*Interview, error)
	FindByIDWithRefs(ctx context.Context, id kernel.InterviewID) (*WithRefs, error)
	Delete(ctx context.Context, id kernel.InterviewID) error

	List(ctx context.Context, filters ListFilters, pagination kernel.PaginationOptions) ([]WithRefs, int, error)
	// Upcoming returns scheduled interviews from now on, soonest first.
	Upcoming(ctx context.Context, limit int) ([]WithRefs, error)
	// ListBetween returns interviews whose date falls in [from, to],
	// optionally filtered by type, newest first.
	ListBetween(ctx context.Context, from, to time.Time, interviewType string) ([]WithRefs, error)

	Count(ctx context.Context) (int, error)
	CountBetween(ctx context.Context, from, to time.Time) (int, error)
	CountOnDay(ctx context.Context, day time.Time) (int, error)
	CountUpcoming(ctx context.Context) (int, error)
}
