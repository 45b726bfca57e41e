package interviewinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/tracking/candidate"
	"github.com/talentgrid/ctms/tracking/interview"
)

// PostgresInterviewRepository implements interview.Repository and the
// candidate side's InterviewReader.
type PostgresInterviewRepository struct {
	db *sqlx.DB
}

func NewPostgresInterviewRepository(db *sqlx.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

const interviewColumns = `
	id, candidate_id, scheduled_by, interview_date, interview_type,
	interviewers, meeting_link, status, feedback, created_at, updated_at`

const refsQuery = `
	SELECT
		i.id, i.candidate_id, i.scheduled_by, i.interview_date, i.interview_type,
		i.interviewers, i.meeting_link, i.status, i.feedback, i.created_at, i.updated_at,
		c.first_name AS candidate_first_name,
		c.last_name AS candidate_last_name,
		c.email AS candidate_email,
		c.phone AS candidate_phone,
		c.position AS candidate_position,
		u.first_name AS scheduler_first_name,
		u.last_name AS scheduler_last_name,
		u.email AS scheduler_email
	FROM interviews i
	LEFT JOIN candidates c ON c.id = i.candidate_id
	LEFT JOIN users u ON u.id = i.scheduled_by`

type refsRow struct {
	interview.Interview
	CandidateFirstName *string `db:"candidate_first_name"`
	CandidateLastName  *string `db:"candidate_last_name"`
	CandidateEmail     *string `db:"candidate_email"`
	CandidatePhone     *string `db:"candidate_phone"`
	CandidatePosition  *string `db:"candidate_position"`
	SchedulerFirstName *string `db:"scheduler_first_name"`
	SchedulerLastName  *string `db:"scheduler_last_name"`
	SchedulerEmail     *string `db:"scheduler_email"`
}

func (r refsRow) toWithRefs() interview.WithRefs {
	out := interview.WithRefs{Interview: r.Interview}
	if r.CandidateFirstName != nil {
		out.Candidate = &interview.CandidateRef{
			ID:        r.CandidateID.String(),
			FirstName: *r.CandidateFirstName,
			LastName:  deref(r.CandidateLastName),
			Email:     deref(r.CandidateEmail),
			Phone:     deref(r.CandidatePhone),
			Position:  deref(r.CandidatePosition),
		}
	}
	if r.SchedulerFirstName != nil {
		out.ScheduledByUser = &interview.UserRef{
			ID:    r.ScheduledBy.String(),
			Name:  strings.TrimSpace(deref(r.SchedulerFirstName) + " " + deref(r.SchedulerLastName)),
			Email: deref(r.SchedulerEmail),
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Save creates a new interview
func (r *PostgresInterviewRepository) Save(ctx context.Context, i *interview.Interview) error {
	query := `
		INSERT INTO interviews (
			id, candidate_id, scheduled_by, interview_date, interview_type,
			interviewers, meeting_link, status, feedback, created_at, updated_at
		) VALUES (
			:id, :candidate_id, :scheduled_by, :interview_date, :interview_type,
			:interviewers, :meeting_link, :status, :feedback, :created_at, :updated_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, i)
	return err
}

// Update updates an existing interview
func (r *PostgresInterviewRepository) Update(ctx context.Context, i *interview.Interview) error {
	query := `
		UPDATE interviews
		SET
			interview_date = :interview_date,
			interview_type = :interview_type,
			interviewers = :interviewers,
			meeting_link = :meeting_link,
			status = :status,
			feedback = :feedback,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, i)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return interview.ErrInterviewNotFound()
	}
	return nil
}

// FindByID retrieves an interview by ID
func (r *PostgresInterviewRepository) FindByID(ctx context.Context, id kernel.InterviewID) (*interview.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE id = $1`, interviewColumns)

	var i interview.Interview
	err := r.db.GetContext(ctx, &i, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interview.ErrInterviewNotFound()
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// FindByIDWithRefs retrieves an interview with candidate and scheduler
// populated
func (r *PostgresInterviewRepository) FindByIDWithRefs(ctx context.Context, id kernel.InterviewID) (*interview.WithRefs, error) {
	var row refsRow
	err := r.db.GetContext(ctx, &row, refsQuery+` WHERE i.id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interview.ErrInterviewNotFound()
	}
	if err != nil {
		return nil, err
	}
	out := row.toWithRefs()
	return &out, nil
}

// Delete deletes an interview by ID
func (r *PostgresInterviewRepository) Delete(ctx context.Context, id kernel.InterviewID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM interviews WHERE id = $1`, id.String())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return interview.ErrInterviewNotFound()
	}
	return nil
}

// List retrieves interviews with filters and pagination, newest first
func (r *PostgresInterviewRepository) List(ctx context.Context, filters interview.ListFilters, pagination kernel.PaginationOptions) ([]interview.WithRefs, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	argCount := 1

	if filters.Status != "" && filters.Status != "all" {
		whereClauses = append(whereClauses, fmt.Sprintf(`i.status = $%d`, argCount))
		args = append(args, filters.Status)
		argCount++
	}

	if filters.Date != nil {
		dayStart := filters.Date.Truncate(24 * time.Hour)
		whereClauses = append(whereClauses, fmt.Sprintf(`i.interview_date >= $%d AND i.interview_date < $%d`, argCount, argCount+1))
		args = append(args, dayStart, dayStart.AddDate(0, 0, 1))
		argCount += 2
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM interviews i %s`, whereSQL)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s %s ORDER BY i.interview_date DESC LIMIT $%d OFFSET $%d`,
		refsQuery, whereSQL, argCount, argCount+1)
	args = append(args, pagination.PageSize, pagination.Offset())

	rows := []refsRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	out := make([]interview.WithRefs, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toWithRefs())
	}
	return out, total, nil
}

// Upcoming retrieves scheduled interviews from now on, soonest first
func (r *PostgresInterviewRepository) Upcoming(ctx context.Context, limit int) ([]interview.WithRefs, error) {
	query := refsQuery + ` WHERE i.status = 'scheduled' AND i.interview_date >= NOW()
		ORDER BY i.interview_date ASC LIMIT $1`

	rows := []refsRow{}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	out := make([]interview.WithRefs, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toWithRefs())
	}
	return out, nil
}

// ListBetween retrieves interviews dated in [from, to], optionally filtered
// by type, newest first
func (r *PostgresInterviewRepository) ListBetween(ctx context.Context, from, to time.Time, interviewType string) ([]interview.WithRefs, error) {
	args := []interface{}{from, to}
	typeSQL := ""
	if interviewType != "" && interviewType != "all" {
		typeSQL = "AND i.interview_type = $3"
		args = append(args, interviewType)
	}

	query := fmt.Sprintf(`%s WHERE i.interview_date >= $1 AND i.interview_date <= $2 %s
		ORDER BY i.interview_date DESC`, refsQuery, typeSQL)

	rows := []refsRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]interview.WithRefs, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toWithRefs())
	}
	return out, nil
}

// Count counts all interviews
func (r *PostgresInterviewRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM interviews`)
	return count, err
}

// CountBetween counts interviews created in [from, to]
func (r *PostgresInterviewRepository) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM interviews WHERE created_at >= $1 AND created_at <= $2`, from, to)
	return count, err
}

// CountOnDay counts interviews dated on the given calendar day
func (r *PostgresInterviewRepository) CountOnDay(ctx context.Context, day time.Time) (int, error) {
	dayStart := day.Truncate(24 * time.Hour)
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM interviews WHERE interview_date >= $1 AND interview_date < $2`,
		dayStart, dayStart.AddDate(0, 0, 1))
	return count, err
}

// CountUpcoming counts scheduled interviews from now on
func (r *PostgresInterviewRepository) CountUpcoming(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM interviews WHERE status = 'scheduled' AND interview_date >= NOW()`)
	return count, err
}

// CountByCandidate counts all interviews attached to a candidate
func (r *PostgresInterviewRepository) CountByCandidate(ctx context.Context, id kernel.CandidateID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM interviews WHERE candidate_id = $1`, id.String())
	return count, err
}

// HistoryByCandidate returns the candidate detail view's interview history,
// newest first
func (r *PostgresInterviewRepository) HistoryByCandidate(ctx context.Context, id kernel.CandidateID) ([]candidate.InterviewSummary, error) {
	query := `
		SELECT
			i.id, i.interview_date, i.interview_type, i.interviewers,
			i.meeting_link, i.status, i.feedback,
			u.id AS scheduler_id,
			u.first_name AS scheduler_first_name,
			u.last_name AS scheduler_last_name,
			u.email AS scheduler_email
		FROM interviews i
		LEFT JOIN users u ON u.id = i.scheduled_by
		WHERE i.candidate_id = $1
		ORDER BY i.interview_date DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []candidate.InterviewSummary{}
	for rows.Next() {
		var (
			entry        candidate.InterviewSummary
			interviewers pq.StringArray
			feedback     interview.Feedback
			fbRaw        []byte
			schedulerID  sql.NullString
			firstName    sql.NullString
			lastName     sql.NullString
			email        sql.NullString
		)
		err := rows.Scan(
			&entry.ID,
			&entry.InterviewDate,
			&entry.InterviewType,
			&interviewers,
			&entry.MeetingLink,
			&entry.Status,
			&fbRaw,
			&schedulerID,
			&firstName,
			&lastName,
			&email,
		)
		if err != nil {
			return nil, err
		}

		entry.Interviewers = interviewers
		if len(fbRaw) > 0 {
			if err := feedback.Scan(fbRaw); err == nil && feedback.Outcome != "" {
				outcome := string(feedback.Outcome)
				entry.Outcome = &outcome
			}
		}
		if schedulerID.Valid {
			entry.ScheduledBy = &candidate.UserRef{
				ID:    schedulerID.String,
				Name:  strings.TrimSpace(firstName.String + " " + lastName.String),
				Email: email.String,
			}
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}
