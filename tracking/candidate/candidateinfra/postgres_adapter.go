package candidateinfra

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
)

type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) candidate.Repository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `
	id, first_name, last_name, email, phone, position, source, skills,
	experience, current_company, expected_salary, notice_period, notes,
	status, rejection_reason, rejection_date, termination_reason,
	termination_date, cv_path, added_by, last_updated_by, created_at, updated_at`

// sortColumns whitelists sortable fields; anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"position":   "position",
	"status":     "status",
	"experience": "experience",
	"source":     "source",
}

// Save creates a new candidate
func (r *PostgresCandidateRepository) Save(ctx context.Context, c *candidate.Candidate) error {
	query := `
		INSERT INTO candidates (
			id, first_name, last_name, email, phone, position, source, skills,
			experience, current_company, expected_salary, notice_period, notes,
			status, rejection_reason, rejection_date, termination_reason,
			termination_date, cv_path, added_by, last_updated_by, created_at, updated_at
		) VALUES (
			:id, :first_name, :last_name, :email, :phone, :position, :source, :skills,
			:experience, :current_company, :expected_salary, :notice_period, :notes,
			:status, :rejection_reason, :rejection_date, :termination_reason,
			:termination_date, :cv_path, :added_by, :last_updated_by, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return candidate.ErrEmailAlreadyExists()
		}
		return err
	}
	return nil
}

// Update updates an existing candidate
func (r *PostgresCandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	query := `
		UPDATE candidates
		SET
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			phone = :phone,
			position = :position,
			source = :source,
			skills = :skills,
			experience = :experience,
			current_company = :current_company,
			expected_salary = :expected_salary,
			notice_period = :notice_period,
			notes = :notes,
			status = :status,
			rejection_reason = :rejection_reason,
			rejection_date = :rejection_date,
			termination_reason = :termination_reason,
			termination_date = :termination_date,
			cv_path = :cv_path,
			last_updated_by = :last_updated_by,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return candidate.ErrEmailAlreadyExists()
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound()
	}
	return nil
}

// FindByID retrieves a candidate by ID
func (r *PostgresCandidateRepository) FindByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = $1`, candidateColumns)

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, candidate.ErrCandidateNotFound()
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByEmail retrieves a candidate by email, case-insensitively
func (r *PostgresCandidateRepository) FindByEmail(ctx context.Context, email kernel.Email) (*candidate.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE LOWER(email) = LOWER($1)`, candidateColumns)

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, email.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, candidate.ErrCandidateNotFound()
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByEmailOrPhone retrieves a candidate matching either field
func (r *PostgresCandidateRepository) FindByEmailOrPhone(ctx context.Context, email kernel.Email, phone kernel.Phone) (*candidate.Candidate, error) {
	whereClauses := []string{}
	args := []interface{}{}
	argCount := 1

	if !email.IsEmpty() {
		whereClauses = append(whereClauses, fmt.Sprintf(`LOWER(email) = LOWER($%d)`, argCount))
		args = append(args, email.String())
		argCount++
	}
	if !phone.IsEmpty() {
		whereClauses = append(whereClauses, fmt.Sprintf(`phone = $%d`, argCount))
		args = append(args, phone.String())
		argCount++
	}
	if len(whereClauses) == 0 {
		return nil, candidate.ErrScanCriteriaRequired()
	}

	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE %s LIMIT 1`,
		candidateColumns, strings.Join(whereClauses, " OR "))

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, candidate.ErrCandidateNotFound()
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete deletes a candidate by ID
func (r *PostgresCandidateRepository) Delete(ctx context.Context, id kernel.CandidateID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id.String())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound()
	}
	return nil
}

func buildFilterClauses(filters candidate.ListFilters) ([]string, []interface{}) {
	whereClauses := []string{}
	args := []interface{}{}
	argCount := 1

	if filters.Status != "" && filters.Status != "all" {
		whereClauses = append(whereClauses, fmt.Sprintf(`status = $%d`, argCount))
		args = append(args, filters.Status)
		argCount++
	}

	if filters.Position != "" && filters.Position != "all" {
		whereClauses = append(whereClauses, fmt.Sprintf(`position ILIKE $%d`, argCount))
		args = append(args, "%"+filters.Position+"%")
		argCount++
	}

	if filters.Source != "" && filters.Source != "all" {
		whereClauses = append(whereClauses, fmt.Sprintf(`source = $%d`, argCount))
		args = append(args, filters.Source)
		argCount++
	}

	if filters.ExperienceMin != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(`experience >= $%d`, argCount))
		args = append(args, *filters.ExperienceMin)
		argCount++
	}

	if filters.ExperienceMax != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(`experience <= $%d`, argCount))
		args = append(args, *filters.ExperienceMax)
		argCount++
	}

	if filters.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(`(
			first_name ILIKE $%d OR
			last_name ILIKE $%d OR
			email ILIKE $%d OR
			position ILIKE $%d OR
			current_company ILIKE $%d OR
			EXISTS (SELECT 1 FROM unnest(skills) skill WHERE skill ILIKE $%d)
		)`, argCount, argCount, argCount, argCount, argCount, argCount))
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	return whereClauses, args
}

// List retrieves candidates with filtering, sorting and pagination
func (r *PostgresCandidateRepository) List(ctx context.Context, filters candidate.ListFilters, pagination kernel.PaginationOptions) ([]candidate.Candidate, int, error) {
	whereClauses, args := buildFilterClauses(filters)

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM candidates %s`, whereSQL)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := sortColumns[filters.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	sortDir := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortDir = "ASC"
	}

	argCount := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM candidates
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, candidateColumns, whereSQL, sortColumn, sortDir, argCount, argCount+1)

	args = append(args, pagination.PageSize, pagination.Offset())

	candidates := []candidate.Candidate{}
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, 0, err
	}

	return candidates, total, nil
}

// ListCreatedBetween retrieves candidates created in [from, to], optionally
// filtered by status
func (r *PostgresCandidateRepository) ListCreatedBetween(ctx context.Context, from, to time.Time, status string) ([]candidate.Candidate, error) {
	args := []interface{}{from, to}
	statusSQL := ""
	if status != "" && status != "all" {
		statusSQL = "AND status = $3"
		args = append(args, status)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM candidates
		WHERE created_at >= $1 AND created_at <= $2 %s
		ORDER BY created_at DESC
	`, candidateColumns, statusSQL)

	candidates := []candidate.Candidate{}
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListForExport retrieves the flattened export projection, addedBy resolved
// to the user's name
func (r *PostgresCandidateRepository) ListForExport(ctx context.Context, status string) ([]candidate.ExportRow, error) {
	args := []interface{}{}
	statusSQL := ""
	if status != "" && status != "all" {
		statusSQL = "WHERE c.status = $1"
		args = append(args, status)
	}

	query := fmt.Sprintf(`
		SELECT
			c.first_name || ' ' || c.last_name AS name,
			c.email,
			c.phone,
			c.position,
			c.status,
			c.source,
			c.experience,
			c.current_company,
			c.expected_salary,
			c.notice_period,
			array_to_string(c.skills, ', ') AS skills,
			COALESCE(u.first_name || ' ' || u.last_name, '') AS added_by,
			c.created_at,
			c.updated_at
		FROM candidates c
		LEFT JOIN users u ON u.id = c.added_by
		%s
		ORDER BY c.created_at DESC
	`, statusSQL)

	rows := []candidate.ExportRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// BulkUpdateStatus updates the status of every listed candidate and returns
// the number of rows touched
func (r *PostgresCandidateRepository) BulkUpdateStatus(ctx context.Context, ids []kernel.CandidateID, status candidate.Status, reason string, by kernel.UserID) (int, error) {
	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	query := `
		UPDATE candidates
		SET status = $1,
		    last_updated_by = $2,
		    updated_at = NOW(),
		    rejection_reason = CASE WHEN $1 = 'rejected' AND $3 <> '' THEN $3 ELSE rejection_reason END,
		    rejection_date = CASE WHEN $1 = 'rejected' AND $3 <> '' THEN NOW() ELSE rejection_date END
		WHERE id = ANY($4)
	`

	result, err := r.db.ExecContext(ctx, query, status.String(), by.String(), reason, pq.Array(idStrings))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// StatusCounts groups the whole collection by status
func (r *PostgresCandidateRepository) StatusCounts(ctx context.Context) (map[candidate.Status]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM candidates GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[candidate.Status]int{}
	for rows.Next() {
		var status candidate.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// SourceCounts groups the whole collection by source
func (r *PostgresCandidateRepository) SourceCounts(ctx context.Context) (map[string]int, error) {
	return r.groupCounts(ctx, "source")
}

// PositionCounts groups the whole collection by position
func (r *PostgresCandidateRepository) PositionCounts(ctx context.Context) (map[string]int, error) {
	return r.groupCounts(ctx, "position")
}

func (r *PostgresCandidateRepository) groupCounts(ctx context.Context, column string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(%s, ''), COUNT(*) FROM candidates GROUP BY 1`, column)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// MonthlyTrend returns per-month intake counts, newest first
func (r *PostgresCandidateRepository) MonthlyTrend(ctx context.Context, months int) ([]candidate.MonthCount, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM created_at)::int AS year,
			EXTRACT(MONTH FROM created_at)::int AS month,
			COUNT(*)::int AS count
		FROM candidates
		GROUP BY 1, 2
		ORDER BY year DESC, month DESC
		LIMIT $1
	`

	trend := []candidate.MonthCount{}
	if err := r.db.SelectContext(ctx, &trend, query, months); err != nil {
		return nil, err
	}
	return trend, nil
}

// CountCreatedBetween counts candidates created in [from, to]
func (r *PostgresCandidateRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM candidates WHERE created_at >= $1 AND created_at <= $2`, from, to)
	if err != nil {
		return 0, err
	}
	return count, nil
}
