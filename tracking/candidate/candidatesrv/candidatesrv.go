package candidatesrv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/talentgrid/ctms/pkg/errx"
	"github.com/talentgrid/ctms/pkg/fsx"
	"github.com/talentgrid/ctms/pkg/iam/user"
	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/tracking/candidate"
)

const (
	// MaxCVSize caps CV uploads at 10MB
	MaxCVSize = 10 << 20

	cvDir = "cv"
)

// CVUpload is an incoming CV file
type CVUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CandidateService implements candidate lifecycle operations
type CandidateService struct {
	repo       candidate.Repository
	interviews candidate.InterviewReader
	users      user.Repository
	files      fsx.FileSystem
}

func NewCandidateService(
	repo candidate.Repository,
	interviews candidate.InterviewReader,
	users user.Repository,
	files fsx.FileSystem,
) *CandidateService {
	return &CandidateService{
		repo:       repo,
		interviews: interviews,
		users:      users,
		files:      files,
	}
}

// Intake registers a new candidate. A duplicate email aborts with a summary
// of the existing record. When a CV accompanies the request it is stored
// first and removed again if anything after the store fails.
func (s *CandidateService) Intake(ctx context.Context, req candidate.CreateCandidateRequest, cv *CVUpload, actor kernel.UserID) (*candidate.CandidateResponse, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Position == "" {
		return nil, candidate.ErrMissingRequiredFields()
	}

	email := kernel.NewEmail(req.Email)
	if !email.IsValid() {
		return nil, candidate.ErrInvalidEmail()
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errx.IsType(err, errx.TypeNotFound) {
		return nil, err
	}
	if existing != nil {
		dupErr := candidate.ErrCandidateAlreadyExists()
		for k, v := range candidate.DuplicateDetails(existing) {
			dupErr = dupErr.WithDetail(k, v)
		}
		return nil, dupErr
	}

	var cvPath string
	if cv != nil {
		cvPath, err = s.storeCV(ctx, cv)
		if err != nil {
			return nil, err
		}
	}

	committed := false
	defer func() {
		if cvPath != "" && !committed {
			if delErr := s.files.DeleteFile(ctx, cvPath); delErr != nil {
				logx.Errorf("failed to clean up orphaned CV %s: %v", cvPath, delErr)
			}
		}
	}()

	c := candidate.New(req.FirstName, req.LastName, email, actor)
	c.Phone = kernel.Phone(req.Phone)
	c.Position = kernel.Position(req.Position)
	c.Source = req.Source
	c.Skills = candidate.NormalizeSkills(req.Skills)
	c.Experience = req.Experience
	c.CurrentCompany = req.CurrentCompany
	c.ExpectedSalary = req.ExpectedSalary
	c.NoticePeriod = req.NoticePeriod
	c.Notes = req.Notes
	if cvPath != "" {
		c.CVPath = &cvPath
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	committed = true

	logx.Infof("candidate added: id=%s email=%s", c.ID.String(), c.Email.String())
	return s.toResponse(ctx, c), nil
}

func (s *CandidateService) storeCV(ctx context.Context, cv *CVUpload) (string, error) {
	if !strings.EqualFold(filepath.Ext(cv.Filename), ".pdf") {
		return "", candidate.ErrCVInvalidType()
	}
	if cv.Size > MaxCVSize {
		return "", candidate.ErrCVTooLarge()
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(cv.Filename))
	path := s.files.Join(cvDir, name)
	if err := s.files.WriteFileStream(ctx, path, io.LimitReader(cv.Content, MaxCVSize)); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

// QuickScan checks whether a candidate already exists by email or phone
func (s *CandidateService) QuickScan(ctx context.Context, email, phone string) (*candidate.QuickScanResponse, error) {
	if email == "" && phone == "" {
		return nil, candidate.ErrScanCriteriaRequired()
	}

	c, err := s.repo.FindByEmailOrPhone(ctx, kernel.NewEmail(email), kernel.Phone(phone))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return &candidate.QuickScanResponse{Exists: false}, nil
		}
		return nil, err
	}

	return &candidate.QuickScanResponse{
		Exists:    true,
		Candidate: candidate.ToQuickScanSummary(c),
	}, nil
}

// List retrieves candidates with filters and pagination. The stats block
// always covers the whole collection, not the filtered subset.
func (s *CandidateService) List(ctx context.Context, filters candidate.ListFilters, pagination kernel.PaginationOptions) (*candidate.ListCandidatesResponse, error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize < 1 {
		pagination.PageSize = 10
	}

	candidates, total, err := s.repo.List(ctx, filters, pagination)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	refs := s.refCache(ctx, candidates)
	responses := make([]candidate.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		responses = append(responses, candidate.CandidateResponse{
			Candidate:         c,
			AddedByUser:       refs[c.AddedBy],
			LastUpdatedByUser: refs[c.LastUpdatedBy],
		})
	}

	page := kernel.NewPage(pagination, total)
	return &candidate.ListCandidatesResponse{
		Candidates:  responses,
		TotalPages:  page.Pages,
		CurrentPage: page.Number,
		Total:       total,
		Stats:       stats,
	}, nil
}

// GetByID retrieves a candidate together with its interview history
func (s *CandidateService) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.CandidateDetailResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.interviews.HistoryByCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	return &candidate.CandidateDetailResponse{
		Candidate:      *s.toResponse(ctx, c),
		Interviews:     history,
		InterviewCount: len(history),
	}, nil
}

// Update applies a partial update, re-checking email uniqueness when the
// email changes
func (s *CandidateService) Update(ctx context.Context, id kernel.CandidateID, req candidate.UpdateCandidateRequest, actor kernel.UserID) (*candidate.CandidateResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := kernel.NewEmail(*req.Email)
		if !email.IsValid() {
			return nil, candidate.ErrInvalidEmail()
		}
		if email != c.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			if err != nil && !errx.IsType(err, errx.TypeNotFound) {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, candidate.ErrEmailAlreadyExists()
			}
			c.Email = email
		}
	}

	if req.FirstName != nil {
		c.FirstName = kernel.FirstName(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = kernel.LastName(*req.LastName)
	}
	if req.Phone != nil {
		c.Phone = kernel.Phone(*req.Phone)
	}
	if req.Position != nil {
		c.Position = kernel.Position(*req.Position)
	}
	if req.Source != nil {
		c.Source = *req.Source
	}
	if req.Skills != nil {
		c.Skills = candidate.NormalizeSkills(req.Skills)
	}
	if req.Experience != nil {
		c.Experience = *req.Experience
	}
	if req.CurrentCompany != nil {
		c.CurrentCompany = *req.CurrentCompany
	}
	if req.ExpectedSalary != nil {
		c.ExpectedSalary = *req.ExpectedSalary
	}
	if req.NoticePeriod != nil {
		c.NoticePeriod = *req.NoticePeriod
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	c.LastUpdatedBy = actor
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c), nil
}

// ReplaceCV stores a new CV and removes the previous file
func (s *CandidateService) ReplaceCV(ctx context.Context, id kernel.CandidateID, cv *CVUpload, actor kernel.UserID) (*candidate.CandidateResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.storeCV(ctx, cv)
	if err != nil {
		return nil, err
	}

	oldPath := ""
	if c.HasCV() {
		oldPath = *c.CVPath
	}

	c.CVPath = &path
	c.LastUpdatedBy = actor
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		if delErr := s.files.DeleteFile(ctx, path); delErr != nil {
			logx.Errorf("failed to clean up orphaned CV %s: %v", path, delErr)
		}
		return nil, err
	}

	if oldPath != "" {
		if err := s.files.DeleteFile(ctx, oldPath); err != nil {
			logx.Warnf("failed to remove replaced CV %s: %v", oldPath, err)
		}
	}
	return s.toResponse(ctx, c), nil
}

// UpdateStatus moves a candidate through the pipeline, stamping rejection or
// termination metadata and accumulating a timestamped note
func (s *CandidateService) UpdateStatus(ctx context.Context, id kernel.CandidateID, req candidate.UpdateStatusRequest, actor kernel.UserID) (*candidate.CandidateResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := candidate.Status(req.Status)
	reason := req.RejectionReason
	if status == candidate.StatusTerminated {
		reason = req.TerminationReason
	}

	if err := c.ApplyStatus(status, reason, req.Notes, actor); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logx.Infof("candidate status updated: id=%s status=%s", c.ID.String(), c.Status)
	return s.toResponse(ctx, c), nil
}

// Delete removes a candidate. Candidates with any interview history cannot
// be deleted.
func (s *CandidateService) Delete(ctx context.Context, id kernel.CandidateID) (*candidate.DeletedCandidateResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.interviews.CountByCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, candidate.ErrHasInterviews()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	if c.HasCV() {
		if err := s.files.DeleteFile(ctx, *c.CVPath); err != nil {
			logx.Warnf("failed to remove CV for deleted candidate %s: %v", id.String(), err)
		}
	}

	return &candidate.DeletedCandidateResponse{
		ID:    c.ID.String(),
		Name:  c.GetFullName(),
		Email: c.Email.String(),
	}, nil
}

// BulkUpdateStatus applies one status change to many candidates
func (s *CandidateService) BulkUpdateStatus(ctx context.Context, req candidate.BulkUpdateStatusRequest, actor kernel.UserID) (*candidate.BulkUpdateResponse, error) {
	if len(req.CandidateIDs) == 0 {
		return nil, candidate.ErrNoCandidatesSelected()
	}

	status := candidate.Status(req.Status)
	if !status.IsValid() {
		return nil, candidate.ErrInvalidStatus().WithDetail("status", req.Status)
	}

	ids := make([]kernel.CandidateID, 0, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		ids = append(ids, kernel.NewCandidateID(id))
	}

	modified, err := s.repo.BulkUpdateStatus(ctx, ids, status, req.Reason, actor)
	if err != nil {
		return nil, err
	}

	logx.Infof("bulk status update: status=%s modified=%d", status, modified)
	return &candidate.BulkUpdateResponse{ModifiedCount: modified}, nil
}

// ExportCSV renders the filtered collection as CSV. Every data field is
// double-quoted, which is what downstream spreadsheet imports expect.
func (s *CandidateService) ExportCSV(ctx context.Context, status string) ([]byte, string, error) {
	rows, err := s.repo.ListForExport(ctx, status)
	if err != nil {
		return nil, "", candidate.ErrExportFailed().WithCause(err)
	}

	var buf bytes.Buffer
	buf.WriteString("Name,Email,Phone,Position,Status,Source,Experience,CurrentCompany,ExpectedSalary,NoticePeriod,Skills,AddedBy,CreatedAt,LastUpdated\n")

	for i, row := range rows {
		fields := []string{
			row.Name,
			row.Email,
			row.Phone,
			row.Position,
			row.Status,
			row.Source,
			fmt.Sprintf("%d", row.Experience),
			row.CurrentCompany,
			row.ExpectedSalary,
			row.NoticePeriod,
			row.Skills,
			row.AddedBy,
			row.CreatedAt.Format("2006-01-02"),
			row.UpdatedAt.Format("2006-01-02"),
		}
		quoted := make([]string, len(fields))
		for j, f := range fields {
			quoted[j] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		buf.WriteString(strings.Join(quoted, ","))
		if i < len(rows)-1 {
			buf.WriteByte('\n')
		}
	}

	filename := fmt.Sprintf("candidates-%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportJSON returns the filtered collection as-is
func (s *CandidateService) ExportJSON(ctx context.Context, status string) ([]candidate.Candidate, error) {
	return s.repo.ListCreatedBetween(ctx, time.Time{}, time.Now(), status)
}

// StreamCV opens the candidate's CV for download
func (s *CandidateService) StreamCV(ctx context.Context, id kernel.CandidateID) (io.ReadCloser, string, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !c.HasCV() {
		return nil, "", candidate.ErrCVNotFound()
	}

	exists, err := s.files.Exists(ctx, *c.CVPath)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", candidate.ErrCVNotFound()
	}

	stream, err := s.files.ReadFileStream(ctx, *c.CVPath)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-cv.pdf", strings.ReplaceAll(strings.ToLower(c.GetFullName()), " ", "-"))
	return stream, filename, nil
}

// Analytics aggregates pipeline distributions and a 12-month intake trend
func (s *CandidateService) Analytics(ctx context.Context) (*candidate.AnalyticsResponse, error) {
	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	sources, err := s.repo.SourceCounts(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.repo.PositionCounts(ctx)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.MonthlyTrend(ctx, 12)
	if err != nil {
		return nil, err
	}

	statusDist := make(map[string]int, len(statuses))
	for k, v := range statuses {
		statusDist[string(k)] = v
	}

	return &candidate.AnalyticsResponse{
		StatusDistribution:   statusDist,
		SourceDistribution:   sources,
		PositionDistribution: positions,
		MonthlyTrend:         trend,
	}, nil
}

func (s *CandidateService) toResponse(ctx context.Context, c *candidate.Candidate) *candidate.CandidateResponse {
	return &candidate.CandidateResponse{
		Candidate:         *c,
		AddedByUser:       s.resolveRef(ctx, c.AddedBy),
		LastUpdatedByUser: s.resolveRef(ctx, c.LastUpdatedBy),
	}
}

// resolveRef is best effort; a missing user leaves the ref unpopulated
func (s *CandidateService) resolveRef(ctx context.Context, id kernel.UserID) *candidate.UserRef {
	if id.IsEmpty() {
		return nil
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	return &candidate.UserRef{
		ID:    u.ID.String(),
		Name:  u.FullName(),
		Email: u.Email.String(),
	}
}

func (s *CandidateService) refCache(ctx context.Context, candidates []candidate.Candidate) map[kernel.UserID]*candidate.UserRef {
	refs := map[kernel.UserID]*candidate.UserRef{}
	for i := range candidates {
		for _, id := range []kernel.UserID{candidates[i].AddedBy, candidates[i].LastUpdatedBy} {
			if _, seen := refs[id]; !seen {
				refs[id] = s.resolveRef(ctx, id)
			}
		}
	}
	return refs
}
