package reportsrv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid/ctms/tracking/report"
)

func sampleCandidateRows() []report.CandidateRow {
	return []report.CandidateRow{
		{Name: "Jane Doe", Email: "jane@example.com", Phone: "+94771234567", Position: "Backend Engineer", Status: "new", Source: "LinkedIn"},
		{Name: "John Smith", Email: "john@example.com", Position: "QA Engineer", Status: "hired"},
	}
}

func TestRenderCandidatesPDF(t *testing.T) {
	data, err := renderCandidatesPDF(sampleCandidateRows(), "")
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderCandidatesPDF_ManyRowsPaginate(t *testing.T) {
	rows := make([]report.CandidateRow, 60)
	for i := range rows {
		rows[i] = report.CandidateRow{Name: "Candidate", Email: "c@example.com", Status: "new"}
	}

	data, err := renderCandidatesPDF(rows, "")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInterviewsPDF(t *testing.T) {
	rows := []report.InterviewRow{
		{Candidate: "Jane Doe", Email: "jane@example.com", Date: "Jun 01, 2025 10:00", Type: "technical", Status: "scheduled"},
	}

	data, err := renderInterviewsPDF(rows, "")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderCandidatesExcel(t *testing.T) {
	data, err := renderCandidatesExcel(sampleCandidateRows())
	require.NoError(t, err)

	// xlsx is a zip container
	require.True(t, len(data) > 2)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestRenderInterviewsExcel_Empty(t *testing.T) {
	data, err := renderInterviewsExcel(nil)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestOrNA(t *testing.T) {
	assert.Equal(t, "N/A", orNA(""))
	assert.Equal(t, "x", orNA("x"))
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", truncateCell("short", 130))

	long := "a-very-long-email-address-that-overflows@example-domain.com"
	got := truncateCell(long, 55)
	assert.True(t, len(got) < len(long))
	assert.Contains(t, got, "...")
}

func TestNormalizeRange(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	from, to, err := normalizeRange(report.DateRange{Start: start, End: end})
	require.NoError(t, err)
	assert.Equal(t, start, from)
	// same-day range covers the whole end day
	assert.True(t, to.After(start.Add(23*time.Hour)))

	_, _, err = normalizeRange(report.DateRange{Start: end.AddDate(0, 0, 5), End: end})
	require.Error(t, err)

	from, to, err = normalizeRange(report.DateRange{})
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.WithinDuration(t, time.Now(), to, time.Second)
}
