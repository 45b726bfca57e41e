package candidate

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid/ctms/pkg/kernel"
)

func TestApplyStatus_RejectionStampsReasonAndDate(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))

	err := c.ApplyStatus(StatusRejected, "Not a fit", "", kernel.NewUserID("hr-2"))
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, c.Status)
	require.NotNil(t, c.RejectionReason)
	assert.Equal(t, "Not a fit", *c.RejectionReason)
	require.NotNil(t, c.RejectionDate)
	assert.WithinDuration(t, time.Now(), *c.RejectionDate, time.Second)
	assert.Equal(t, kernel.NewUserID("hr-2"), c.LastUpdatedBy)
}

func TestApplyStatus_TerminationStampsReasonAndDate(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))

	err := c.ApplyStatus(StatusTerminated, "Contract ended", "", kernel.NewUserID("hr-1"))
	require.NoError(t, err)

	require.NotNil(t, c.TerminationReason)
	assert.Equal(t, "Contract ended", *c.TerminationReason)
	require.NotNil(t, c.TerminationDate)
	assert.Nil(t, c.RejectionReason)
}

func TestApplyStatus_NoReasonLeavesStampsEmpty(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))

	err := c.ApplyStatus(StatusRejected, "", "", kernel.NewUserID("hr-1"))
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, c.Status)
	assert.Nil(t, c.RejectionReason)
	assert.Nil(t, c.RejectionDate)
}

func TestApplyStatus_InvalidStatus(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))

	err := c.ApplyStatus(Status("promoted"), "", "", kernel.NewUserID("hr-1"))
	require.Error(t, err)
	assert.Equal(t, StatusNew, c.Status)
}

func TestAppendStatusNote_Format(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))
	at := time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)

	c.AppendStatusNote(StatusScheduled, "Phone screen booked", at)
	assert.Equal(t, "[2025-03-14 09:30:05] Status changed to scheduled: Phone screen booked", c.Notes)

	c.AppendStatusNote(StatusInterviewed, "Went well", at.Add(time.Hour))
	want := "[2025-03-14 09:30:05] Status changed to scheduled: Phone screen booked\n" +
		"[2025-03-14 10:30:05] Status changed to interviewed: Went well"
	assert.Equal(t, want, c.Notes)
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"list passes through", []string{"Go", "SQL"}, []string{"Go", "SQL"}},
		{"single comma string splits", []string{"Go, SQL ,Docker"}, []string{"Go", "SQL", "Docker"}},
		{"entries trimmed", []string{" Go ", "  SQL"}, []string{"Go", "SQL"}},
		{"empties dropped", []string{"Go", "", "  "}, []string{"Go"}},
		{"nil stays empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkills(tt.input))
		})
	}
}

func TestSkillList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  SkillList
	}{
		{"array", `["Go","SQL"]`, SkillList{"Go", "SQL"}},
		{"comma string", `"Go, SQL"`, SkillList{"Go, SQL"}},
		{"empty string", `""`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SkillList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("number rejected", func(t *testing.T) {
		var got SkillList
		assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	})
}

func TestDuplicateDetails(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))
	c.Position = kernel.Position("Backend Engineer")

	details := DuplicateDetails(c)
	assert.Equal(t, c.ID.String(), details["id"])
	assert.Equal(t, "Jane Doe", details["name"])
	assert.Equal(t, "new", details["status"])
	assert.Equal(t, "Backend Engineer", details["position"])
	assert.Equal(t, c.CreatedAt, details["created_at"])
}

func TestGetFullName(t *testing.T) {
	c := New("Jane", "Doe", kernel.NewEmail("jane@example.com"), kernel.NewUserID("hr-1"))
	assert.Equal(t, fmt.Sprintf("%s %s", c.FirstName, c.LastName), c.GetFullName())
	assert.Equal(t, "Jane Doe", c.GetFullName())
}
