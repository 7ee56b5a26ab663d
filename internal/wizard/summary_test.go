package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

func TestBuildSummary(t *testing.T) {
	d := domain.NewDraft()
	require.NoError(t, d.CommitStep(domain.StepDetails, domain.StepRecord{
		domain.FieldFullName:    "Asha Rao",
		domain.FieldEmail:       "asha@studio.in",
		domain.FieldPhone:       "+919876543210",
		domain.FieldOrgName:     "Rao Studios",
		domain.FieldOrgType:     "gaming_studio",
		domain.FieldTeamSize:    "6-15",
		domain.FieldPrimaryGame: "Valorant",
	}))
	require.NoError(t, d.CommitSlot(domain.SelectedSlot{
		Date:     "2024-03-05",
		Time:     "10:30",
		DateTime: time.Date(2024, 3, 5, 10, 30, 0, 0, domain.Location),
	}))

	s := BuildSummary(d)

	require.Len(t, s.Sections, 4)
	assert.Equal(t, "Personal Details", s.Sections[0].Title)
	assert.Equal(t, "Organization Details", s.Sections[1].Title)
	assert.Equal(t, "Consultation Details", s.Sections[2].Title)
	assert.Equal(t, "Payment", s.Sections[3].Title)

	expect := []struct {
		section, label, value string
	}{
		{"Personal Details", "Name", "Asha Rao"},
		{"Personal Details", "Phone", "+919876543210"},
		{"Organization Details", "Type", "Gaming Studio"},
		{"Organization Details", "Team Size", "6-15"},
		{"Consultation Details", "Date", "Tuesday, 5 March 2024"},
		{"Consultation Details", "Time", "10:30 IST"},
		{"Consultation Details", "Duration", "30-45 minutes"},
		{"Consultation Details", "Platform", "Google Meet"},
		{"Payment", "Consultation Fee", "₹3,000"},
	}
	for _, e := range expect {
		v, found := s.Item(e.section, e.label)
		require.True(t, found, e.label)
		assert.Equal(t, e.value, v, e.label)
	}
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹999", FormatRupees(999))
	assert.Equal(t, "₹3,000", FormatRupees(3000))
	assert.Equal(t, "₹3,00,000", FormatRupees(300000))
	assert.Equal(t, "₹1,23,45,678", FormatRupees(12345678))
}

func TestStateProgress(t *testing.T) {
	assert.Equal(t, 25.0, StateStep1.Progress())
	assert.Equal(t, 75.0, StateStep3.Progress())
	assert.Equal(t, 100.0, StateProcessing.Progress())
	assert.Equal(t, 100.0, StateFailed.Progress())
	assert.Equal(t, 100.0, StateConfirmed.Progress())
}
