package classifier

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(subject, from, body string) emaildomain.RawMessage {
	return emaildomain.RawMessage{
		MessageID:   "m1",
		Subject:     subject,
		FromAddress: from,
		ReceivedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		BodyText:    body,
	}
}

func TestClassifyRejection(t *testing.T) {
	c := New(40)

	result := c.Classify(msg(
		"Update on your application",
		"Acme Recruiting <no-reply@acme.com>",
		"Thank you for your interest in Acme. Unfortunately, we have decided to move forward with other candidates. We wish you the best in your search.",
	))

	assert.Equal(t, emaildomain.TypeRejection, result.Type)
	assert.GreaterOrEqual(t, result.Confidence, 60)
}

func TestClassifyOffer(t *testing.T) {
	c := New(40)

	result := c.Classify(msg(
		"Congratulations! Your offer from Acme",
		"hr@acme.com",
		"We are pleased to offer you the position. Your offer letter and compensation package details are attached.",
	))

	assert.Equal(t, emaildomain.TypeOffer, result.Type)
	assert.Equal(t, 100, result.Confidence) // capped
}

func TestClassifyInterviewInvite(t *testing.T) {
	c := New(40)

	result := c.Classify(msg(
		"Interview for the Backend Engineer position",
		"recruiter@initech.com",
		"We would like to schedule an interview with you. Please share your availability at https://calendly.com/initech/30min.",
	))

	assert.Equal(t, emaildomain.TypeInterviewInvite, result.Type)
	assert.Equal(t, "https://calendly.com/initech/30min", result.Metadata[emaildomain.MetaAssessmentLink])
}

func TestClassifyAssessment(t *testing.T) {
	c := New(40)

	result := c.Classify(msg(
		"Your coding challenge",
		"Hackerrank <noreply@hackerrank.com>",
		"Please complete the assessment at https://hackerrank.com/test/abc123 no later than 2026-03-10.",
	))

	assert.Equal(t, emaildomain.TypeAssessment, result.Type)
	assert.Equal(t, "https://hackerrank.com/test/abc123", result.Metadata[emaildomain.MetaAssessmentLink])
	assert.Equal(t, "2026-03-10", result.Metadata[emaildomain.MetaDeadline])
}

func TestClassifyApplicationConfirmation(t *testing.T) {
	c := New(40)

	result := c.Classify(msg(
		"Application received",
		"Acme Careers <careers@greenhouse.io>",
		"Thank you for applying to Acme. We have received your application and will review it shortly.",
	))

	assert.Equal(t, emaildomain.TypeApplicationConfirmation, result.Type)
}

func TestClassifyBelowThresholdFallsBackToOther(t *testing.T) {
	c := New(40)

	// Single weak signal scores below the minimum confidence
	result := c.Classify(msg(
		"Quick note",
		"someone@example.com",
		"Unfortunately I missed your call earlier.",
	))

	assert.Equal(t, emaildomain.TypeOther, result.Type)
	assert.Less(t, result.Confidence, 40)
}

func TestClassifyNoSignals(t *testing.T) {
	c := New(40)

	result := c.Classify(msg("Lunch on Friday?", "friend@example.com", "Want to grab lunch?"))

	assert.Equal(t, emaildomain.TypeOther, result.Type)
	assert.Equal(t, 0, result.Confidence)
}

func TestClassifyTieBreakPrefersHigherPriorityType(t *testing.T) {
	c := New(10)
	c.rules = RuleSet{Rules: []Rule{
		{Type: emaildomain.TypeRejection, BodySignals: []Signal{{Term: "decision", Weight: 30}}},
		{Type: emaildomain.TypeOffer, BodySignals: []Signal{{Term: "decision", Weight: 30}}},
	}}

	result := c.Classify(msg("Our decision", "hr@acme.com", "We made a decision."))

	assert.Equal(t, emaildomain.TypeOffer, result.Type)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(40)
	m := msg(
		"Update on your application",
		"no-reply@acme.com",
		"We regret to inform you that we will not be moving forward.",
	)

	first := c.Classify(m)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(m))
	}
}

func TestInferCompanyFromDomain(t *testing.T) {
	result := New(40).Classify(msg(
		"Update on your application",
		"Acme Recruiting <no-reply@careers.acme.com>",
		"We regret to inform you that we will not be moving forward.",
	))

	assert.Equal(t, "Acme", result.Metadata[emaildomain.MetaInferredCompany])
}

func TestInferCompanyFallsBackToSubjectForATSDomains(t *testing.T) {
	result := New(40).Classify(msg(
		"Thank you for applying at Initech",
		"jobs@greenhouse.io",
		"We have received your application.",
	))

	assert.Equal(t, "Initech", result.Metadata[emaildomain.MetaInferredCompany])
}

func TestInferJobTitle(t *testing.T) {
	result := New(40).Classify(msg(
		"Your application for Senior Backend Engineer at Acme",
		"no-reply@acme.com",
		"We have received your application and will review it shortly. Thank you for applying.",
	))

	assert.Equal(t, "Senior Backend Engineer", result.Metadata[emaildomain.MetaInferredJobTitle])
}

func TestLoadRuleSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rules": [
			{"type": "rejection", "body_signals": [{"term": "declined", "weight": 80}]}
		]
	}`), 0o644))

	c, err := NewFromFile(path, 40)
	require.NoError(t, err)

	result := c.Classify(msg("Re: application", "hr@acme.com", "Your application was declined."))
	assert.Equal(t, emaildomain.TypeRejection, result.Type)
	assert.Equal(t, 80, result.Confidence)
}

func TestLoadRuleSetRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rules": [{"type": "spam", "body_signals": [{"term": "x", "weight": 1}]}]
	}`), 0o644))

	_, err := NewFromFile(path, 40)
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rules": [{"type": "rejection", "body_signals": [{"term": "declined", "weight": 80}]}]
	}`), 0o644))

	c, err := NewFromFile(path, 40)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{
		"rules": [{"type": "offer", "body_signals": [{"term": "declined", "weight": 80}]}]
	}`), 0o644))
	require.NoError(t, c.Reload())

	result := c.Classify(msg("Re: application", "hr@acme.com", "Your application was declined."))
	assert.Equal(t, emaildomain.TypeOffer, result.Type)
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		from     string
		expected string
	}{
		{"no-reply@acme.com", "acme.com"},
		{"Acme HR <hr@acme.com>", "acme.com"},
		{"not an address", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, senderDomain(tt.from))
	}
}
