package domain

import (
	"testing"

	emaildomain "jobtrail-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   ApplicationStatus
		emailType emaildomain.EmailType
		want      ApplicationStatus
		wantMove  bool
	}{
		{"confirmation moves viewed to applied", StatusViewed, emaildomain.TypeApplicationConfirmation, StatusApplied, true},
		{"second confirmation is a no-op", StatusApplied, emaildomain.TypeApplicationConfirmation, StatusApplied, false},
		{"confirmation never rewinds interviewing", StatusInterviewing, emaildomain.TypeApplicationConfirmation, StatusInterviewing, false},

		{"assessment from applied", StatusApplied, emaildomain.TypeAssessment, StatusAssessment, true},
		{"assessment from interviewing", StatusInterviewing, emaildomain.TypeAssessment, StatusAssessment, true},
		{"assessment ignored before applying", StatusViewed, emaildomain.TypeAssessment, StatusViewed, false},

		{"interview from applied", StatusApplied, emaildomain.TypeInterviewInvite, StatusInterviewing, true},
		{"interview from assessment", StatusAssessment, emaildomain.TypeInterviewInvite, StatusInterviewing, true},
		{"interview ignored before applying", StatusViewed, emaildomain.TypeInterviewInvite, StatusViewed, false},

		{"rejection from any open stage", StatusAssessment, emaildomain.TypeRejection, StatusRejected, true},
		{"offer from any open stage", StatusInterviewing, emaildomain.TypeOffer, StatusOffer, true},

		{"rejected is absorbing", StatusRejected, emaildomain.TypeOffer, StatusRejected, false},
		{"offer is absorbing", StatusOffer, emaildomain.TypeRejection, StatusOffer, false},

		{"follow up never moves status", StatusApplied, emaildomain.TypeFollowUp, StatusApplied, false},
		{"other never moves status", StatusApplied, emaildomain.TypeOther, StatusApplied, false},
		{"unrelated never moves status", StatusApplied, emaildomain.TypeNotJobRelated, StatusApplied, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := NextStatus(tt.current, tt.emailType)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMove, moved)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusOffer.IsTerminal())
	assert.False(t, StatusViewed.IsTerminal())
	assert.False(t, StatusInterviewing.IsTerminal())
}

func TestIsValid(t *testing.T) {
	assert.True(t, StatusApplied.IsValid())
	assert.False(t, ApplicationStatus("ghosted").IsValid())
}
