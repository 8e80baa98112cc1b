package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	emaildomain "jobtrail-backend/internal/email/domain"
)

// Signal is one weighted keyword or sender-domain match
type Signal struct {
	Term   string `json:"term"`
	Weight int    `json:"weight"`
}

// Rule is the weighted signal set of one candidate email type. Scores from
// all matched signals are summed and capped at 100.
type Rule struct {
	Type           emaildomain.EmailType `json:"type"`
	SubjectSignals []Signal              `json:"subject_signals,omitempty"`
	BodySignals    []Signal              `json:"body_signals,omitempty"`
	SenderDomains  []Signal              `json:"sender_domains,omitempty"`
}

// RuleSet is the full classifier configuration. It is data, not code:
// deployments can override it with a JSON file and reload it at runtime
// without touching the engine.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

// typePriority breaks score ties between candidate types. Higher wins.
var typePriority = map[emaildomain.EmailType]int{
	emaildomain.TypeOffer:                   7,
	emaildomain.TypeInterviewInvite:         6,
	emaildomain.TypeAssessment:              5,
	emaildomain.TypeRejection:               4,
	emaildomain.TypeApplicationConfirmation: 3,
	emaildomain.TypeFollowUp:                2,
	emaildomain.TypeNotJobRelated:           1,
	emaildomain.TypeOther:                   0,
}

// LoadRuleSet reads a RuleSet from a JSON file
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}
	var rs RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parse rules file: %w", err)
	}
	if len(rs.Rules) == 0 {
		return RuleSet{}, fmt.Errorf("rules file %s contains no rules", path)
	}
	for _, r := range rs.Rules {
		if _, ok := typePriority[r.Type]; !ok {
			return RuleSet{}, fmt.Errorf("rules file %s references unknown type %q", path, r.Type)
		}
	}
	return rs, nil
}

// DefaultRuleSet is the built-in rule table, used when no external rules
// file is configured
func DefaultRuleSet() RuleSet {
	return RuleSet{Rules: []Rule{
		{
			Type: emaildomain.TypeOffer,
			SubjectSignals: []Signal{
				{Term: "offer", Weight: 25},
				{Term: "congratulations", Weight: 25},
			},
			BodySignals: []Signal{
				{Term: "pleased to offer you", Weight: 60},
				{Term: "extend an offer", Weight: 55},
				{Term: "offer letter", Weight: 55},
				{Term: "job offer", Weight: 45},
				{Term: "offer of employment", Weight: 55},
				{Term: "compensation package", Weight: 30},
				{Term: "starting salary", Weight: 30},
			},
		},
		{
			Type: emaildomain.TypeInterviewInvite,
			SubjectSignals: []Signal{
				{Term: "interview", Weight: 30},
				{Term: "phone screen", Weight: 40},
			},
			BodySignals: []Signal{
				{Term: "schedule an interview", Weight: 55},
				{Term: "invite you to interview", Weight: 55},
				{Term: "interview invitation", Weight: 55},
				{Term: "would like to interview you", Weight: 50},
				{Term: "schedule a call", Weight: 30},
				{Term: "phone screen", Weight: 40},
				{Term: "your availability", Weight: 25},
				{Term: "meet the team", Weight: 25},
			},
			SenderDomains: []Signal{
				{Term: "calendly.com", Weight: 30},
			},
		},
		{
			Type: emaildomain.TypeAssessment,
			SubjectSignals: []Signal{
				{Term: "assessment", Weight: 35},
				{Term: "coding challenge", Weight: 45},
			},
			BodySignals: []Signal{
				{Term: "online assessment", Weight: 55},
				{Term: "technical assessment", Weight: 55},
				{Term: "coding challenge", Weight: 55},
				{Term: "take-home", Weight: 45},
				{Term: "complete the assessment", Weight: 50},
				{Term: "complete this test", Weight: 40},
			},
			SenderDomains: []Signal{
				{Term: "hackerrank.com", Weight: 50},
				{Term: "codility.com", Weight: 50},
				{Term: "codesignal.com", Weight: 50},
			},
		},
		{
			Type: emaildomain.TypeRejection,
			SubjectSignals: []Signal{
				{Term: "application update", Weight: 20},
				{Term: "update on your application", Weight: 20},
			},
			BodySignals: []Signal{
				{Term: "move forward with other candidates", Weight: 60},
				{Term: "decided not to move forward", Weight: 60},
				{Term: "will not be moving forward", Weight: 60},
				{Term: "regret to inform", Weight: 55},
				{Term: "not been selected", Weight: 55},
				{Term: "unable to offer you", Weight: 50},
				{Term: "pursue other applicants", Weight: 50},
				{Term: "other candidates", Weight: 25},
				{Term: "unfortunately", Weight: 20},
				{Term: "wish you the best", Weight: 15},
				{Term: "future opportunities", Weight: 15},
			},
		},
		{
			Type: emaildomain.TypeApplicationConfirmation,
			SubjectSignals: []Signal{
				{Term: "application received", Weight: 45},
				{Term: "thank you for applying", Weight: 50},
			},
			BodySignals: []Signal{
				{Term: "thank you for applying", Weight: 55},
				{Term: "we have received your application", Weight: 55},
				{Term: "application has been received", Weight: 55},
				{Term: "application has been submitted", Weight: 50},
				{Term: "successfully submitted", Weight: 40},
				{Term: "thank you for your interest", Weight: 30},
				{Term: "will review your application", Weight: 35},
			},
			SenderDomains: []Signal{
				{Term: "greenhouse.io", Weight: 15},
				{Term: "lever.co", Weight: 15},
				{Term: "myworkday.com", Weight: 15},
				{Term: "smartrecruiters.com", Weight: 15},
				{Term: "ashbyhq.com", Weight: 15},
				{Term: "icims.com", Weight: 15},
			},
		},
		{
			Type: emaildomain.TypeFollowUp,
			BodySignals: []Signal{
				{Term: "still under review", Weight: 50},
				{Term: "application is under review", Weight: 50},
				{Term: "still being considered", Weight: 45},
				{Term: "following up", Weight: 35},
				{Term: "checking in", Weight: 30},
				{Term: "update on the status", Weight: 35},
				{Term: "no update yet", Weight: 35},
			},
		},
		{
			Type: emaildomain.TypeNotJobRelated,
			SubjectSignals: []Signal{
				{Term: "newsletter", Weight: 30},
				{Term: "receipt", Weight: 30},
				{Term: "invoice", Weight: 30},
				{Term: "sale", Weight: 20},
			},
			BodySignals: []Signal{
				{Term: "unsubscribe", Weight: 25},
				{Term: "view this email in your browser", Weight: 30},
				{Term: "promotional", Weight: 20},
			},
		},
	}}
}
