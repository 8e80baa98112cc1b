package classifier

import (
	"regexp"
	"strings"

	emaildomain "jobtrail-backend/internal/email/domain"
)

var (
	urlRe = regexp.MustCompile(`https?://[^\s<>"']+`)

	// "by March 3", "deadline: 2026-01-15", "no later than 01/15/2026"
	deadlineRe = regexp.MustCompile(`(?i)\b(?:by|before|due|deadline:?|no later than)\s+((?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})`)

	// "your application for Senior Engineer at Acme"
	titleForRe = regexp.MustCompile(`(?i)\bapplication (?:for|to) (?:the )?(.{2,60}?)(?:\s+(?:position|role|opening)\b|\s+at\s|[.,!]|$)`)
	titleRoleRe = regexp.MustCompile(`(?i)\b(?:the|your)\s+(.{2,60}?)\s+(?:position|role|opening)\b`)

	// "at Acme", "joining Acme" in the subject line
	companyAtRe = regexp.MustCompile(`(?i)\b(?:at|with|joining)\s+([A-Z][A-Za-z0-9&'.-]*(?:\s+[A-Z][A-Za-z0-9&'.-]*){0,3})`)

	assessmentHosts = []string{"hackerrank", "codility", "codesignal", "assessment", "assess", "test", "challenge"}
	meetingHosts    = []string{"calendly", "zoom.us", "meet.google", "teams.microsoft", "goodtime"}

	// mail infrastructure and ATS domains that never identify the employer
	genericDomains = map[string]bool{
		"gmail.com": true, "googlemail.com": true, "outlook.com": true,
		"hotmail.com": true, "yahoo.com": true, "icloud.com": true,
		"greenhouse.io": true, "greenhouse-mail.io": true, "lever.co": true,
		"hire.lever.co": true, "myworkday.com": true, "myworkdayjobs.com": true,
		"smartrecruiters.com": true, "ashbyhq.com": true, "icims.com": true,
		"jobvite.com": true, "taleo.net": true, "successfactors.com": true,
		"bamboohr.com": true, "recruitee.com": true, "teamtailor.com": true,
		"hackerrank.com": true, "codility.com": true, "codesignal.com": true,
		"calendly.com": true, "linkedin.com": true, "indeed.com": true,
	}
)

// senderDomain extracts the domain part of a From address, tolerating the
// "Name <addr@host>" form
func senderDomain(from string) string {
	addr := from
	if start := strings.LastIndex(from, "<"); start >= 0 {
		if end := strings.LastIndex(from, ">"); end > start {
			addr = from[start+1 : end]
		}
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(addr[at+1:]))
}

// extractMetadata captures best-effort signals from the message body:
// deadlines, assessment/interview links, and inferred company/title
func extractMetadata(msg emaildomain.RawMessage, verdict emaildomain.EmailType) emaildomain.EventMetadata {
	meta := emaildomain.EventMetadata{}

	if m := deadlineRe.FindStringSubmatch(msg.BodyText); m != nil {
		meta[emaildomain.MetaDeadline] = strings.TrimSpace(m[1])
	}

	if link := extractActionLink(msg.BodyText, verdict); link != "" {
		meta[emaildomain.MetaAssessmentLink] = link
	}

	if company := inferCompany(msg); company != "" {
		meta[emaildomain.MetaInferredCompany] = company
	}

	if title := inferJobTitle(msg.Subject); title != "" {
		meta[emaildomain.MetaInferredJobTitle] = title
	}

	return meta
}

// extractActionLink returns the most relevant URL for assessment and
// interview mails: a known assessment/scheduling host wins over the first
// URL in the body
func extractActionLink(body string, verdict emaildomain.EmailType) string {
	if verdict != emaildomain.TypeAssessment && verdict != emaildomain.TypeInterviewInvite {
		return ""
	}

	urls := urlRe.FindAllString(body, -1)
	if len(urls) == 0 {
		return ""
	}

	hosts := assessmentHosts
	if verdict == emaildomain.TypeInterviewInvite {
		hosts = meetingHosts
	}
	for _, u := range urls {
		lower := strings.ToLower(u)
		for _, h := range hosts {
			if strings.Contains(lower, h) {
				return strings.TrimRight(u, ".,;)")
			}
		}
	}
	return strings.TrimRight(urls[0], ".,;)")
}

// inferCompany derives the employer name from the sender domain, falling
// back to an "at <Company>" subject pattern when the mail comes through an
// ATS or freemail domain
func inferCompany(msg emaildomain.RawMessage) string {
	domain := senderDomain(msg.FromAddress)

	if domain != "" && !genericDomains[domain] {
		labels := strings.Split(domain, ".")
		if len(labels) >= 2 {
			// first meaningful label: careers.acme.com -> acme
			label := labels[len(labels)-2]
			if label == "co" && len(labels) >= 3 {
				label = labels[len(labels)-3]
			}
			if label != "" && label != "mail" && label != "email" {
				return capitalize(label)
			}
		}
	}

	if m := companyAtRe.FindStringSubmatch(msg.Subject); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// inferJobTitle pulls a role name out of the subject line
func inferJobTitle(subject string) string {
	if m := titleForRe.FindStringSubmatch(subject); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := titleRoleRe.FindStringSubmatch(subject); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
