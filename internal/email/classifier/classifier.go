package classifier

import (
	"log"
	"strings"
	"sync"

	emaildomain "jobtrail-backend/internal/email/domain"
)

// Result is the classifier's verdict for one raw message
type Result struct {
	Type       emaildomain.EmailType
	Confidence int
	Metadata   emaildomain.EventMetadata
}

// Classifier scores messages against a reloadable rule table. Classify is
// pure with respect to the current rule set: the same message always
// produces the same result, so re-classification after a rule change is
// safe.
type Classifier struct {
	mu            sync.RWMutex
	rules         RuleSet
	minConfidence int
	rulesPath     string // empty means built-in rules only
}

// New creates a classifier with the built-in rule table
func New(minConfidence int) *Classifier {
	return &Classifier{
		rules:         DefaultRuleSet(),
		minConfidence: minConfidence,
	}
}

// NewFromFile creates a classifier that loads its rule table from a JSON
// file and can reload it at runtime
func NewFromFile(path string, minConfidence int) (*Classifier, error) {
	rs, err := LoadRuleSet(path)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		rules:         rs,
		minConfidence: minConfidence,
		rulesPath:     path,
	}, nil
}

// Reload re-reads the rule file. A no-op for the built-in table.
func (c *Classifier) Reload() error {
	if c.rulesPath == "" {
		return nil
	}
	rs, err := LoadRuleSet(c.rulesPath)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.rules = rs
	c.mu.Unlock()
	log.Printf("[Classifier] Reloaded %d rules from %s", len(rs.Rules), c.rulesPath)
	return nil
}

// Classify scores msg against every rule and returns the winning type with
// its normalized confidence (0-100) and extracted metadata. A winner below
// the minimum confidence threshold is demoted to `other` so the engine
// never acts on low-signal guesses. Ties are broken by type priority, then
// by earliest-defined rule.
func (c *Classifier) Classify(msg emaildomain.RawMessage) Result {
	c.mu.RLock()
	rules := c.rules
	c.mu.RUnlock()

	subject := strings.ToLower(msg.Subject)
	body := strings.ToLower(msg.BodyText)
	domain := strings.ToLower(senderDomain(msg.FromAddress))

	best := Result{Type: emaildomain.TypeOther, Confidence: 0}
	bestScore := 0

	for _, rule := range rules.Rules {
		score := 0
		for _, s := range rule.SubjectSignals {
			if strings.Contains(subject, strings.ToLower(s.Term)) {
				score += s.Weight
			}
		}
		for _, s := range rule.BodySignals {
			if strings.Contains(body, strings.ToLower(s.Term)) {
				score += s.Weight
			}
		}
		for _, s := range rule.SenderDomains {
			if domain == strings.ToLower(s.Term) || strings.HasSuffix(domain, "."+strings.ToLower(s.Term)) {
				score += s.Weight
			}
		}

		if score == 0 {
			continue
		}
		// Strict > keeps the earliest-defined rule on equal score and
		// priority; priority comparison handles equal scores across types
		if score > bestScore || (score == bestScore && typePriority[rule.Type] > typePriority[best.Type]) {
			bestScore = score
			best.Type = rule.Type
		}
	}

	best.Confidence = bestScore
	if best.Confidence > 100 {
		best.Confidence = 100
	}
	if best.Confidence < c.minConfidence {
		best.Type = emaildomain.TypeOther
	}

	best.Metadata = extractMetadata(msg, best.Type)
	return best
}

// MinConfidence exposes the configured threshold
func (c *Classifier) MinConfidence() int { return c.minConfidence }
