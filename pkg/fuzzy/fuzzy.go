package fuzzy

import (
	"strings"
	"unicode"
)

// corporate suffixes stripped before comparing company names
var companySuffixes = []string{
	"inc", "inc.", "llc", "ltd", "ltd.", "gmbh", "s.a.", "sas", "bv",
	"co", "co.", "corp", "corp.", "corporation", "company", "limited",
	"holdings", "group", "technologies", "labs",
}

// Normalize lowercases a string, strips accents and collapses whitespace
func Normalize(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '@':
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return b.String()
}

// NormalizeCompany normalizes a company name for equality comparison:
// lowercase, no punctuation noise, corporate suffixes removed.
// "Acme Inc." and "ACME" compare equal after normalization.
func NormalizeCompany(name string) string {
	norm := Normalize(name)
	fields := strings.Fields(norm)
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if !isCompanySuffix(last) {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

func isCompanySuffix(word string) bool {
	for _, s := range companySuffixes {
		if word == s {
			return true
		}
	}
	return false
}

// LevenshteinDistance calculates the edit distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	s1 = Normalize(s1)
	s2 = Normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// FuzzyMatch checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance per word
func FuzzyMatch(query, text string, threshold int) bool {
	query = Normalize(query)
	text = Normalize(text)

	if query == "" {
		return true
	}

	if strings.Contains(text, query) {
		return true
	}

	words := strings.Fields(text)
	for _, word := range words {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	return false
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
