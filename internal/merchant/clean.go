package merchant

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Patterns for cleaning raw feed merchant strings
	prefixPattern  = regexp.MustCompile(`(?i)^(pos |debit |eftpos |visa |mastercard |amex |chk |ach |tst\* ?|sq \*|sp \*|pp\*|paypal \*)`)
	suffixPattern  = regexp.MustCompile(`(?i)\s+(pty|ltd|inc|corp|llc|co|com)\.?$`)
	longNumbers    = regexp.MustCompile(`\d{5,}`)
	specialChars   = regexp.MustCompile(`[*#]+`)
	trailingState  = regexp.MustCompile(`\s+[A-Z]{2}\s*$`)
	repeatedSpaces = regexp.MustCompile(`\s{2,}`)
)

var titleCaser = cases.Title(language.English)

// Clean strips processor prefixes, store numbers, and legal suffixes from a
// raw feed merchant string and returns a display name. Cleaning is
// best-effort: an input that reduces to nothing returns the trimmed raw name.
func Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = prefixPattern.ReplaceAllString(cleaned, "")
	cleaned = longNumbers.ReplaceAllString(cleaned, "")
	cleaned = specialChars.ReplaceAllString(cleaned, " ")
	cleaned = suffixPattern.ReplaceAllString(cleaned, "")
	cleaned = trailingState.ReplaceAllString(cleaned, "")
	cleaned = repeatedSpaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(raw)
	}

	words := strings.Fields(cleaned)
	for i, word := range words {
		if len(word) > 2 {
			words[i] = titleCaser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToUpper(word)
		}
	}

	result := strings.Join(words, " ")
	if len(result) > 50 {
		result = strings.TrimSpace(result[:50])
	}
	return result
}
