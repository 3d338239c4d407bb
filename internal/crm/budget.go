package crm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumberPattern = regexp.MustCompile(`[0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?`)
	kSuffixPattern       = regexp.MustCompile(`(?i)[0-9]\s*k\b`)
)

// BudgetAmount converts a budget slot literal into whole dollars. The slot
// stores whatever text the extractor matched ("$25,000", "5k", "around $30"),
// so the multiplier suffixes spoken budgets use must be honored here: "5k"
// means $5,000, not $5. Unparseable literals come back as 0.
func BudgetAmount(literal string) int {
	lower := strings.ToLower(literal)

	multiplier := 1.0
	switch {
	case strings.Contains(lower, "million"):
		multiplier = 1_000_000
	case strings.Contains(lower, "thousand"), kSuffixPattern.MatchString(literal):
		multiplier = 1000
	}

	num := leadingNumberPattern.FindString(literal)
	if num == "" {
		return 0
	}
	num = strings.ReplaceAll(num, ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return int(v * multiplier)
}
