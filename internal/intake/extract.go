package intake

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:my name is|name is|i'm|i am|this is|call me|it's|name's)\s+([a-zA-Z]+(?:\s+[a-zA-Z]+)?)`),
	regexp.MustCompile(`(?i)^(?:(?:yes|yeah|yep|sure|okay|ok)[,.!]?\s+)?([a-zA-Z]+(?:\s+[a-zA-Z]+)?)\.?$`),
	regexp.MustCompile(`(?i)([a-zA-Z]+(?:\s+[a-zA-Z]+)?)\s*(?:here|speaking)\.?$`),
}

// Words that show up where a name would, but never are one.
var nonNameWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "okay": true, "ok": true,
	"hello": true, "hi": true, "hey": true,
	"kitchen": true, "bathroom": true, "remodel": true, "renovation": true,
	"addition": true, "roofing": true, "basement": true, "deck": true,
	"patio": true, "flooring": true, "painting": true, "project": true,
	"work": true, "need": true, "want": true, "looking": true, "interested": true,
	"here": true, "speaking": true,
	"for": true, "my": true, "our": true, "just": true, "not": true,
	"um": true, "uh": true, "hmm": true, "thinking": true, "about": true,
	"a": true, "the": true, "and": true,
}

// projectKeywords maps utterance keywords to a project category. Evaluated in
// order; the first match wins.
var projectKeywords = []struct {
	pattern  *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`kitchen`), "Kitchen Remodel"},
	{regexp.MustCompile(`bathroom`), "Bathroom Remodel"},
	{regexp.MustCompile(`addition|add on|extension|expand`), "Addition"},
	{regexp.MustCompile(`roof|roofing`), "Roofing"},
	{regexp.MustCompile(`basement`), "Basement Finishing"},
	{regexp.MustCompile(`deck|patio`), "Deck/Patio"},
	{regexp.MustCompile(`siding|exterior`), "Exterior Renovation"},
	{regexp.MustCompile(`window|door`), "Windows/Doors"},
	{regexp.MustCompile(`flooring|floor`), "Flooring"},
	{regexp.MustCompile(`paint|painting`), "Painting"},
	{regexp.MustCompile(`drywall`), "Drywall"},
	{regexp.MustCompile(`electrical|electric`), "Electrical"},
	{regexp.MustCompile(`plumbing|plumber`), "Plumbing"},
	{regexp.MustCompile(`hvac|heating|cooling`), "HVAC"},
	{regexp.MustCompile(`remodel|renovation`), "General Remodel"},
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$?\d{1,3}(?:,\d{3})+`),
	regexp.MustCompile(`(?i)\$?\d+k\b`),
	regexp.MustCompile(`\$?\d{4,}`),
}

var budgetApproxPattern = regexp.MustCompile(`(?i)(?:around|about|roughly|approximately)\s+\$?\d+`)

var (
	timelineASAPPattern     = regexp.MustCompile(`asap|soon|immediately|right away|next week`)
	timelineOneMonthPattern = regexp.MustCompile(`(?:next|within|in)\s+(?:a\s+)?month`)
	timelineMonthsPattern   = regexp.MustCompile(`(?:next|within|in)\s+(?:\d+\s+)?(?:few\s+)?months?`)
	timelineThisYearPattern = regexp.MustCompile(`this year|later this year`)
	timelineNextYearPattern = regexp.MustCompile(`next year`)
)

var (
	residentialPattern = regexp.MustCompile(`home|house|residential|personal`)
	commercialPattern  = regexp.MustCompile(`commercial|business|office|store|shop`)
)

// Extract scans one caller utterance and fills any slot still unset.
// It is pure: slots already set are never overwritten or corrected, and every
// slot is evaluated independently, so a single utterance can fill several.
func Extract(utterance string, slots Slots) Slots {
	lower := strings.ToLower(utterance)

	if slots.Name == "" {
		slots.Name = extractName(utterance)
	}

	if slots.ProjectType == "" {
		for _, kw := range projectKeywords {
			if kw.pattern.MatchString(lower) {
				slots.ProjectType = kw.category
				break
			}
		}
	}

	if slots.Budget == "" {
		slots.Budget = extractBudget(utterance, lower)
	}

	if slots.Timeline == "" {
		switch {
		case timelineASAPPattern.MatchString(lower):
			slots.Timeline = "ASAP"
		case timelineOneMonthPattern.MatchString(lower):
			slots.Timeline = "Within 1 month"
		case timelineMonthsPattern.MatchString(lower):
			slots.Timeline = "1-3 months"
		case timelineThisYearPattern.MatchString(lower):
			slots.Timeline = "This year"
		case timelineNextYearPattern.MatchString(lower):
			slots.Timeline = "Next year"
		}
	}

	if slots.PropertyType == "" {
		switch {
		case residentialPattern.MatchString(lower):
			slots.PropertyType = "Residential"
		case commercialPattern.MatchString(lower):
			slots.PropertyType = "Commercial"
		}
	}

	return slots
}

func extractName(utterance string) string {
	for _, pattern := range namePatterns {
		m := pattern.FindStringSubmatch(utterance)
		if m == nil || m[1] == "" {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		words := strings.Fields(strings.ToLower(candidate))
		if len(words) > 3 {
			continue
		}
		clean := true
		for _, w := range words {
			if nonNameWords[w] {
				clean = false
				break
			}
		}
		if clean {
			return candidate
		}
	}
	return ""
}

func extractBudget(utterance, lower string) string {
	for _, pattern := range budgetPatterns {
		if m := pattern.FindString(utterance); m != "" {
			return m
		}
	}
	// Spoken multipliers ("30 thousand") beat the loose approx pattern, which
	// would otherwise capture just the bare number.
	if m := budgetFromWords(utterance, lower); m != "" {
		return m
	}
	return budgetApproxPattern.FindString(utterance)
}

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var (
	digitMillionPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*million`)
	oneMillionPattern    = regexp.MustCompile(`(?i)\b(?:a|one)\s*million`)
	digitThousandPattern = regexp.MustCompile(`(?i)(\d+)\s*thousand`)
	oneThousandPattern   = regexp.MustCompile(`(?i)\b(?:a|one)\s*thousand`)
	digitHundredPattern  = regexp.MustCompile(`(?i)(\d+)\s*hundred`)
)

// budgetFromWords handles spoken amounts the transcription renders as words,
// like "fifty thousand" or "about a million".
func budgetFromWords(utterance, lower string) string {
	switch {
	case strings.Contains(lower, "million"):
		if m := digitMillionPattern.FindStringSubmatch(utterance); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return formatDollars(int(v * 1_000_000))
			}
		}
		if oneMillionPattern.MatchString(utterance) {
			return formatDollars(1_000_000)
		}
		if n := spelledMultiplier(lower, "million"); n > 0 {
			return formatDollars(n * 1_000_000)
		}
	case strings.Contains(lower, "thousand"):
		if m := digitThousandPattern.FindStringSubmatch(utterance); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return formatDollars(n * 1000)
			}
		}
		if oneThousandPattern.MatchString(utterance) {
			return formatDollars(1000)
		}
		if n := spelledMultiplier(lower, "thousand"); n > 0 {
			return formatDollars(n * 1000)
		}
	case strings.Contains(lower, "hundred"):
		if m := digitHundredPattern.FindStringSubmatch(utterance); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return formatDollars(n * 100)
			}
		}
		if n := spelledMultiplier(lower, "hundred"); n > 0 {
			return formatDollars(n * 100)
		}
	}
	return ""
}

func spelledMultiplier(lower, unit string) int {
	words := strings.Fields(lower)
	for i := 0; i < len(words)-1; i++ {
		if strings.TrimRight(words[i+1], ".,!?") == unit {
			if n, ok := wordNumbers[strings.TrimRight(words[i], ".,!?")]; ok {
				return n
			}
		}
	}
	return 0
}

func formatDollars(amount int) string {
	s := strconv.Itoa(amount)
	if len(s) <= 3 {
		return "$" + s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return fmt.Sprintf("$%s", strings.Join(parts, ","))
}
