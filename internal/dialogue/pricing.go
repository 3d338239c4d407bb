package dialogue

import (
	"fmt"
	"regexp"
)

var (
	pricingQuestionPattern = regexp.MustCompile(`(?i)how much|what.*cost|price|pricing|expensive|afford|cost`)
	projectMentionPattern  = regexp.MustCompile(`(?i)kitchen|bathroom|paint|floor|roof|deck|patio|basement|addition|siding|window|door|drywall|electrical|plumbing|hvac|remodel|renovation`)
)

type ballpark struct {
	pattern  *regexp.Regexp
	project  string
	phrase   string
	estimate string
}

// Ballpark ranges quoted when a caller opens with a cost question. Rough
// figures on purpose; real estimates come from the callback.
var ballparks = []ballpark{
	{regexp.MustCompile(`(?i)kitchen`), "Kitchen Remodel", "kitchen remodel", "$15,000 to $50,000 depending on the size and finishes"},
	{regexp.MustCompile(`(?i)bathroom`), "Bathroom Remodel", "bathroom remodel", "$12,000 to $40,000 depending on size and quality"},
	{regexp.MustCompile(`(?i)addition`), "Addition", "addition", "$100 to $300 per square foot"},
	{regexp.MustCompile(`(?i)basement`), "Basement Finishing", "basement finishing", "$30,000 to $75,000 for a typical basement"},
}

const genericBallparkEstimate = "varies based on the scope, typically $20,000 to $100,000"

// isPricingQuestion reports whether the utterance is a cost question about a
// concrete project, the one shape worth answering before interviewing.
func isPricingQuestion(utterance string) bool {
	return pricingQuestionPattern.MatchString(utterance) && projectMentionPattern.MatchString(utterance)
}

// pricingAnswer gives the ballpark line and the project category the question
// implied, pivoting to the name question so the interview keeps moving.
func pricingAnswer(utterance string, nameKnown bool) (line, project string) {
	phrase := "remodel"
	estimate := genericBallparkEstimate
	project = "General Remodel"
	for _, b := range ballparks {
		if b.pattern.MatchString(utterance) {
			phrase, estimate, project = b.phrase, b.estimate, b.project
			break
		}
	}

	followUp := "What's your name?"
	if nameKnown {
		followUp = "What kind of budget are you working with?"
	}
	line = fmt.Sprintf("Great question! A %s typically costs %s. I'd love to help you with this! %s", phrase, estimate, followUp)
	return line, project
}
