package dialogue

import (
	"fmt"
	"strings"

	"github.com/legacyprime/leadline/internal/intake"
)

// Recognition vocabulary handed to the telephony gateway so domain terms and
// currency words transcribe reliably.
const speechHints = "kitchen,bathroom,remodel,addition,roofing,thousand,dollars,budget,month,months"

const apologyLine = "I apologize, but I'm experiencing technical difficulties. Please call back in a few minutes, or leave a message and we'll call you back."

const goodbyeLine = "Have a great day!"

func greetingLine(companyName string) string {
	return fmt.Sprintf("Thank you for calling %s. How can I help you today?", companyName)
}

func systemInstructions(companyName string) string {
	return fmt.Sprintf(`You are a professional, friendly receptionist for %s.

YOUR JOB:
1. Greet callers warmly and professionally
2. Understand what they need (use natural conversation, don't interrogate)
3. Collect key information naturally: name, project type, budget, timeline
4. Thank them and promise follow-up

IMPORTANT RULES:
- Keep responses SHORT (1-2 sentences maximum)
- Sound natural and conversational, not robotic
- Ask ONE question at a time
- Let the caller talk
- Don't repeat yourself

REMEMBER: Sound like a real person, not a robot. Be warm and helpful.`, companyName)
}

func orUnknown(v string) string {
	if v == "" {
		return "NOT COLLECTED"
	}
	return v
}

func nextQuestionPrompt(slots intake.Slots) string {
	return fmt.Sprintf(`Current information collected:
- Name: %s
- Project Type: %s
- Budget: %s
- Timeline: %s

Missing: %s

Generate the next response. Ask for ONE missing piece of information in a natural way, starting with the first missing item. Keep it SHORT (1 sentence). Don't be repetitive.`,
		orUnknown(slots.Name),
		orUnknown(slots.ProjectType),
		orUnknown(slots.Budget),
		orUnknown(slots.Timeline),
		strings.Join(slots.Missing(), ", "))
}

func closingPrompt(slots intake.Slots) string {
	project := slots.ProjectType
	if project == "" {
		project = "Not specified"
	}
	budget := slots.Budget
	if budget == "" {
		budget = "Not specified"
	}
	return fmt.Sprintf(`The caller has provided enough information. Their details:
Name: %s
Project: %s
Budget: %s
Timeline: %s

Generate a warm closing message thanking them by name and promising a callback within 24 hours. Keep it under 2 sentences.`,
		slots.Name, project, budget, orUnknown(slots.Timeline))
}
