package intake

// Slots holds the fields the intake dialogue tries to collect from a caller.
// Empty string means the slot is still unknown. Phone is seeded from the
// caller id at the start of the call and is never extracted from speech.
type Slots struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	ProjectType  string `json:"project_type"`
	Budget       string `json:"budget"`
	Timeline     string `json:"timeline"`
	PropertyType string `json:"property_type"`
}

// HasName reports whether the caller's name has been collected.
func (s Slots) HasName() bool { return s.Name != "" }

// Complete reports whether enough information exists to close the call:
// a name plus at least one of project type or budget. Timeline and property
// type are nice-to-have and never gate closing.
func (s Slots) Complete() bool {
	return s.Name != "" && (s.ProjectType != "" || s.Budget != "")
}

// Missing lists the required slots still unset, in the order the dialogue
// asks for them.
func (s Slots) Missing() []string {
	var out []string
	if s.Name == "" {
		out = append(out, "name")
	}
	if s.ProjectType == "" {
		out = append(out, "project type")
	}
	if s.Budget == "" {
		out = append(out, "budget")
	}
	return out
}
