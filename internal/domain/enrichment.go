package domain

// Enrichment is the AI-generated annotation of a Profile.
type Enrichment struct {
	ProfessionalSummary string   `json:"professionalSummary"`
	TopSkills           []string `json:"topSkills"`
	SuggestedRoles      []string `json:"suggestedRoles"`
	FunFact             string   `json:"funFact"`
}

// FallbackEnrichment is shown whenever the model cannot produce a usable answer.
func FallbackEnrichment() Enrichment {
	return Enrichment{
		ProfessionalSummary: "AI analysis unavailable at the moment.",
		TopSkills:           []string{},
		SuggestedRoles:      []string{},
		FunFact:             "Only human intelligence available right now.",
	}
}

// Clone returns a copy that shares no slices with e.
func (e Enrichment) Clone() Enrichment {
	e.TopSkills = append([]string{}, e.TopSkills...)
	e.SuggestedRoles = append([]string{}, e.SuggestedRoles...)
	return e
}
