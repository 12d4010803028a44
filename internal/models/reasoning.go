package models

// ReasoningStepType names one of the eight fixed analytical passes.
type ReasoningStepType string

const (
	StepCategorization      ReasoningStepType = "categorization"
	StepThemeIdentification ReasoningStepType = "theme_identification"
	StepConflictDetection   ReasoningStepType = "conflict_detection"
	StepCrossValidation     ReasoningStepType = "cross_validation"
	StepGapIdentification   ReasoningStepType = "gap_identification"
	StepChronological       ReasoningStepType = "chronological_analysis"
	StepCitationPattern     ReasoningStepType = "citation_pattern_analysis"
	StepSynthesis           ReasoningStepType = "synthesis"
)

// ReasoningStep is the result of one analytical pass over the ranked set.
type ReasoningStep struct {
	StepNumber  int               `json:"step_number"`
	Type        ReasoningStepType `json:"type"`
	Description string            `json:"description"`
	Result      any               `json:"result"`
	Confidence  float64           `json:"confidence"`
	Rationale   string            `json:"rationale"`
}

// ReasoningResult is the full output of the Multi-Turn Reasoner.
type ReasoningResult struct {
	Steps              []ReasoningStep `json:"steps"`
	AggregateConfidence float64        `json:"aggregate_confidence"`
	KeyInsights        []string        `json:"key_insights"`
	RecommendedPapers  []string        `json:"recommended_papers"` // identifiers
}
