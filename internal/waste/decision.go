package waste

// #region classification

// Classification is one proposed disposal decision: a candidate produced by
// a fired rule, or the final pick after resolution.
type Classification struct {
	Category         Category `json:"category"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
	DisposalLocation string   `json:"disposal_location"`
}

// #endregion classification

// #region decision

// Decision is the complete, auditable output of one classification cycle.
// Candidates preserve firing order; ReasoningTrace carries one line per rule
// firing plus one line for the resolve or override action.
type Decision struct {
	FinalClassification Classification   `json:"final_classification"`
	Candidates          []Classification `json:"candidates"`
	ReasoningTrace      []string         `json:"reasoning_trace"`
	IsManualOverride    bool             `json:"is_manual_override"`
	ConfidenceScore     float64          `json:"confidence_score"`
}

// #endregion decision
