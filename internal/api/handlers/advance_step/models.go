package advance_step

// AdvanceRequest на шаге 3 передается согласие с условиями
type AdvanceRequest struct {
	TermsAccepted *bool `json:"termsAccepted,omitempty"`
}
