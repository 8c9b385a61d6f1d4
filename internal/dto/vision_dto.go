package dto

type ExtractionResponse struct {
	Visible         bool     `json:"visible"`
	Confidence      float64  `json:"confidence"`
	ConfidenceLabel string   `json:"confidence_label,omitempty"`
	Shape           string   `json:"shape,omitempty"`
	Observations    []string `json:"observations"`
}
