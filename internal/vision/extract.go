// Package vision decides whether a vision analysis is worth showing and turns its
// loosely shaped payload into an ordered list of human-readable observations.
package vision

import (
	"fmt"
	"math"
)

// ConfidenceThreshold is the minimum confidence for feedback to be shown at all.
const ConfidenceThreshold = 0.5

const PlaceholderObservation = "Image analyzed"

// Shape records which part of the payload the observations were taken from.
type Shape string

const (
	ShapeDirect      Shape = "direct"
	ShapeSubAnalyses Shape = "sub_analyses"
	ShapeText        Shape = "text"
	ShapePlaceholder Shape = "placeholder"
)

type Extraction struct {
	Shape Shape    `json:"shape"`
	Lines []string `json:"observations"`
}

// ConfidenceOf reads confidence, then combined_confidence, defaulting to 0.
func ConfidenceOf(p *Payload) float64 {
	if p == nil {
		return 0
	}
	switch {
	case p.Confidence != nil:
		return float64(*p.Confidence)
	case p.CombinedConfidence != nil:
		return float64(*p.CombinedConfidence)
	}
	return 0
}

// Extract resolves the observation lines. Shapes are tried in a fixed order and the
// first applicable one wins, even when it yields no lines.
func Extract(p *Payload) Extraction {
	if p == nil {
		return Extraction{Shape: ShapePlaceholder, Lines: []string{PlaceholderObservation}}
	}

	if p.Observations != nil {
		lines := make([]string, len(p.Observations))
		copy(lines, p.Observations)
		return Extraction{Shape: ShapeDirect, Lines: lines}
	}

	if len(p.Analyses) > 0 {
		lines := []string{}
		for idx, sub := range p.Analyses {
			if len(sub.Observations) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("Image %d:", idx+1))
			for _, obs := range sub.Observations {
				lines = append(lines, "  • "+obs)
			}
		}
		return Extraction{Shape: ShapeSubAnalyses, Lines: lines}
	}

	var lines []string
	if p.Description != "" {
		lines = append(lines, string(p.Description))
	}
	if p.Analysis != "" {
		lines = append(lines, string(p.Analysis))
	}
	if len(lines) > 0 {
		return Extraction{Shape: ShapeText, Lines: lines}
	}

	return Extraction{Shape: ShapePlaceholder, Lines: []string{PlaceholderObservation}}
}

// Percent rounds half up, matching how the confidence readout has always been shown.
func Percent(confidence float64) int {
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return 0
	}
	return int(math.Floor(confidence*100 + 0.5))
}
