package vision

import "fmt"

const CardTitle = "💡 What I noticed from your image"

// Card is the view model of the collapsible feedback card. The zero value is an
// invisible card.
type Card struct {
	Visible      bool
	Confidence   float64
	Observations Extraction
	Expanded     bool
}

// Present applies the confidence gate and extracts observations. A card starts
// collapsed.
func Present(p *Payload) Card {
	if p == nil {
		return Card{}
	}

	confidence := ConfidenceOf(p)
	if confidence < ConfidenceThreshold {
		return Card{}
	}

	return Card{
		Visible:      true,
		Confidence:   confidence,
		Observations: Extract(p),
	}
}

// Toggle flips the expanded state. It never touches the extracted data.
func (c *Card) Toggle() {
	if !c.Visible {
		return
	}
	c.Expanded = !c.Expanded
}

func (c Card) Indicator() string {
	if c.Expanded {
		return "▲"
	}
	return "▼"
}

func (c Card) ConfidenceLabel() string {
	return fmt.Sprintf("Confidence: %d%%", Percent(c.Confidence))
}

// Rows lists what is visible below the header: nothing while collapsed, otherwise one
// row per observation followed by the confidence readout.
func (c Card) Rows() []string {
	if !c.Visible || !c.Expanded {
		return nil
	}
	rows := make([]string, 0, len(c.Observations.Lines)+1)
	rows = append(rows, c.Observations.Lines...)
	return append(rows, c.ConfidenceLabel())
}
