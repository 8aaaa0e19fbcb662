package decision

import "github.com/Brownie44l1/heartrisk/internal/predict"

const (
	Low      = "Low"
	Moderate = "Moderate"
	High     = "High"
)

// Image risk classes: 0=Low, 1=Moderate, 2=High.
const (
	riskModerate = 1
	riskHigh     = 2
)

type Decision struct {
	RiskLevel      string `json:"risk_level"`
	Recommendation string `json:"recommendation"`
}

// Combine merges the tabular label and the per-image risk classes. High
// beats Moderate beats Low, and either source alone can raise the tier.
// Failed results never contribute.
func Combine(text predict.TextResult, images []predict.ImageResult) Decision {
	var moderate, high bool
	for _, img := range images {
		if !img.OK() {
			continue
		}
		switch img.Risk {
		case riskHigh:
			high = true
		case riskModerate:
			moderate = true
		}
	}
	if text.OK() {
		switch text.Label {
		case High:
			high = true
		case Moderate:
			moderate = true
		}
	}

	level := Low
	switch {
	case high:
		level = High
	case moderate:
		level = Moderate
	}
	return Decision{RiskLevel: level, Recommendation: Recommendation(level)}
}

func Recommendation(level string) string {
	switch level {
	case High:
		return "Consult a cardiologist immediately."
	case Moderate:
		return "Adopt a healthy lifestyle and routine checkups."
	default:
		return "Maintain a healthy lifestyle."
	}
}
