package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Brownie44l1/heartrisk/internal/predict"
)

func label(s string) predict.TextResult { return predict.TextResult{Label: s} }

func img(disease, risk int) predict.ImageResult {
	return predict.ImageResult{Disease: disease, Risk: risk}
}

var imageErr = predict.ImageResult{Err: errors.New("cannot identify image file")}

func TestCombine(t *testing.T) {
	tests := []struct {
		name   string
		text   predict.TextResult
		images []predict.ImageResult
		want   string
	}{
		{"text high", label("High"), []predict.ImageResult{img(0, 0)}, High},
		{"image high", label("Low"), []predict.ImageResult{img(1, 2)}, High},
		{"image moderate", label("Low"), []predict.ImageResult{img(1, 1)}, Moderate},
		{"all low", label("Low"), []predict.ImageResult{img(0, 0)}, Low},
		{"image error ignored", label("Low"), []predict.ImageResult{imageErr}, Low},
		{"text moderate", label("Moderate"), []predict.ImageResult{img(0, 0)}, Moderate},
		{"high beats moderate", label("Moderate"), []predict.ImageResult{img(0, 1), img(2, 2)}, High},
		{"text error", predict.TextResult{Err: errors.New("missing feature")}, []predict.ImageResult{img(0, 0)}, Low},
		{"text error with risky image", predict.TextResult{Err: errors.New("x")}, []predict.ImageResult{img(0, 1)}, Moderate},
		{"no images", label("Low"), nil, Low},
		{"unknown label", label("1"), nil, Low},
		{"out of range risk", label("Low"), []predict.ImageResult{img(0, 7)}, Low},
		{"failed entry with risk value", label("Low"), []predict.ImageResult{{Risk: 2, Err: errors.New("late failure")}}, Low},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.text, tt.images)
			assert.Equal(t, tt.want, got.RiskLevel)
			assert.Equal(t, Recommendation(tt.want), got.Recommendation)
		})
	}
}

func TestTextErrorNeverMatchesLabel(t *testing.T) {
	// An error whose message is a label must not be read as that label.
	got := Combine(predict.TextResult{Err: errors.New("High")}, nil)
	assert.Equal(t, Low, got.RiskLevel)
}

func TestRecommendation(t *testing.T) {
	assert.Equal(t, "Consult a cardiologist immediately.", Recommendation(High))
	assert.Equal(t, "Adopt a healthy lifestyle and routine checkups.", Recommendation(Moderate))
	assert.Equal(t, "Maintain a healthy lifestyle.", Recommendation(Low))
}
