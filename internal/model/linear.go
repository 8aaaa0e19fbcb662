package model

import (
	"fmt"
	"math"
)

// LinearClassifier scores a JSON-exported linear model in pure Go.
type LinearClassifier struct {
	artifact LinearArtifact
}

func LoadLinearClassifier(path string) (*LinearClassifier, error) {
	var artifact LinearArtifact
	if err := readJSON(path, &artifact); err != nil {
		return nil, fmt.Errorf("tabular artifact: %w", err)
	}
	return NewLinearClassifier(artifact)
}

func NewLinearClassifier(artifact LinearArtifact) (*LinearClassifier, error) {
	if len(artifact.Classes) < 2 {
		return nil, fmt.Errorf("linear model needs at least 2 classes, got %d", len(artifact.Classes))
	}
	rows := len(artifact.Coefficients)
	binary := rows == 1 && len(artifact.Classes) == 2
	if !binary && rows != len(artifact.Classes) {
		return nil, fmt.Errorf("linear model has %d coefficient rows for %d classes", rows, len(artifact.Classes))
	}
	if len(artifact.Intercepts) != rows {
		return nil, fmt.Errorf("linear model has %d intercepts for %d coefficient rows", len(artifact.Intercepts), rows)
	}
	width := len(artifact.Coefficients[0])
	if width == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	for i, row := range artifact.Coefficients {
		if len(row) != width {
			return nil, fmt.Errorf("coefficient row %d has %d values, want %d", i, len(row), width)
		}
	}
	if len(artifact.FeatureNames) != 0 && len(artifact.FeatureNames) != width {
		return nil, fmt.Errorf("linear model names %d features but has %d coefficients", len(artifact.FeatureNames), width)
	}
	return &LinearClassifier{artifact: artifact}, nil
}

func (c *LinearClassifier) FeatureNames() []string {
	return c.artifact.FeatureNames
}

func (c *LinearClassifier) Predict(features []float64) (string, error) {
	coefs := c.artifact.Coefficients
	if len(features) != len(coefs[0]) {
		return "", fmt.Errorf("expected %d features, got %d", len(coefs[0]), len(features))
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("feature %d is not finite", i)
		}
	}

	if len(coefs) == 1 {
		p := sigmoid(dot(coefs[0], features) + c.artifact.Intercepts[0])
		if p >= 0.5 {
			return c.artifact.Classes[1], nil
		}
		return c.artifact.Classes[0], nil
	}

	best := 0
	bestScore := math.Inf(-1)
	for k, row := range coefs {
		score := dot(row, features) + c.artifact.Intercepts[k]
		if score > bestScore {
			bestScore = score
			best = k
		}
	}
	return c.artifact.Classes[best], nil
}

func dot(weights, sample []float64) float64 {
	var sum float64
	for i := range weights {
		sum += weights[i] * sample[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
