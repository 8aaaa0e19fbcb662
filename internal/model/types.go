package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// TabularModel predicts one label from a fixed-order feature vector.
type TabularModel interface {
	Predict(features []float64) (string, error)
	// FeatureNames is the training-time feature order, or nil when the
	// artifact does not record one.
	FeatureNames() []string
}

// ImageModel runs the two-headed image classifier on one preprocessed
// CHW tensor with a leading batch dimension of 1.
type ImageModel interface {
	Infer(input []float32) (ImageScores, error)
}

// ImageScores are the raw per-class scores of the two heads.
type ImageScores struct {
	Disease []float32
	Risk    []float32
}

type ImageMetadata struct {
	InputName      string    `json:"input_name"`
	InputShape     []int64   `json:"input_shape"`
	DiseaseOutput  string    `json:"disease_output"`
	DiseaseShape   []int64   `json:"disease_shape"`
	RiskOutput     string    `json:"risk_output"`
	RiskShape      []int64   `json:"risk_shape"`
	DiseaseClasses []string  `json:"disease_classes"`
	RiskClasses    []string  `json:"risk_classes"`
	ImageSize      int       `json:"image_size"`
	Mean           []float32 `json:"mean"`
	Std            []float32 `json:"std"`
}

type TabularMetadata struct {
	InputName    string   `json:"input_name"`
	LabelOutput  string   `json:"label_output"`
	FeatureNames []string `json:"feature_names"`
	Classes      []string `json:"classes"`
}

// LinearArtifact is a fitted linear classifier exported as JSON. With a
// single coefficient row and two classes it is a binary logistic model;
// otherwise there is one row per class.
type LinearArtifact struct {
	Type         string      `json:"type"`
	FeatureNames []string    `json:"feature_names"`
	Classes      []string    `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
