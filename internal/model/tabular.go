package model

import (
	"fmt"
	"strconv"

	ort "github.com/yalue/onnxruntime_go"
)

// TabularClassifier runs a tabular ONNX graph exported the skl2onnx way:
// a float32 [1, n] input and an int64 label output.
type TabularClassifier struct {
	session      *ort.AdvancedSession
	Metadata     TabularMetadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[int64]
}

// NewTabularClassifier expects the ONNX environment to be initialised.
func NewTabularClassifier(modelPath, metadataPath string) (*TabularClassifier, error) {
	var metadata TabularMetadata
	if err := readJSON(metadataPath, &metadata); err != nil {
		return nil, fmt.Errorf("tabular metadata: %w", err)
	}
	if len(metadata.FeatureNames) == 0 {
		return nil, fmt.Errorf("tabular metadata missing feature_names")
	}
	if metadata.InputName == "" {
		metadata.InputName = "float_input"
	}
	if metadata.LabelOutput == "" {
		metadata.LabelOutput = "label"
	}

	c := &TabularClassifier{Metadata: metadata}
	var err error

	c.inputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(metadata.FeatureNames))))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	c.outputTensor, err = ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create label tensor: %w", err)
	}

	c.session, err = ort.NewAdvancedSession(modelPath,
		[]string{metadata.InputName}, []string{metadata.LabelOutput},
		[]ort.ArbitraryTensor{c.inputTensor}, []ort.ArbitraryTensor{c.outputTensor},
		nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create tabular ONNX session: %w", err)
	}

	return c, nil
}

func (c *TabularClassifier) FeatureNames() []string {
	return c.Metadata.FeatureNames
}

func (c *TabularClassifier) Predict(features []float64) (string, error) {
	data := c.inputTensor.GetData()
	if len(features) != len(data) {
		return "", fmt.Errorf("expected %d features, got %d", len(data), len(features))
	}
	for i, v := range features {
		data[i] = float32(v)
	}

	if err := c.session.Run(); err != nil {
		return "", fmt.Errorf("inference failed: %w", err)
	}

	label := c.outputTensor.GetData()[0]
	return classLabel(c.Metadata.Classes, label), nil
}

func (c *TabularClassifier) Close() {
	if c.session != nil {
		c.session.Destroy()
	}
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
}

// classLabel maps a class index to its name. Indices the metadata does not
// name are passed through as numbers.
func classLabel(classes []string, idx int64) string {
	if idx >= 0 && idx < int64(len(classes)) {
		return classes[idx]
	}
	return strconv.FormatInt(idx, 10)
}
