package model

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ImageClassifier wraps an ONNX graph with one image input and two score
// outputs (disease class and risk class). Tensors are allocated once and
// reused, so an ImageClassifier must not be used concurrently.
type ImageClassifier struct {
	session       *ort.AdvancedSession
	Metadata      ImageMetadata
	inputTensor   *ort.Tensor[float32]
	diseaseTensor *ort.Tensor[float32]
	riskTensor    *ort.Tensor[float32]
}

// NewImageClassifier expects the ONNX environment to be initialised.
func NewImageClassifier(modelPath, metadataPath string, imageSize int) (*ImageClassifier, error) {
	var metadata ImageMetadata
	if metadataPath != "" {
		if err := readJSON(metadataPath, &metadata); err != nil {
			return nil, fmt.Errorf("image metadata: %w", err)
		}
	}
	if err := metadata.complete(imageSize); err != nil {
		return nil, err
	}

	c := &ImageClassifier{Metadata: metadata}
	var err error

	c.inputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	c.diseaseTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.DiseaseShape...))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create disease output tensor: %w", err)
	}

	c.riskTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.RiskShape...))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create risk output tensor: %w", err)
	}

	c.session, err = ort.NewAdvancedSession(modelPath,
		[]string{metadata.InputName}, []string{metadata.DiseaseOutput, metadata.RiskOutput},
		[]ort.ArbitraryTensor{c.inputTensor},
		[]ort.ArbitraryTensor{c.diseaseTensor, c.riskTensor},
		nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create image ONNX session: %w", err)
	}

	return c, nil
}

func (c *ImageClassifier) Infer(input []float32) (ImageScores, error) {
	data := c.inputTensor.GetData()
	if len(input) != len(data) {
		return ImageScores{}, fmt.Errorf("expected %d input values, got %d", len(data), len(input))
	}
	copy(data, input)

	if err := c.session.Run(); err != nil {
		return ImageScores{}, fmt.Errorf("inference failed: %w", err)
	}

	// Output tensors are overwritten by the next Run.
	return ImageScores{
		Disease: append([]float32(nil), c.diseaseTensor.GetData()...),
		Risk:    append([]float32(nil), c.riskTensor.GetData()...),
	}, nil
}

func (c *ImageClassifier) Close() {
	if c.session != nil {
		c.session.Destroy()
	}
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.diseaseTensor != nil {
		c.diseaseTensor.Destroy()
	}
	if c.riskTensor != nil {
		c.riskTensor.Destroy()
	}
}

// complete fills in names and shapes the metadata file left out and checks
// that the input matches the configured square resolution.
func (m *ImageMetadata) complete(imageSize int) error {
	if m.InputName == "" {
		m.InputName = "input"
	}
	if m.DiseaseOutput == "" {
		m.DiseaseOutput = "disease"
	}
	if m.RiskOutput == "" {
		m.RiskOutput = "risk"
	}
	if m.ImageSize == 0 {
		m.ImageSize = imageSize
	}
	if m.ImageSize != imageSize {
		return fmt.Errorf("image model expects %dx%d input, configured size is %d", m.ImageSize, m.ImageSize, imageSize)
	}

	size := int64(imageSize)
	if len(m.InputShape) == 0 {
		m.InputShape = []int64{1, 3, size, size}
	}
	if len(m.InputShape) != 4 || m.InputShape[0] != 1 || m.InputShape[1] != 3 ||
		m.InputShape[2] != size || m.InputShape[3] != size {
		return fmt.Errorf("image model input shape %v does not match [1 3 %d %d]", m.InputShape, size, size)
	}

	if len(m.DiseaseShape) == 0 {
		if len(m.DiseaseClasses) == 0 {
			return fmt.Errorf("image metadata needs disease_shape or disease_classes")
		}
		m.DiseaseShape = []int64{1, int64(len(m.DiseaseClasses))}
	}
	if len(m.RiskShape) == 0 {
		if len(m.RiskClasses) == 0 {
			return fmt.Errorf("image metadata needs risk_shape or risk_classes")
		}
		m.RiskShape = []int64{1, int64(len(m.RiskClasses))}
	}
	if len(m.Mean) != 0 && len(m.Mean) != 3 {
		return fmt.Errorf("image metadata mean must have 3 values, got %d", len(m.Mean))
	}
	if len(m.Std) != 0 && len(m.Std) != 3 {
		return fmt.Errorf("image metadata std must have 3 values, got %d", len(m.Std))
	}
	return nil
}
