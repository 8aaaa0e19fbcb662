package model

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/heartrisk/internal/config"
)

// Models is the read-only pair of classifiers shared by every prediction in
// one process.
type Models struct {
	Tabular TabularModel
	Image   ImageModel

	closers []func()
	ownsEnv bool
}

// Load opens both artifacts. Any failure is returned before a prediction can
// run, and whatever was already opened is released.
func Load(cfg config.ModelsConfig, imageSize int) (*Models, error) {
	m := &Models{}

	if err := m.initEnvironment(cfg.ONNXRuntimeLibrary); err != nil {
		return nil, err
	}

	switch cfg.Tabular.Format {
	case config.TabularFormatONNX:
		tab, err := NewTabularClassifier(cfg.Tabular.Path, cfg.Tabular.MetadataPath)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("load tabular model: %w", err)
		}
		m.Tabular = tab
		m.closers = append(m.closers, tab.Close)
	case config.TabularFormatLinear:
		tab, err := LoadLinearClassifier(cfg.Tabular.Path)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("load tabular model: %w", err)
		}
		m.Tabular = tab
	default:
		m.Close()
		return nil, fmt.Errorf("unknown tabular model format %q", cfg.Tabular.Format)
	}

	img, err := NewImageClassifier(cfg.Image.Path, cfg.Image.MetadataPath, imageSize)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("load image model: %w", err)
	}
	m.Image = img
	m.closers = append(m.closers, img.Close)

	return m, nil
}

func (m *Models) initEnvironment(libraryPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	m.ownsEnv = true
	return nil
}

func (m *Models) Close() {
	for i := len(m.closers) - 1; i >= 0; i-- {
		m.closers[i]()
	}
	m.closers = nil
	if m.ownsEnv {
		ort.DestroyEnvironment()
		m.ownsEnv = false
	}
}
