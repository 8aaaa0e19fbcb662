package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TabularFormatLinear = "linear"
	TabularFormatONNX   = "onnx"
)

type Config struct {
	Models    ModelsConfig  `yaml:"models"`
	Images    ImagesConfig  `yaml:"images"`
	TimeoutMs int           `yaml:"timeout_ms"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

type ModelsConfig struct {
	Tabular TabularConfig `yaml:"tabular"`
	Image   ImageConfig   `yaml:"image"`
	// ONNXRuntimeLibrary overrides the onnxruntime shared library location.
	ONNXRuntimeLibrary string `yaml:"onnxruntime_library"`
}

type TabularConfig struct {
	Path         string `yaml:"path"`
	Format       string `yaml:"format"`
	MetadataPath string `yaml:"metadata_path"`
}

type ImageConfig struct {
	Path         string `yaml:"path"`
	MetadataPath string `yaml:"metadata_path"`
}

type ImagesConfig struct {
	Size           int  `yaml:"size"`
	FailWholeBatch bool `yaml:"fail_whole_batch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Models: ModelsConfig{
			Tabular: TabularConfig{
				Path:         "models/heart_model.json",
				Format:       TabularFormatLinear,
				MetadataPath: "models/heart_model_metadata.json",
			},
			Image: ImageConfig{
				Path:         "models/multimodal_fusion.onnx",
				MetadataPath: "models/multimodal_fusion_metadata.json",
			},
		},
		Images: ImagesConfig{
			Size:           224,
			FailWholeBatch: true,
		},
		TimeoutMs: 60000,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Validate reports the first setting that would make model loading or
// prediction impossible.
func (c *Config) Validate() error {
	if c.Models.Tabular.Path == "" {
		return errors.New("models.tabular.path is required")
	}
	if c.Models.Image.Path == "" {
		return errors.New("models.image.path is required")
	}
	switch c.Models.Tabular.Format {
	case TabularFormatLinear:
	case TabularFormatONNX:
		if c.Models.Tabular.MetadataPath == "" {
			return errors.New("models.tabular.metadata_path is required for onnx models")
		}
	default:
		return fmt.Errorf("unknown tabular model format %q", c.Models.Tabular.Format)
	}
	if c.Images.Size <= 0 {
		return fmt.Errorf("images.size must be positive, got %d", c.Images.Size)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HEARTRISK_TABULAR_MODEL"); v != "" {
		cfg.Models.Tabular.Path = v
	}
	if v := os.Getenv("HEARTRISK_TABULAR_FORMAT"); v != "" {
		cfg.Models.Tabular.Format = v
	}
	if v := os.Getenv("HEARTRISK_TABULAR_METADATA"); v != "" {
		cfg.Models.Tabular.MetadataPath = v
	}
	if v := os.Getenv("HEARTRISK_IMAGE_MODEL"); v != "" {
		cfg.Models.Image.Path = v
	}
	if v := os.Getenv("HEARTRISK_IMAGE_METADATA"); v != "" {
		cfg.Models.Image.MetadataPath = v
	}
	if v := os.Getenv("HEARTRISK_ORT_LIBRARY"); v != "" {
		cfg.Models.ONNXRuntimeLibrary = v
	}
	if v := os.Getenv("HEARTRISK_IMAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Images.Size = n
		}
	}
	if v := os.Getenv("HEARTRISK_FAIL_WHOLE_BATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Images.FailWholeBatch = b
		}
	}
	if v := os.Getenv("HEARTRISK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("HEARTRISK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HEARTRISK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("HEARTRISK_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}
