package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Brownie44l1/heartrisk/internal/app"
	"github.com/Brownie44l1/heartrisk/internal/config"
	"github.com/Brownie44l1/heartrisk/internal/logging"
	"github.com/Brownie44l1/heartrisk/internal/metrics"
	"github.com/Brownie44l1/heartrisk/internal/model"
	"github.com/Brownie44l1/heartrisk/internal/preprocess"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), app.ErrUsage)
		fmt.Fprintln(flag.CommandLine.Output(), "With no arguments a {\"text\": {...}, \"images\": [...]} document is read from stdin.")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "json", os.Stderr).WithError(err).Error("failed to load config")
		return 1
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("invalid config")
		return 1
	}

	input, err := app.ParseArgs(flag.Args(), pipedInput(os.Stdin))
	if errors.Is(err, app.ErrUsage) {
		flag.Usage()
		return 2
	}
	if err != nil {
		log.WithError(err).Error("failed to parse input")
		return 1
	}

	log.WithField("tabular", cfg.Models.Tabular.Path).
		WithField("image", cfg.Models.Image.Path).
		Debug("loading models")

	models, err := model.Load(cfg.Models, cfg.Images.Size)
	if err != nil {
		log.WithError(err).Error("failed to load models")
		return 1
	}
	defer models.Close()

	transform := preprocess.Transform{Size: cfg.Images.Size}
	if img, ok := models.Image.(*model.ImageClassifier); ok {
		transform.Mean = img.Metadata.Mean
		transform.Std = img.Metadata.Std
	}
	if err := transform.Validate(); err != nil {
		log.WithError(err).Error("invalid image preprocessing")
		return 1
	}

	m := metrics.New()
	runner := &app.Runner{
		Tabular:        models.Tabular,
		Image:          models.Image,
		Transform:      transform,
		FailWholeBatch: cfg.Images.FailWholeBatch,
		Timeout:        cfg.Timeout(),
		Logger:         log,
		Metrics:        m,
	}

	out := runner.Run(context.Background(), input)
	if err := app.Write(os.Stdout, out); err != nil {
		log.WithError(err).Error("failed to write result")
		return 1
	}

	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.WithError(err).Warn("failed to write metrics textfile")
	}
	return 0
}

// pipedInput returns f unless it is a terminal, so an interactive run
// without arguments prints usage instead of waiting on the keyboard.
func pipedInput(f *os.File) io.Reader {
	info, err := f.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return f
}
