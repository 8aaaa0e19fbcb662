package app

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Brownie44l1/heartrisk/internal/decision"
	"github.com/Brownie44l1/heartrisk/internal/metrics"
	"github.com/Brownie44l1/heartrisk/internal/model"
	"github.com/Brownie44l1/heartrisk/internal/predict"
	"github.com/Brownie44l1/heartrisk/internal/preprocess"
)

// Output is the single JSON line printed per invocation.
type Output struct {
	TextPrediction   predict.TextResult    `json:"text_prediction"`
	ImagePredictions []predict.ImageResult `json:"image_predictions"`
	FinalDecision    decision.Decision     `json:"final_decision"`
}

// Runner scores one Input: text first, then images in order, then the
// combined decision. Nothing runs concurrently.
type Runner struct {
	Tabular        model.TabularModel
	Image          model.ImageModel
	Transform      preprocess.Transform
	FailWholeBatch bool
	Timeout        time.Duration
	Logger         logrus.FieldLogger
	Metrics        *metrics.Metrics
}

func (r *Runner) Run(ctx context.Context, in Input) Output {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	log := r.Logger.WithField("run_id", uuid.NewString())

	start := time.Now()
	text := predict.PredictText(r.Tabular, in.Features)
	r.observe(metrics.PredictorText, text.OK(), time.Since(start))
	if text.OK() {
		log.WithField("label", text.Label).Debug("text prediction")
	} else {
		log.WithError(text.Err).Warn("text prediction failed")
	}

	start = time.Now()
	images := predict.PredictImages(ctx, r.Image, r.Transform, in.Images, r.FailWholeBatch)
	elapsed := time.Since(start)
	failed := 0
	for _, img := range images {
		if !img.OK() {
			failed++
			log.WithError(img.Err).WithField("path", img.Path).Warn("image prediction failed")
		}
	}
	if len(in.Images) > 0 {
		r.observe(metrics.PredictorImage, failed == 0, elapsed)
	}

	dec := decision.Combine(text, images)
	if r.Metrics != nil {
		r.Metrics.ObserveDecision(dec.RiskLevel)
	}

	log.WithFields(logrus.Fields{
		"images":        len(in.Images),
		"images_failed": failed,
		"risk_level":    dec.RiskLevel,
	}).Info("prediction completed")

	return Output{
		TextPrediction:   text,
		ImagePredictions: images,
		FinalDecision:    dec,
	}
}

func (r *Runner) observe(predictor string, ok bool, elapsed time.Duration) {
	if r.Metrics != nil {
		r.Metrics.ObservePrediction(predictor, ok, elapsed)
	}
}

// Write prints out as exactly one line of JSON.
func Write(w io.Writer, out Output) error {
	return json.NewEncoder(w).Encode(out)
}
