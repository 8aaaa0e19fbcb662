package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/Brownie44l1/heartrisk/internal/model"
	"github.com/Brownie44l1/heartrisk/internal/preprocess"
)

// PredictImages scores each path in order.
//
// With failWholeBatch set, the first failure discards everything and the
// result is a single failed entry. Otherwise every path gets its own result
// and failures stay local to their image.
func PredictImages(ctx context.Context, m model.ImageModel, t preprocess.Transform, paths []string, failWholeBatch bool) []ImageResult {
	results := make([]ImageResult, 0, len(paths))
	for _, path := range paths {
		res := predictImage(ctx, m, t, path)
		if res.Err != nil && failWholeBatch {
			return []ImageResult{{Path: path, Err: res.Err}}
		}
		results = append(results, res)
	}
	return results
}

func predictImage(ctx context.Context, m model.ImageModel, t preprocess.Transform, path string) (res ImageResult) {
	res.Path = path
	defer func() {
		if r := recover(); r != nil {
			res = ImageResult{Path: path, Err: fmt.Errorf("model panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	img, err := preprocess.Open(path)
	if err != nil {
		res.Err = err
		return res
	}

	scores, err := m.Infer(t.Apply(img))
	if err != nil {
		res.Err = err
		return res
	}

	disease, err := argmax(scores.Disease)
	if err != nil {
		res.Err = fmt.Errorf("disease output: %w", err)
		return res
	}
	risk, err := argmax(scores.Risk)
	if err != nil {
		res.Err = fmt.Errorf("risk output: %w", err)
		return res
	}

	res.Disease = disease
	res.Risk = risk
	return res
}

// argmax returns the index of the largest score; ties go to the lowest index.
func argmax(scores []float32) (int, error) {
	if len(scores) == 0 {
		return 0, errors.New("empty score vector")
	}
	maxIdx := 0
	maxVal := scores[0]
	for i, val := range scores {
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}
	return maxIdx, nil
}
