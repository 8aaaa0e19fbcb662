package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Brownie44l1/heartrisk/internal/model"
)

// FeatureOrder is the column order the tabular model was trained with.
var FeatureOrder = []string{"age", "cholesterol", "bp", "sugar"}

// ExtractFeatures reads the named features in order. Values may be JSON
// numbers or numeric strings; anything else is rejected.
func ExtractFeatures(features map[string]any, order []string) ([]float64, error) {
	vec := make([]float64, len(order))
	for i, name := range order {
		raw, ok := features[name]
		if !ok || raw == nil {
			return nil, fmt.Errorf("%w %q", ErrMissingFeature, name)
		}
		v, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidFeature, name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w %q: not a finite number", ErrInvalidFeature, name)
		}
		vec[i] = v
	}
	return vec, nil
}

// PredictText never fails outright: any error, including a panic inside the
// model, is carried in the result.
func PredictText(m model.TabularModel, features map[string]any) (res TextResult) {
	defer func() {
		if r := recover(); r != nil {
			res = TextResult{Err: fmt.Errorf("model panic: %v", r)}
		}
	}()

	order := m.FeatureNames()
	if len(order) == 0 {
		order = FeatureOrder
	}

	vec, err := ExtractFeatures(features, order)
	if err != nil {
		return TextResult{Err: err}
	}

	label, err := m.Predict(vec)
	if err != nil {
		return TextResult{Err: err}
	}
	return TextResult{Label: label}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
