package predict

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMissingFeature = errors.New("missing feature")
	ErrInvalidFeature = errors.New("invalid feature")
)

// TextResult is either a label from the tabular model or the reason no label
// could be produced.
type TextResult struct {
	Label string
	Err   error
}

func (r TextResult) OK() bool { return r.Err == nil }

// String is the wire form: the label, or a readable error message.
func (r TextResult) String() string {
	if r.Err != nil {
		return "Text prediction error: " + r.Err.Error()
	}
	return r.Label
}

func (r TextResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// ImageResult is one image's disease and risk class, or the reason it could
// not be scored.
type ImageResult struct {
	Path    string
	Disease int
	Risk    int
	Err     error
}

func (r ImageResult) OK() bool { return r.Err == nil }

type imageRecord struct {
	Disease int `json:"disease"`
	Risk    int `json:"risk"`
}

// MarshalJSON emits {"disease":n,"risk":n} on success and an error string
// otherwise.
func (r ImageResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(imageError(r.Err))
	}
	return json.Marshal(imageRecord{Disease: r.Disease, Risk: r.Risk})
}

func imageError(err error) string {
	return fmt.Sprintf("Image prediction error: %v", err)
}
