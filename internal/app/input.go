package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrUsage means the command line had the wrong shape. It is distinct from
// malformed JSON so callers can pick a different exit status.
var ErrUsage = errors.New("usage: heartrisk [-config file] '<features json>' '<image paths json>'")

var errNoImageList = errors.New("image paths must be a JSON array")

// Input is one scoring request. The JSON field names match the document
// accepted on stdin.
type Input struct {
	Features map[string]any `json:"text"`
	Images   []string       `json:"images"`
}

// ParseArgs accepts either the two positional JSON arguments or, with no
// arguments, a single {"text": {...}, "images": [...]} document on stdin.
// The image list may be empty but must be present and not null.
func ParseArgs(args []string, stdin io.Reader) (Input, error) {
	var in Input
	switch len(args) {
	case 2:
		if err := decode(bytes.NewReader([]byte(args[0])), &in.Features); err != nil {
			return Input{}, fmt.Errorf("parse feature mapping: %w", err)
		}
		if err := decode(bytes.NewReader([]byte(args[1])), &in.Images); err != nil {
			return Input{}, fmt.Errorf("parse image paths: %w", err)
		}
		if in.Images == nil {
			return Input{}, fmt.Errorf("parse image paths: %w", errNoImageList)
		}
	case 0:
		if stdin == nil {
			return Input{}, ErrUsage
		}
		if err := decode(stdin, &in); err != nil {
			return Input{}, fmt.Errorf("parse stdin: %w", err)
		}
		if in.Images == nil {
			return Input{}, fmt.Errorf("parse stdin: images: %w", errNoImageList)
		}
	default:
		return Input{}, ErrUsage
	}
	return in, nil
}

// decode keeps numbers as json.Number so integer features survive unchanged.
func decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
