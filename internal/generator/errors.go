package generator

import "fmt"

// Kinds of GenerationError.
const (
	KindModel = "model"
	KindParse = "parse"
)

// GenerationError reports a failed generation for one topic: the model call
// failed (KindModel) or its output was not a JSON article (KindParse).
type GenerationError struct {
	Topic string
	Kind  string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %q (%s): %v", e.Topic, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
