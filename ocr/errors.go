package ocr

import (
	"context"
	"errors"

	"healthchat/model"
)

// recognitionError wraps err with a kind derived from the context and the
// HTTP status, if known.
func recognitionError(engine string, status int, err error) *model.RecognitionError {
	kind := model.KindNetwork
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = model.KindTimeout
	case errors.Is(err, context.Canceled):
		kind = model.KindUnavailable
	case status != 0:
		kind = model.KindStatus
	}
	return &model.RecognitionError{Kind: kind, Engine: engine, Err: err}
}
