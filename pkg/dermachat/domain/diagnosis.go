package domain

import "context"

// DiagnosisResult is what the Prediction Service detected. It's the context of every chat turn until the next
// successful prediction replaces it.
type DiagnosisResult struct {
	ConditionLabel string
	// ImageReference is opaque to the client; it's passed back to the Conversation Service as is.
	ImageReference string
}

type PredictionService interface {
	Predict(ctx context.Context, image *CapturedImage) (*DiagnosisResult, error)
}
