package backend

import (
	"bytes"
	"context"
	"fmt"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

const defaultUploadFileName = "capture.jpg"

type predictResponse struct {
	Disease   string `json:"disease"`
	ImageData string `json:"image_data"`
	Error     string `json:"error"`
}

type predictionService struct {
	client *Client
}

func NewPredictionService(client *Client) domain.PredictionService {
	return &predictionService{client: client}
}

func (p *predictionService) Predict(ctx context.Context, image *domain.CapturedImage) (*domain.DiagnosisResult, error) {
	fileName := image.FileName
	if fileName == "" {
		fileName = defaultUploadFileName
	}
	response, err := p.client.http.R().
		SetContext(ctx).
		SetMultipartField("file", fileName, image.MediaType, bytes.NewReader(image.Data)).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	var body predictResponse
	err = decode(response, &body)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if body.Disease == "" {
		if body.Error == "" {
			return nil, fmt.Errorf("predict: %w: neither disease nor error", ErrUnexpectedResponse)
		}
		return nil, domain.NewServiceError(body.Error)
	}
	return &domain.DiagnosisResult{
		ConditionLabel: body.Disease,
		ImageReference: body.ImageData,
	}, nil
}
