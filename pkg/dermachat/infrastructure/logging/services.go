package logging

import (
	"context"
	"fmt"
	"time"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

type predictionServiceDecorator struct {
	wrapped domain.PredictionService
	logger  common.Logger
}

func NewPredictionServiceDecorator(wrapped domain.PredictionService, logger common.Logger) domain.PredictionService {
	return &predictionServiceDecorator{
		wrapped: wrapped,
		logger:  logger,
	}
}

func (p *predictionServiceDecorator) Predict(ctx context.Context, image *domain.CapturedImage) (*domain.DiagnosisResult, error) {
	p.logger.Log(fmt.Sprintf("predict: uploading %q (%s, %d bytes)", image.FileName, image.MediaType, len(image.Data)))
	t := time.Now()
	result, err := p.wrapped.Predict(ctx, image)
	took := time.Since(t).Milliseconds()
	if err != nil {
		p.logger.Log(fmt.Sprintf("predict: failed after %d ms: %s", took, err))
		return nil, err
	}
	p.logger.Log(fmt.Sprintf("predict: detected %q (took %d ms)", result.ConditionLabel, took))
	return result, nil
}

type conversationServiceDecorator struct {
	wrapped domain.ConversationService
	logger  common.Logger
}

func NewConversationServiceDecorator(wrapped domain.ConversationService, logger common.Logger) domain.ConversationService {
	return &conversationServiceDecorator{
		wrapped: wrapped,
		logger:  logger,
	}
}

func (c *conversationServiceDecorator) Reply(ctx context.Context, request domain.ChatRequest) (string, error) {
	c.logger.Log(fmt.Sprintf("chatbot: disease=%q language=%q message=%q", request.Disease, request.Language, request.Message))
	t := time.Now()
	reply, err := c.wrapped.Reply(ctx, request)
	took := time.Since(t).Milliseconds()
	if err != nil {
		c.logger.Log(fmt.Sprintf("chatbot: failed after %d ms: %s", took, err))
		return "", err
	}
	c.logger.Log(fmt.Sprintf("chatbot: %d chars of reply (took %d ms)", len(reply), took))
	return reply, nil
}
