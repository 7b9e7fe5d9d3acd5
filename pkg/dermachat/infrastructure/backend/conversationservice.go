package backend

import (
	"context"
	"fmt"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

type chatRequest struct {
	Disease   string `json:"disease"`
	Message   string `json:"message"`
	ImageData string `json:"imageData"`
	Language  string `json:"language"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

type conversationService struct {
	client *Client
}

func NewConversationService(client *Client) domain.ConversationService {
	return &conversationService{client: client}
}

func (c *conversationService) Reply(ctx context.Context, request domain.ChatRequest) (string, error) {
	response, err := c.client.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Disease:   request.Disease,
			Message:   request.Message,
			ImageData: request.ImageData,
			Language:  request.Language,
		}).
		Post("/chatbot")
	if err != nil {
		return "", fmt.Errorf("chatbot: %w", err)
	}
	var body chatResponse
	err = decode(response, &body)
	if err != nil {
		return "", fmt.Errorf("chatbot: %w", err)
	}
	if body.Response == "" {
		if body.Error == "" {
			return "", fmt.Errorf("chatbot: %w: neither response nor error", ErrUnexpectedResponse)
		}
		return "", domain.NewServiceError(body.Error)
	}
	return body.Response, nil
}
