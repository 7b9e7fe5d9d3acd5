package backend

import (
	"context"
	"fmt"
	"strconv"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

type deleteHistoryResponse struct {
	Success bool `json:"success"`
}

type historyService struct {
	client *Client
}

func NewHistoryService(client *Client) domain.HistoryService {
	return &historyService{client: client}
}

func (h *historyService) DeleteHistoryEntry(ctx context.Context, id int) (bool, error) {
	response, err := h.client.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		Post("/delete_history/{id}")
	if err != nil {
		return false, fmt.Errorf("delete history entry %d: %w", id, err)
	}
	var body deleteHistoryResponse
	err = decode(response, &body)
	if err != nil {
		return false, fmt.Errorf("delete history entry %d: %w", id, err)
	}
	return body.Success, nil
}
