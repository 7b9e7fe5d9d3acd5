package backend

import (
	"context"
	"errors"
	"fmt"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

const loginPath = "/login"

var ErrInvalidCredentials = errors.New("invalid email or password")

type sessionService struct {
	client *Client
}

func NewSessionService(client *Client) domain.SessionService {
	return &sessionService{client: client}
}

// Login posts the login form. The backend redirects away from the login page on success and renders the form again
// (with status 200) on failure, so the final URL is what tells them apart.
func (s *sessionService) Login(ctx context.Context, email, password string) error {
	response, err := s.client.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		SetFormData(map[string]string{
			"email":    email,
			"password": password,
		}).
		Post(loginPath)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("login: %w: status %d", ErrUnexpectedResponse, response.StatusCode())
	}
	raw := response.RawResponse
	if raw == nil || raw.Request == nil || raw.Request.URL.Path == loginPath {
		return ErrInvalidCredentials
	}
	return nil
}
