package domain

import "context"

// HistoryService manages the user's saved diagnosis history on the backend.
type HistoryService interface {
	// DeleteHistoryEntry returns false if the backend refused to delete the entry.
	DeleteHistoryEntry(ctx context.Context, id int) (bool, error)
}

// SessionService authenticates the client against the backend. Every other service shares the resulting session.
type SessionService interface {
	Login(ctx context.Context, email, password string) error
}
