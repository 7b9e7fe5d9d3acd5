package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"kgeyst.com/dermachat/pkg/common"
)

const (
	deleteConfirmationPrompt = "Are you sure you want to delete this entry? [y/N] "
	deleteRefusedMessage     = "Failed to delete the entry."
	deleteFailedMessage      = "An error occurred while deleting."
	deleteUsageMessage       = "usage: :delete <id>"
)

type historyEntryDeleter interface {
	DeleteHistoryEntry(ctx context.Context, id int) (bool, error)
	Logger() common.Logger
}

// deleteHistoryEntry asks for confirmation through `confirm` and deletes the entry. Returns what to show the user;
// an empty message means the user changed their mind.
func deleteHistoryEntry(
	ctx context.Context,
	deleter historyEntryDeleter,
	argument string,
	confirm func(prompt string) (string, error),
) (message string, isError bool) {
	id, err := strconv.Atoi(argument)
	if err != nil {
		return deleteUsageMessage, true
	}
	answer, err := confirm(deleteConfirmationPrompt)
	if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
		return "", false
	}
	success, err := deleter.DeleteHistoryEntry(ctx, id)
	switch {
	case err != nil:
		deleter.Logger().Log(fmt.Sprintf("failed to delete history entry %d: %s", id, err))
		return deleteFailedMessage, true
	case !success:
		return deleteRefusedMessage, true
	default:
		return fmt.Sprintf("Entry %d deleted.", id), false
	}
}
