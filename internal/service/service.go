package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func requireUser(ctx context.Context, users domain.UserRepository, id int64) error {
	ok, err := users.UserExists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user %d: %w", id, err)
	}
	if !ok {
		return domain.NotFound(fmt.Sprintf("user %d not found", id))
	}
	return nil
}

func checkPage(page models.Page) error {
	if !page.Valid() {
		return domain.Validation("from must be non-negative and size must be positive")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
