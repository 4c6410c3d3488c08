package api

import (
	"context"

	"gocollab/internal/auth/domain/entities"
)

// AccountUseCase определяет операции с учетными записями.
type AccountUseCase interface {
	Register(ctx context.Context, login, email, password string) (*entities.Account, error)

	GetProfile(ctx context.Context, accountID string) (*entities.Account, error)
}
