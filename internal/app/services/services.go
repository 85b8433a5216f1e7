package services

import (
	"context"

	"github.com/nkaya/campusgrid/internal/app/models"
)

// Services defined in this package:
// - CatalogService: course submissions and university catalog review
// - CredentialService: claimed completions and teacher certification

// UserGetter loads users for role and identity checks.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
