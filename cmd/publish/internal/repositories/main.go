package repositories

import (
	"context"

	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"olympiad.xdoubleu.com/internal/models"
)

type Users interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int, error)
	PromoteAdmin(ctx context.Context, id string) error
}

type Repositories struct {
	Users Users
}

func New(db postgres.DB) *Repositories {
	return &Repositories{
		Users: &UserRepository{db: db},
	}
}
