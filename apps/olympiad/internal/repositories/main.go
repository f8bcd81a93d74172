package repositories

import (
	"context"

	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
)

type Submissions interface {
	Save(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Submission, error)
	ListByUser(ctx context.Context, userID string) ([]models.Submission, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	Delete(ctx context.Context, id int64) error
}

type Repositories struct {
	Submissions Submissions
}

func New(db postgres.DB) *Repositories {
	return &Repositories{
		Submissions: &SubmissionRepository{db: db},
	}
}
