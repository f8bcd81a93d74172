package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad/internal/dtos"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/repositories"
	"olympiad.xdoubleu.com/apps/olympiad/internal/storage"
	"olympiad.xdoubleu.com/internal/metrics"
	sharedmodels "olympiad.xdoubleu.com/internal/models"
)

var ErrForbidden = errors.New("not allowed to access this submission")

// Upload is a file received from a client.
type Upload struct {
	Name    string
	Content io.Reader
}

type SubmissionService struct {
	logger      *slog.Logger
	submissions repositories.Submissions
	storage     *storage.Storage
}

func (service *SubmissionService) ListApproved(
	ctx context.Context,
) ([]models.Submission, error) {
	return service.submissions.ListByStatus(ctx, models.StatusApproved)
}

func (service *SubmissionService) ListAll(
	ctx context.Context,
) ([]models.Submission, error) {
	return service.submissions.ListAll(ctx)
}

func (service *SubmissionService) ListByUser(
	ctx context.Context,
	userID string,
) ([]models.Submission, error) {
	return service.submissions.ListByUser(ctx, userID)
}

// Create stores the uploads and saves a pending submission. Stored files are
// removed again when saving fails.
func (service *SubmissionService) Create(
	ctx context.Context,
	user sharedmodels.User,
	dto *dtos.CreateSubmissionDto,
	file *Upload,
	video *Upload,
) (*models.Submission, error) {
	//nolint:exhaustruct //other fields are set by the repository
	submission := &models.Submission{
		UserID:   user.ID,
		Username: user.Username,
		Title:    dto.Title,
		Status:   models.StatusPending,
	}

	if dto.Description != "" {
		submission.Description = &dto.Description
	}

	var err error
	submission.FileName, submission.FilePath, err = service.store(storage.KindFile, file)
	if err != nil {
		return nil, err
	}

	submission.VideoName, submission.VideoPath, err = service.store(storage.KindVideo, video)
	if err != nil {
		service.removeFiles(*submission)
		return nil, err
	}

	err = service.submissions.Save(ctx, submission)
	if err != nil {
		service.removeFiles(*submission)
		return nil, err
	}

	metrics.RecordSubmission("uploaded")
	return submission, nil
}

func (service *SubmissionService) Approve(ctx context.Context, id int64) error {
	return service.setStatus(ctx, id, models.StatusApproved)
}

func (service *SubmissionService) Reject(ctx context.Context, id int64) error {
	return service.setStatus(ctx, id, models.StatusRejected)
}

// Delete removes the submission and its stored files.
func (service *SubmissionService) Delete(ctx context.Context, id int64) error {
	submission, err := service.submissions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = service.submissions.Delete(ctx, id)
	if err != nil {
		return err
	}

	service.removeFiles(*submission)
	metrics.RecordSubmission("deleted")

	return nil
}

// GetAccessible returns the submission when it is approved or user is an
// admin.
func (service *SubmissionService) GetAccessible(
	ctx context.Context,
	id int64,
	user *sharedmodels.User,
) (*models.Submission, error) {
	submission, err := service.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !submission.IsApproved() && (user == nil || !user.IsAdmin) {
		return nil, ErrForbidden
	}

	return submission, nil
}

func (service *SubmissionService) Storage() *storage.Storage {
	return service.storage
}

func (service *SubmissionService) setStatus(
	ctx context.Context,
	id int64,
	status models.Status,
) error {
	err := service.submissions.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}

	metrics.RecordSubmission(string(status))
	return nil
}

func (service *SubmissionService) store(
	kind storage.Kind,
	upload *Upload,
) (*string, *string, error) {
	if upload == nil {
		return nil, nil, nil
	}

	name := filepath.Base(upload.Name)
	path, err := service.storage.Save(kind, name, upload.Content)
	if err != nil {
		return nil, nil, err
	}

	return &name, &path, nil
}

func (service *SubmissionService) removeFiles(submission models.Submission) {
	for _, path := range []*string{submission.FilePath, submission.VideoPath} {
		if path == nil {
			continue
		}

		err := service.storage.Delete(*path)
		if err != nil {
			service.logger.Warn(
				"removing stored upload failed",
				slog.String("path", *path),
				logging.ErrAttr(err),
			)
		}
	}
}
