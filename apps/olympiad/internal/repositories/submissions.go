package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
)

const selectSubmissions = `
	SELECT s.id, s.user_id, u.username, s.title, s.description,
	s.file_name, s.file_path, s.video_name, s.video_path,
	s.status, s.created_at
	FROM olympiad.submissions s
	JOIN global.users u ON u.id = s.user_id
`

type SubmissionRepository struct {
	db postgres.DB
}

func (repo *SubmissionRepository) Save(
	ctx context.Context,
	submission *models.Submission,
) error {
	query := `
		INSERT INTO olympiad.submissions (user_id, title, description,
		file_name, file_path, video_name, video_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := repo.db.QueryRow(
		ctx,
		query,
		submission.UserID,
		submission.Title,
		submission.Description,
		submission.FileName,
		submission.FilePath,
		submission.VideoName,
		submission.VideoPath,
		submission.Status,
	).Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	return nil
}

func (repo *SubmissionRepository) GetByID(
	ctx context.Context,
	id int64,
) (*models.Submission, error) {
	query := selectSubmissions + `WHERE s.id = $1`

	rows, err := repo.db.Query(ctx, query, id)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	submissions, err := scanSubmissions(rows)
	if err != nil {
		return nil, err
	}

	if len(submissions) == 0 {
		return nil, database.ErrResourceNotFound
	}

	return &submissions[0], nil
}

func (repo *SubmissionRepository) ListByStatus(
	ctx context.Context,
	status models.Status,
) ([]models.Submission, error) {
	query := selectSubmissions + `
		WHERE s.status = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := repo.db.Query(ctx, query, status)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return scanSubmissions(rows)
}

func (repo *SubmissionRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]models.Submission, error) {
	query := selectSubmissions + `
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := repo.db.Query(ctx, query, userID)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return scanSubmissions(rows)
}

func (repo *SubmissionRepository) ListAll(
	ctx context.Context,
) ([]models.Submission, error) {
	query := selectSubmissions + `ORDER BY s.created_at DESC, s.id DESC`

	rows, err := repo.db.Query(ctx, query)
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return scanSubmissions(rows)
}

func (repo *SubmissionRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status models.Status,
) error {
	query := `
		UPDATE olympiad.submissions
		SET status = $2
		WHERE id = $1
	`

	result, err := repo.db.Exec(ctx, query, id, status)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		return database.ErrResourceNotFound
	}

	return nil
}

func (repo *SubmissionRepository) Delete(
	ctx context.Context,
	id int64,
) error {
	query := `
		DELETE FROM olympiad.submissions
		WHERE id = $1
	`

	result, err := repo.db.Exec(ctx, query, id)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		return database.ErrResourceNotFound
	}

	return nil
}

func scanSubmissions(rows pgx.Rows) ([]models.Submission, error) {
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		//nolint:exhaustruct //all fields are scanned
		submission := models.Submission{}

		err := rows.Scan(
			&submission.ID,
			&submission.UserID,
			&submission.Username,
			&submission.Title,
			&submission.Description,
			&submission.FileName,
			&submission.FilePath,
			&submission.VideoName,
			&submission.VideoPath,
			&submission.Status,
			&submission.CreatedAt,
		)
		if err != nil {
			return nil, postgres.PgxErrorToHTTPError(err)
		}

		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return submissions, nil
}
