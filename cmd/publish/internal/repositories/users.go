package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"olympiad.xdoubleu.com/internal/models"
)

const selectUsers = `
	SELECT id, username, email, is_admin, created_at
	FROM global.users
`

type UserRepository struct {
	db postgres.DB
}

func (repo *UserRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.User, error) {
	return repo.getOne(ctx, selectUsers+`WHERE id = $1`, id)
}

// GetByUsername matches case-insensitively.
func (repo *UserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {
	return repo.getOne(ctx, selectUsers+`WHERE lower(username) = lower($1)`, username)
}

func (repo *UserRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {
	return repo.getOne(ctx, selectUsers+`WHERE lower(email) = lower($1)`, email)
}

func (repo *UserRepository) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO global.users (id, username, email, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET username = $2, email = $3, is_admin = $4
		RETURNING created_at
	`

	err := repo.db.QueryRow(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.IsAdmin,
	).Scan(&user.CreatedAt)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	return nil
}

func (repo *UserRepository) Count(ctx context.Context) (int, error) {
	var count int

	err := repo.db.QueryRow(ctx, `SELECT count(*) FROM global.users`).Scan(&count)
	if err != nil {
		return 0, postgres.PgxErrorToHTTPError(err)
	}

	return count, nil
}

func (repo *UserRepository) PromoteAdmin(ctx context.Context, id string) error {
	result, err := repo.db.Exec(
		ctx,
		`UPDATE global.users SET is_admin = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return postgres.PgxErrorToHTTPError(err)
	}

	if result.RowsAffected() == 0 {
		return database.ErrResourceNotFound
	}

	return nil
}

func (repo *UserRepository) getOne(
	ctx context.Context,
	query string,
	arg string,
) (*models.User, error) {
	var user models.User

	err := repo.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, database.ErrResourceNotFound
	}
	if err != nil {
		return nil, postgres.PgxErrorToHTTPError(err)
	}

	return &user, nil
}
