package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/database"
	"olympiad.xdoubleu.com/internal/models"
)

type MockUserRepository struct {
	mu    sync.Mutex
	users []models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		mu:    sync.Mutex{},
		users: []models.User{},
	}
}

func (repo *MockUserRepository) GetByID(
	_ context.Context,
	id string,
) (*models.User, error) {
	return repo.find(func(user models.User) bool {
		return user.ID == id
	})
}

func (repo *MockUserRepository) GetByUsername(
	_ context.Context,
	username string,
) (*models.User, error) {
	return repo.find(func(user models.User) bool {
		return strings.EqualFold(user.Username, username)
	})
}

func (repo *MockUserRepository) GetByEmail(
	_ context.Context,
	email string,
) (*models.User, error) {
	return repo.find(func(user models.User) bool {
		return strings.EqualFold(user.Email, email)
	})
}

func (repo *MockUserRepository) Save(_ context.Context, user *models.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.users {
		if existing.ID == user.ID {
			user.CreatedAt = existing.CreatedAt
			repo.users[i] = *user
			return nil
		}
	}

	user.CreatedAt = time.Now()
	repo.users = append(repo.users, *user)
	return nil
}

func (repo *MockUserRepository) Count(_ context.Context) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	return len(repo.users), nil
}

func (repo *MockUserRepository) PromoteAdmin(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.users {
		if repo.users[i].ID == id {
			repo.users[i].IsAdmin = true
			return nil
		}
	}

	return database.ErrResourceNotFound
}

func (repo *MockUserRepository) find(
	match func(user models.User) bool,
) (*models.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}

	return nil, database.ErrResourceNotFound
}
