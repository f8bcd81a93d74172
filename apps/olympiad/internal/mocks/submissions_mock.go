package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/database"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/repositories"
)

type MockSubmissionRepository struct {
	mu          sync.Mutex
	nextID      int64
	submissions []models.Submission
}

func NewMockSubmissionRepository() repositories.Submissions {
	return &MockSubmissionRepository{
		mu:          sync.Mutex{},
		nextID:      1,
		submissions: []models.Submission{},
	}
}

func (m *MockSubmissionRepository) Save(
	_ context.Context,
	submission *models.Submission,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	submission.ID = m.nextID
	submission.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Second)
	m.nextID++

	m.submissions = append(m.submissions, *submission)
	return nil
}

func (m *MockSubmissionRepository) GetByID(
	_ context.Context,
	id int64,
) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, database.ErrResourceNotFound
	}

	submission := m.submissions[i]
	return &submission, nil
}

func (m *MockSubmissionRepository) ListByStatus(
	_ context.Context,
	status models.Status,
) ([]models.Submission, error) {
	return m.filter(func(s models.Submission) bool { return s.Status == status }), nil
}

func (m *MockSubmissionRepository) ListByUser(
	_ context.Context,
	userID string,
) ([]models.Submission, error) {
	return m.filter(func(s models.Submission) bool { return s.UserID == userID }), nil
}

func (m *MockSubmissionRepository) ListAll(
	_ context.Context,
) ([]models.Submission, error) {
	return m.filter(func(models.Submission) bool { return true }), nil
}

func (m *MockSubmissionRepository) UpdateStatus(
	_ context.Context,
	id int64,
	status models.Status,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return database.ErrResourceNotFound
	}

	m.submissions[i].Status = status
	return nil
}

func (m *MockSubmissionRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return database.ErrResourceNotFound
	}

	m.submissions = slices.Delete(m.submissions, i, i+1)
	return nil
}

func (m *MockSubmissionRepository) index(id int64) int {
	return slices.IndexFunc(m.submissions, func(s models.Submission) bool {
		return s.ID == id
	})
}

// filter returns matches newest first.
func (m *MockSubmissionRepository) filter(
	keep func(models.Submission) bool,
) []models.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []models.Submission{}
	for i := len(m.submissions) - 1; i >= 0; i-- {
		if keep(m.submissions[i]) {
			result = append(result, m.submissions[i])
		}
	}

	return result
}
