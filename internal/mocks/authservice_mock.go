package mocks

import (
	"context"
	"net/http"

	"olympiad.xdoubleu.com/internal/auth"
	"olympiad.xdoubleu.com/internal/constants"
	"olympiad.xdoubleu.com/internal/models"
)

// NewMockedAuthService treats any request carrying an accessToken cookie as
// signed in as user.
func NewMockedAuthService(user models.User) auth.Service {
	return &MockedAuthService{
		user: user,
	}
}

type MockedAuthService struct {
	user models.User
}

func (m *MockedAuthService) Access(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r, ok := m.withUser(r)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (m *MockedAuthService) TemplateAccess(next http.HandlerFunc) http.HandlerFunc {
	return m.Access(next)
}

func (m *MockedAuthService) AdminAccess(next http.HandlerFunc) http.HandlerFunc {
	return m.Access(func(w http.ResponseWriter, r *http.Request) {
		if !m.user.IsAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next(w, r)
	})
}

func (m *MockedAuthService) OptionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r, _ = m.withUser(r)
		next(w, r)
	}
}

func (m *MockedAuthService) withUser(r *http.Request) (*http.Request, bool) {
	if _, err := r.Cookie("accessToken"); err != nil {
		return r, false
	}

	ctx := context.WithValue(r.Context(), constants.UserContextKey, m.user)
	return r.WithContext(ctx), true
}
