package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/errortools"
	"github.com/xdoubleu/essentia/v2/pkg/tpl"
	"github.com/xhit/go-str2duration/v2"
	"olympiad.xdoubleu.com/cmd/publish/internal/dtos"
	"olympiad.xdoubleu.com/cmd/publish/internal/repositories"
	"olympiad.xdoubleu.com/internal/constants"
	"olympiad.xdoubleu.com/internal/models"
)

// AdminUsername is always granted admin rights.
const AdminUsername = "admin"

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	users            repositories.Users
	client           gotrue.Client
	tpl              *template.Template
	useSecureCookies bool
	accessExpiry     string
	refreshExpiry    string
}

// Register creates the GoTrue account and the local user. The first user
// ever registered becomes an admin.
func (service *AuthService) Register(
	ctx context.Context,
	registerDto *dtos.RegisterDto,
) (*models.User, error) {
	_, err := service.users.GetByUsername(ctx, registerDto.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, database.ErrResourceNotFound) {
		return nil, err
	}

	_, err = service.users.GetByEmail(ctx, registerDto.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, database.ErrResourceNotFound) {
		return nil, err
	}

	count, err := service.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct //don't need other fields
	response, err := service.client.Signup(types.SignupRequest{
		Email:    registerDto.Email,
		Password: registerDto.Password,
		Data: map[string]any{
			"username": registerDto.Username,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	//nolint:exhaustruct //created at is set by the database
	user := &models.User{
		ID:       response.User.ID.String(),
		Username: registerDto.Username,
		Email:    registerDto.Email,
		IsAdmin:  count == 0 || isAdminUsername(registerDto.Username),
	}

	err = service.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureAdmin promotes an existing "admin" account that lost its rights.
func (service *AuthService) EnsureAdmin(ctx context.Context) error {
	user, err := service.users.GetByUsername(ctx, AdminUsername)
	if errors.Is(err, database.ErrResourceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if user.IsAdmin {
		return nil
	}

	return service.users.PromoteAdmin(ctx, user.ID)
}

func (service *AuthService) SignIn(
	ctx context.Context,
	signInDto *dtos.SignInDto,
) (*string, *string, error) {
	user, err := service.users.GetByUsername(ctx, signInDto.Username)
	if errors.Is(err, database.ErrResourceNotFound) {
		return nil, nil, errortools.NewUnauthorizedError(ErrInvalidCredentials)
	}
	if err != nil {
		return nil, nil, err
	}

	//nolint:exhaustruct //don't need other fields
	response, err := service.client.Token(types.TokenRequest{
		GrantType: "password",
		Email:     user.Email,
		Password:  signInDto.Password,
	})
	if err != nil {
		return nil, nil, errortools.NewUnauthorizedError(ErrInvalidCredentials)
	}

	return &response.AccessToken, &response.RefreshToken, nil
}

// GetUser resolves the GoTrue session and merges in the local profile.
func (service *AuthService) GetUser(
	ctx context.Context,
	accessToken string,
) (*models.User, error) {
	response, err := service.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, err
	}

	identity := models.UserFromTypesUser(response.User)

	user, err := service.users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (service *AuthService) SignInWithRefreshToken(
	refreshToken string,
) (*string, *string, error) {
	//nolint:exhaustruct //don't need other fields
	response, err := service.client.Token(types.TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, nil, err
	}

	return &response.AccessToken, &response.RefreshToken, nil
}

func (service *AuthService) SignOut(
	accessToken string,
) (*http.Cookie, *http.Cookie, error) {
	err := service.client.WithToken(accessToken).Logout()
	if err != nil {
		return nil, nil, err
	}

	return service.deleteCookie(models.AccessScope),
		service.deleteCookie(models.RefreshScope),
		nil
}

func (service *AuthService) GetCookieName(scope models.Scope) string {
	switch scope {
	case models.AccessScope:
		return "accessToken"
	case models.RefreshScope:
		return "refreshToken"
	default:
		panic("invalid scope")
	}
}

func (service *AuthService) CreateCookie(
	scope models.Scope,
	token string,
) (*http.Cookie, error) {
	expiry := service.accessExpiry
	if scope == models.RefreshScope {
		expiry = service.refreshExpiry
	}

	ttl, err := str2duration.ParseDuration(expiry)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     service.GetCookieName(scope),
		Value:    token,
		Expires:  time.Now().Add(ttl),
		SameSite: http.SameSiteStrictMode,
		HttpOnly: true,
		Secure:   service.useSecureCookies,
		Path:     "/",
	}, nil
}

func (service *AuthService) deleteCookie(scope models.Scope) *http.Cookie {
	//nolint:exhaustruct //other fields are optional
	return &http.Cookie{
		Name:     service.GetCookieName(scope),
		Value:    "",
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
		HttpOnly: true,
		Secure:   service.useSecureCookies,
		Path:     "/",
	}
}

func (service *AuthService) Access(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenCookie, err := r.Cookie("accessToken")
		if err != nil {
			httptools.UnauthorizedResponse(w, r,
				errortools.NewUnauthorizedError(errors.New("no token in cookies")))
			return
		}

		user, err := service.GetUser(r.Context(), tokenCookie.Value)
		if err != nil {
			httptools.UnauthorizedResponse(w, r,
				errortools.NewUnauthorizedError(errors.New("invalid token")))
			return
		}

		r = r.WithContext(service.contextSetUser(r.Context(), *user))
		next(w, r)
	}
}

func (service *AuthService) TemplateAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := service.currentUser(w, r)
		if user == nil {
			tpl.RenderWithPanic(service.tpl, w, "sign-in.html", nil)
			return
		}

		r = r.WithContext(service.contextSetUser(r.Context(), *user))
		next(w, r)
	}
}

func (service *AuthService) AdminAccess(next http.HandlerFunc) http.HandlerFunc {
	return service.TemplateAccess(func(w http.ResponseWriter, r *http.Request) {
		user := contexttools.GetValue[models.User](r.Context(), constants.UserContextKey)
		if user == nil || !user.IsAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next(w, r)
	})
}

func (service *AuthService) OptionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user := service.currentUser(w, r); user != nil {
			r = r.WithContext(service.contextSetUser(r.Context(), *user))
		}

		next(w, r)
	}
}

// currentUser falls back to the refresh token when the access token is
// missing or expired.
func (service *AuthService) currentUser(
	w http.ResponseWriter,
	r *http.Request,
) *models.User {
	if accessToken, err := r.Cookie("accessToken"); err == nil {
		if user, err := service.GetUser(r.Context(), accessToken.Value); err == nil {
			return user
		}
	}

	return service.refreshTokens(w, r)
}

func (service *AuthService) refreshTokens(
	w http.ResponseWriter,
	r *http.Request,
) *models.User {
	tokenCookie, err := r.Cookie("refreshToken")
	if err != nil {
		return nil
	}

	accessToken, refreshToken, err := service.SignInWithRefreshToken(
		tokenCookie.Value,
	)
	if err != nil {
		return nil
	}

	accessTokenCookie, err := service.CreateCookie(models.AccessScope, *accessToken)
	if err != nil {
		return nil
	}

	refreshTokenCookie, err := service.CreateCookie(models.RefreshScope, *refreshToken)
	if err != nil {
		return nil
	}

	http.SetCookie(w, accessTokenCookie)
	http.SetCookie(w, refreshTokenCookie)

	user, err := service.GetUser(r.Context(), *accessToken)
	if err != nil {
		return nil
	}

	return user
}

func (service *AuthService) contextSetUser(
	ctx context.Context,
	user models.User,
) context.Context {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		//nolint:exhaustruct //other fields are optional
		hub.Scope().SetUser(sentry.User{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		})
	}

	return context.WithValue(ctx, constants.UserContextKey, user)
}

func isAdminUsername(username string) bool {
	return strings.EqualFold(username, AdminUsername)
}
