package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"olympiad.xdoubleu.com/cmd/publish/internal/dtos"
	"olympiad.xdoubleu.com/cmd/publish/internal/services"
	"olympiad.xdoubleu.com/internal/models"
)

func (app *Application) authRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(fmt.Sprintf("POST /%s/auth/register", prefix), app.registerHandler)
	mux.HandleFunc(fmt.Sprintf("POST /%s/auth/signin", prefix), app.signInHandler)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/auth/signout", prefix),
		app.services.Auth.Access(app.signOutHandler),
	)
}

func (app *Application) registerHandler(w http.ResponseWriter, r *http.Request) {
	var registerDto dtos.RegisterDto

	err := httptools.ReadForm(r, &registerDto)
	if err != nil {
		httptools.RedirectWithError(w, r, "/register", err)
		return
	}

	if ok, errs := registerDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	_, err = app.services.Auth.Register(r.Context(), &registerDto)
	switch {
	case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
		httptools.RedirectWithError(w, r, "/register", err)
		return
	case err != nil:
		httptools.HandleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

func (app *Application) signInHandler(w http.ResponseWriter, r *http.Request) {
	var signInDto dtos.SignInDto

	err := httptools.ReadForm(r, &signInDto)
	if err != nil {
		httptools.RedirectWithError(w, r, "/signin", err)
		return
	}

	if ok, errs := signInDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	accessToken, refreshToken, err := app.services.Auth.SignIn(r.Context(), &signInDto)
	if err != nil {
		httptools.RedirectWithError(w, r, "/signin", err)
		return
	}

	accessTokenCookie, err := app.services.Auth.CreateCookie(
		models.AccessScope,
		*accessToken,
	)
	if err != nil {
		httptools.RedirectWithError(w, r, "/signin", err)
		return
	}

	http.SetCookie(w, accessTokenCookie)

	if signInDto.RememberMe {
		var refreshTokenCookie *http.Cookie
		refreshTokenCookie, err = app.services.Auth.CreateCookie(
			models.RefreshScope,
			*refreshToken,
		)
		if err != nil {
			httptools.RedirectWithError(w, r, "/signin", err)
			return
		}

		http.SetCookie(w, refreshTokenCookie)
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (app *Application) signOutHandler(w http.ResponseWriter, r *http.Request) {
	accessToken, _ := r.Cookie("accessToken")
	refreshToken, _ := r.Cookie("refreshToken")

	deleteAccessTokenCookie, deleteRefreshTokenCookie, err := app.services.Auth.SignOut(
		accessToken.Value,
	)
	if err != nil {
		http.Redirect(w, r, portalPath, http.StatusSeeOther)
		return
	}

	http.SetCookie(w, deleteAccessTokenCookie)

	if refreshToken != nil {
		http.SetCookie(w, deleteRefreshTokenCookie)
	}

	http.Redirect(w, r, portalPath, http.StatusSeeOther)
}
