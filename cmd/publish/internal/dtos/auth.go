package dtos

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/xdoubleu/essentia/v2/pkg/validate"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 80
)

type SignInDto struct {
	Username   string `schema:"username"`
	Password   string `schema:"password"`
	RememberMe bool   `schema:"rememberMe"`
}

func (dto *SignInDto) Validate() (bool, map[string]string) {
	v := validate.New()

	dto.Username = strings.TrimSpace(dto.Username)

	validate.Check(v, "username", dto.Username, validate.IsNotEmpty)
	validate.Check(v, "password", dto.Password, validate.IsNotEmpty)

	return v.Valid(), v.Errors()
}

type RegisterDto struct {
	Username string `schema:"username"`
	Email    string `schema:"email"`
	Password string `schema:"password"`
}

func (dto *RegisterDto) Validate() (bool, map[string]string) {
	v := validate.New()

	dto.Username = strings.TrimSpace(dto.Username)
	dto.Email = strings.TrimSpace(dto.Email)

	validate.Check(v, "username", dto.Username, validate.IsNotEmpty)
	validate.Check(v, "username", dto.Username, isShortUsername)
	validate.Check(v, "email", dto.Email, validate.IsNotEmpty)
	validate.Check(v, "email", dto.Email, isEmail)
	validate.Check(v, "password", dto.Password, isLongPassword)

	return v.Valid(), v.Errors()
}

func isShortUsername(value string) (bool, string) {
	return utf8.RuneCountInString(value) <= maxUsernameLength,
		"must be at most 80 characters"
}

func isEmail(value string) (bool, string) {
	_, err := mail.ParseAddress(value)
	return err == nil, "must be a valid email address"
}

func isLongPassword(value string) (bool, string) {
	return utf8.RuneCountInString(value) >= minPasswordLength,
		"must be at least 6 characters"
}
