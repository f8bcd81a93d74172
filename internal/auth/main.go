package auth

import (
	"net/http"
)

type Service interface {
	Access(next http.HandlerFunc) http.HandlerFunc
	TemplateAccess(next http.HandlerFunc) http.HandlerFunc
	AdminAccess(next http.HandlerFunc) http.HandlerFunc
	OptionalUser(next http.HandlerFunc) http.HandlerFunc
}
