package services

import (
	"html/template"

	"github.com/supabase-community/gotrue-go"
	"github.com/xdoubleu/essentia/v2/pkg/config"
	"olympiad.xdoubleu.com/cmd/publish/internal/repositories"
	cfg "olympiad.xdoubleu.com/internal/config"
)

type Services struct {
	Auth *AuthService
}

func New(
	cfg cfg.Config,
	repositories *repositories.Repositories,
	supabaseClient gotrue.Client,
	tpl *template.Template,
) *Services {
	return &Services{
		Auth: &AuthService{
			users:            repositories.Users,
			client:           supabaseClient,
			tpl:              tpl,
			useSecureCookies: cfg.Env == config.ProdEnv,
			accessExpiry:     cfg.AccessExpiry,
			refreshExpiry:    cfg.RefreshExpiry,
		},
	}
}
