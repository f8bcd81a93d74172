//nolint:mnd //no magic number
package config

import (
	"log/slog"

	"github.com/xdoubleu/essentia/v2/pkg/config"
)

type Config struct {
	Env             string
	Port            int
	Throttle        bool
	WebURL          string
	SentryDsn       string
	SampleRate      float64
	AccessExpiry    string
	RefreshExpiry   string
	DBDsn           string
	Release         string
	SupabaseProjRef string
	SupabaseAPIKey  string
	UploadDir       string
	MaxUploadSizeMB int
	UploadTimeout   string
	SourcesFile     string
	FetchCacheTTL   string
	FetchTimeout    string
	UserAgent       string
	CalendarMonths  int
	ExcludedDate    string
	WeekStart       string
}

func New(logger *slog.Logger) Config {
	var cfg Config

	parser := config.New(logger)

	cfg.Env = parser.EnvStr("ENV", config.ProdEnv)
	cfg.Port = parser.EnvInt("PORT", 8000)
	cfg.Throttle = parser.EnvBool("THROTTLE", true)
	cfg.WebURL = parser.EnvStr("WEB_URL", "http://localhost:8000")
	cfg.SentryDsn = parser.EnvStr("SENTRY_DSN", "")
	cfg.SampleRate = parser.EnvFloat("SAMPLE_RATE", 1.0)
	cfg.AccessExpiry = parser.EnvStr("ACCESS_EXPIRY", "1h")
	cfg.RefreshExpiry = parser.EnvStr("REFRESH_EXPIRY", "7d")
	cfg.DBDsn = parser.EnvStr("DB_DSN", "postgres://postgres@localhost/postgres")
	cfg.Release = parser.EnvStr("RELEASE", config.DevEnv)

	cfg.SupabaseProjRef = parser.EnvStr("SUPABASE_PROJ_REF", "")
	cfg.SupabaseAPIKey = parser.EnvStr("SUPABASE_API_KEY", "")

	cfg.UploadDir = parser.EnvStr("UPLOAD_DIR", "./var/uploads")
	cfg.MaxUploadSizeMB = parser.EnvInt("MAX_UPLOAD_SIZE_MB", 512)
	cfg.UploadTimeout = parser.EnvStr("UPLOAD_TIMEOUT", "30m")

	cfg.SourcesFile = parser.EnvStr("SOURCES_FILE", "")
	cfg.FetchCacheTTL = parser.EnvStr("FETCH_CACHE_TTL", "1h")
	cfg.FetchTimeout = parser.EnvStr("FETCH_TIMEOUT", "15s")
	cfg.UserAgent = parser.EnvStr(
		"USER_AGENT",
		"Mozilla/5.0 (compatible; OlympiadPortal/1.0; +https://olympiad.xdoubleu.com)",
	)

	cfg.CalendarMonths = parser.EnvInt("CALENDAR_MONTHS", 2)
	cfg.ExcludedDate = parser.EnvStr("EXCLUDED_DATE", "02-14")
	cfg.WeekStart = parser.EnvStr("WEEK_START", "monday")

	return cfg
}
