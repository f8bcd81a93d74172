package olympiad_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad"
	"olympiad.xdoubleu.com/internal/config"
)

const portalPage = `<html><head><title>Олимпиада</title></head><body>
<h1>Заключительный этап</h1>
<p>Заключительный этап олимпиады пройдет 20 января 2026 года на площадках вуза.</p>
</body></html>`

func TestPortal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/final" {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte(portalPage))
	}))
	defer server.Close()

	sources := fmt.Sprintf(`news:
  - label: Final
    url: %[1]s/final
  - label: Broken
    url: %[1]s/missing
calendar:
  - label: Final olympiad
    url: %[1]s/final
    subject: Math
    stage: Final
    format: Onsite
baseCalendar:
  - name: Base
    subject: Physics
    stage: Qualifier
    date: 01 фев 2026
    format: Online
    link: https://example.com
`, server.URL)

	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sources), 0o600))

	cfg := config.New(logging.NewNopLogger())
	cfg.SourcesFile = path
	cfg.FetchTimeout = "5s"

	portal, err := olympiad.NewPortal(logging.NewNopLogger(), cfg)
	require.NoError(t, err)

	assert.Len(t, portal.Sources(), 3)

	news := portal.News(context.Background())
	require.Len(t, news, 2)
	assert.Equal(t, "Заключительный этап", news[0].Title)
	assert.Equal(t, "20.01.2026", news[0].Date)
	assert.Equal(t, "Обновление недоступно", news[1].Title)

	view := portal.Calendar(
		context.Background(),
		time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, view.Months, 2)
	assert.Empty(t, view.Undated)

	records := portal.Records(context.Background())
	require.Len(t, records, 2)
	assert.Equal(t, "Base", records[0].Name)
	assert.Equal(t, "Final olympiad", records[1].Name)
}
