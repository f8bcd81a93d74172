package olymp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
)

const fixture = `<!DOCTYPE html>
<html>
<head>
	<title>Олимпиада «Росатом»</title>
	<meta property="og:title" content="OG title">
	<style>body { color: red; }</style>
	<script>var date = "01.01.2020";</script>
</head>
<body>
	<h1>  Расписание
		<span>заключительного этапа</span> </h1>
	<p>Коротко.</p>
	<p>Заключительный этап олимпиады пройдёт 15 марта 2026 года на площадках вузов-организаторов.</p>
</body>
</html>`

func TestParse(t *testing.T) {
	page, err := olymp.Parse([]byte(fixture))
	require.NoError(t, err)

	assert.Equal(t, "Расписание заключительного этапа", page.Title)
	assert.Equal(
		t,
		"Заключительный этап олимпиады пройдёт 15 марта 2026 года на площадках вузов-организаторов.",
		page.Summary,
	)
	assert.Contains(t, page.Text, "Олимпиада «Росатом» Расписание заключительного этапа Коротко.")
	assert.NotContains(t, page.Text, "01.01.2020")
	assert.NotContains(t, page.Text, "color")
}

func TestParseFallbacks(t *testing.T) {
	page, err := olymp.Parse([]byte(`<html><head>
		<meta property="og:title" content=" Only OG ">
		<meta name="description" content=" Description wins ">
		</head><body><p>` + "short" + `</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Only OG", page.Title)
	assert.Equal(t, "Description wins", page.Summary)

	page, err = olymp.Parse([]byte(`<html><body><h1> </h1><p>short</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "", page.Title)
	assert.Equal(t, "", page.Summary)
}

func TestFetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.UserAgent()

		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	client := olymp.New(logging.NewNopLogger(), olymp.Options{
		UserAgent: "olympiad-test",
		Timeout:   5 * time.Second,
	})

	page, err := client.Fetch(context.Background(), server.URL+"/news")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/news", page.URL)
	assert.Equal(t, "Расписание заключительного этапа", page.Title)
	assert.Equal(t, "olympiad-test", userAgent)

	_, err = client.Fetch(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}
