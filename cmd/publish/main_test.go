package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	configtools "github.com/xdoubleu/essentia/v2/pkg/config"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/cmd/publish/internal/repositories"
	"olympiad.xdoubleu.com/internal/config"
	"olympiad.xdoubleu.com/internal/mocks"
	"olympiad.xdoubleu.com/internal/models"
)

var testApp *Application //nolint:gochecknoglobals //needed for tests

//nolint:gochecknoglobals //needed for tests
var accessToken = http.Cookie{
	Name:  "accessToken",
	Value: "access",
}

//nolint:gochecknoglobals //needed for tests
var refreshToken = http.Cookie{
	Name:  "refreshToken",
	Value: "refresh",
}

func TestMain(m *testing.M) {
	var err error

	cfg := config.New(logging.NewNopLogger())
	cfg.Env = configtools.TestEnv
	cfg.Throttle = false
	cfg.UploadDir = os.TempDir() + "/olympiad-publish-test"

	postgresDB, err := postgres.Connect(
		logging.NewNopLogger(),
		cfg.DBDsn,
		25,
		"15m",
		5,
		15*time.Second,
		30*time.Second,
	)
	if err != nil {
		panic(err)
	}

	testApp = NewApplication(
		logging.NewNopLogger(),
		cfg,
		postgresDB,
		mocks.NewMockedGoTrueClient(),
	)

	//nolint:exhaustruct //created at is set by the database
	err = repositories.New(postgresDB).Users.Save(context.Background(), &models.User{
		ID:       mocks.MockUserID(mocks.MockEmail).String(),
		Username: "test-user",
		Email:    mocks.MockEmail,
		IsAdmin:  true,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func TestNewServer(t *testing.T) {
	cfg := config.New(logging.NewNopLogger())
	cfg.Port = 8123

	srv, err := newServer(cfg, http.NotFoundHandler())
	require.NoError(t, err)

	assert.Equal(t, ":8123", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Minute, srv.ReadTimeout)
	assert.Equal(t, 30*time.Minute, srv.WriteTimeout)

	cfg.UploadTimeout = "2h"
	srv, err = newServer(cfg, http.NotFoundHandler())
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, srv.ReadTimeout)

	cfg.UploadTimeout = "soon"
	_, err = newServer(cfg, http.NotFoundHandler())
	assert.Error(t, err)
}
