package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenRepositories_Memory(t *testing.T) {
	repos, closeRepos, err := openRepositories(context.Background(), &config.Config{StorageDriver: config.StorageMemory}, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, closeRepos)
	defer closeRepos()

	assert.NotNil(t, repos.TxManager)
	assert.NotNil(t, repos.ProductRepo)
	assert.NotNil(t, repos.DocumentRepo)
}

func TestOpenRepositories_PostgresWithoutURLFails(t *testing.T) {
	repos, closeRepos, err := openRepositories(context.Background(), &config.Config{StorageDriver: config.StoragePostgres}, discardLogger())
	require.Error(t, err)
	assert.Nil(t, closeRepos)
	assert.Nil(t, repos.TxManager)
}

func TestNewRedisClient_DisabledWithoutURL(t *testing.T) {
	client, err := newRedisClient(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)

	_, err = newRedisClient(context.Background(), "not a redis url")
	assert.Error(t, err)
}

func TestRunMigrate_RejectsUnknownDirection(t *testing.T) {
	err := runMigrate(migrateCmd, []string{"sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}
