package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/kwybro/cookbooks/internal/app"
	"github.com/kwybro/cookbooks/internal/config"
)

// flakySchemaClient fails ClassExists a set number of times before
// behaving like an empty schema.
type flakySchemaClient struct {
	callCount int
	failUntil int
}

func (m *flakySchemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	m.callCount++
	if m.callCount <= m.failUntil {
		return false, errors.New("connection refused")
	}
	return false, nil
}

func (m *flakySchemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	return nil
}

func (m *flakySchemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return nil, nil
}

func (m *flakySchemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	return nil
}

func TestEnsureSchemaWithRetry_Success(t *testing.T) {
	client := &flakySchemaClient{}
	err := app.EnsureSchemaWithRetry(context.Background(), client, 1, 1*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 1, client.callCount)
}

func TestEnsureSchemaWithRetry_Retries(t *testing.T) {
	client := &flakySchemaClient{failUntil: 2}
	err := app.EnsureSchemaWithRetry(context.Background(), client, 5, 1*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 3, client.callCount)
}

func TestEnsureSchemaWithRetry_Fail(t *testing.T) {
	client := &flakySchemaClient{failUntil: 100}
	err := app.EnsureSchemaWithRetry(context.Background(), client, 3, 1*time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, 3, client.callCount)
}

func TestBootstrap_ConfigurationError(t *testing.T) {
	cfg := &config.Config{
		DBHost: "invalid-host",
	}
	deps, err := app.Bootstrap(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, deps)
}
