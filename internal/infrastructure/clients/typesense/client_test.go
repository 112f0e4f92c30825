package typesense

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osarobo/threadcart/backend/pkg/config"
)

func TestClient_Integration(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") != "true" {
		t.Skip("Skipping integration test (set TEST_INTEGRATION=true to run)")
	}

	cfg := &config.TypesenseConfig{
		URL:    "http://localhost:8108",
		APIKey: "xyz",
	}

	client, err := NewClient(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, client)
	assert.NotNil(t, client.Client())
}
